package gateway

import (
	"context"

	"github.com/DanielPopoola/gst-checkout/internal/application"
)

// CashOnDelivery is the null gateway for cash on delivery. Nothing leaves the process.
type CashOnDelivery struct{}

func NewCashOnDelivery() CashOnDelivery {
	return CashOnDelivery{}
}

func (CashOnDelivery) CreateIntent(_ context.Context, req application.IntentRequest) (*application.Intent, error) {
	return &application.Intent{
		AmountMinor: toPaise(req.Amount),
		Currency:    req.Currency,
	}, nil
}

// VerifySignature always succeeds; cash is collected on delivery.
func (CashOnDelivery) VerifySignature(context.Context, string, string, string) (bool, error) {
	return true, nil
}

func (CashOnDelivery) FetchStatus(context.Context, string) (application.ProviderStatus, error) {
	return "", ErrUnsupported
}

func (CashOnDelivery) Refund(context.Context, application.RefundRequest) (*application.RefundResult, error) {
	return nil, ErrUnsupported
}
