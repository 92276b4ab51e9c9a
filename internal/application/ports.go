package application

import (
	"context"

	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

// ProviderGateway is the port for an external payment provider.
type ProviderGateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	VerifySignature(ctx context.Context, providerOrderID, providerPaymentID, signature string) (bool, error)
	FetchStatus(ctx context.Context, providerPaymentID string) (ProviderStatus, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}

type IntentRequest struct {
	Amount   decimal.Decimal
	Currency string
	Receipt  string
	Method   domain.PaymentMethod
	Metadata map[string]string
}

// Intent is what the client needs to complete checkout with the provider.
type Intent struct {
	ProviderOrderID string
	ClientKey       string
	AmountMinor     int64
	Currency        string
	UPIApps         []string
}

type ProviderStatus string

const (
	ProviderStatusCreated    ProviderStatus = "created"
	ProviderStatusAuthorized ProviderStatus = "authorized"
	ProviderStatusCaptured   ProviderStatus = "captured"
	ProviderStatusFailed     ProviderStatus = "failed"
	ProviderStatusRefunded   ProviderStatus = "refunded"
)

type RefundRequest struct {
	ProviderPaymentID string
	Amount            decimal.Decimal
	Reason            string
}

type RefundResult struct {
	RefundID string
	Status   string
}

// Gateways resolves the gateway that settles a given provider.
type Gateways map[domain.Provider]ProviderGateway

func (g Gateways) For(provider domain.Provider) (ProviderGateway, error) {
	gw, ok := g[provider]
	if !ok {
		return nil, NewInternalError(errUnknownProvider(provider))
	}
	return gw, nil
}

type errUnknownProvider domain.Provider

func (e errUnknownProvider) Error() string {
	return "no gateway configured for provider " + string(e)
}

// OrderRepository is the port for order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, int, error)
	// Update persists status changes when order.Version still matches the stored version,
	// then bumps the version. It returns domain.ErrStaleRecord otherwise.
	Update(ctx context.Context, order *domain.Order) error
}

// PaymentRepository is the port for payment persistence.
type PaymentRepository interface {
	// Create fails with a DuplicatePayment error when a payment for the order already exists.
	Create(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*domain.Payment, error)
	// Transition writes next only if the stored status is one of from. It reports whether the write applied.
	Transition(ctx context.Context, next *domain.Payment, from ...domain.PaymentStatus) (bool, error)
	// ClaimRefund writes next only while the stored payment is completed with no refund in
	// flight. It reports whether the claim was taken.
	ClaimRefund(ctx context.Context, next *domain.Payment) (bool, error)
}

// EventLog remembers processed webhook event ids so redeliveries can be skipped early.
type EventLog interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Remember(ctx context.Context, eventID string) error
}
