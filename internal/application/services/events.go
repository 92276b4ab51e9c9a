package services

import "github.com/DanielPopoola/gst-checkout/internal/domain"

const (
	EventPaymentAuthorized = "payment.authorized"
	EventPaymentCaptured   = "payment.captured"
	EventPaymentFailed     = "payment.failed"
	EventOrderPaid         = "order.paid"
)

// Event is a provider notification in the Razorpay webhook shape.
type Event struct {
	Event   string       `json:"event"`
	Payload EventPayload `json:"payload"`
}

type EventPayload struct {
	Payment *PaymentEnvelope `json:"payment,omitempty"`
	Order   *OrderEnvelope   `json:"order,omitempty"`
}

type PaymentEnvelope struct {
	Entity PaymentEntity `json:"entity"`
}

type OrderEnvelope struct {
	Entity OrderEntity `json:"entity"`
}

type PaymentEntity struct {
	ID      string      `json:"id"`
	OrderID string      `json:"order_id"`
	Amount  int64       `json:"amount"`
	Status  string      `json:"status"`
	Method  string      `json:"method"`
	VPA     string      `json:"vpa,omitempty"`
	Wallet  string      `json:"wallet,omitempty"`
	Card    *CardEntity `json:"card,omitempty"`
}

type CardEntity struct {
	Last4   string `json:"last4"`
	Network string `json:"network"`
	Type    string `json:"type"`
}

type OrderEntity struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// reference extracts the method specific provider fields.
func (e PaymentEntity) reference() domain.ProviderReference {
	ref := domain.ProviderReference{PaymentID: e.ID}
	switch domain.PaymentMethod(e.Method) {
	case domain.MethodUPI:
		ref.UPITransactionID = e.ID
		ref.UPIID = e.VPA
		ref.UPIApp = e.Wallet
	case domain.MethodCard:
		if e.Card != nil {
			ref.CardLast4 = e.Card.Last4
			ref.CardBrand = e.Card.Network
			ref.CardType = e.Card.Type
		}
	}
	return ref
}

// providerOrderID is the provider order the event refers to.
func (e Event) providerOrderID() string {
	if e.Payload.Order != nil && e.Payload.Order.Entity.ID != "" {
		return e.Payload.Order.Entity.ID
	}
	if e.Payload.Payment != nil {
		return e.Payload.Payment.Entity.OrderID
	}
	return ""
}

func (e Event) reference() domain.ProviderReference {
	if e.Payload.Payment == nil {
		return domain.ProviderReference{}
	}
	return e.Payload.Payment.Entity.reference()
}
