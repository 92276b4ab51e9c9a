package services

import (
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderItemInput struct {
	ProductID          string
	Name               string
	Quantity           int
	UnitPrice          decimal.Decimal
	TaxRatePercent     *decimal.Decimal
	ClassificationCode string
}

type CreateOrderCommand struct {
	UserID             string
	Items              []OrderItemInput
	ShippingAddress    domain.Address
	BillingAddress     domain.Address
	PaymentMethod      domain.PaymentMethod
	RegistrationNumber string
}

type UpdateOrderStatusCommand struct {
	OrderID string
	Status  domain.OrderStatus
	Reason  string
}

type CreatePaymentCommand struct {
	OrderID            string
	UserID             string
	Amount             decimal.Decimal
	Method             domain.PaymentMethod
	Customer           domain.Customer
	BillingAddress     domain.Address
	DeliveryAddress    domain.Address
	RegistrationNumber string
	Metadata           map[string]string
}

type ConfirmPaymentCommand struct {
	PaymentID         string
	Method            domain.PaymentMethod
	ProviderOrderID   string
	ProviderPaymentID string
	Signature         string
}

type RefundPaymentCommand struct {
	PaymentID string
	// Amount defaults to the full payment amount when zero.
	Amount decimal.Decimal
	Reason string
}
