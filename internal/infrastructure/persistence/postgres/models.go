package postgres

import "time"

// OrderModel mirrors a row of the orders table. Amounts travel as text to keep NUMERIC exact.
type OrderModel struct {
	OrderID         string
	UserID          string
	Items           []byte
	Subtotal        string
	TaxAmount       string
	TotalAmount     string
	Currency        string
	Status          string
	PaymentStatus   string
	PaymentMethod   *string
	ShippingAddress []byte
	BillingAddress  []byte
	TaxDetails      []byte
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PaymentModel mirrors a row of the payments table.
type PaymentModel struct {
	ID                string
	OrderID           string
	UserID            string
	Amount            string
	Currency          string
	Method            string
	Provider          string
	Status            string
	ProviderOrderID   *string
	ProviderPaymentID *string
	ProviderReference []byte
	TaxDetails        []byte
	Customer          []byte
	BillingAddress    []byte
	DeliveryAddress   []byte
	Refund            []byte
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       *time.Time
}
