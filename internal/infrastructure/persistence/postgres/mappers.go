package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// toOrderModel: maps domain entity to db model
func toOrderModel(o *domain.Order) (*OrderModel, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	shipping, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("marshal shipping address: %w", err)
	}
	billing, err := json.Marshal(o.BillingAddress)
	if err != nil {
		return nil, fmt.Errorf("marshal billing address: %w", err)
	}
	tax, err := json.Marshal(o.TaxDetails)
	if err != nil {
		return nil, fmt.Errorf("marshal tax details: %w", err)
	}

	return &OrderModel{
		OrderID:         o.OrderID,
		UserID:          o.UserID,
		Items:           items,
		Subtotal:        o.Pricing.Subtotal.StringFixed(2),
		TaxAmount:       o.Pricing.TaxAmount.StringFixed(2),
		TotalAmount:     o.Pricing.TotalAmount.StringFixed(2),
		Currency:        o.Pricing.Currency,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentMethod:   nullable(string(o.PaymentMethod)),
		ShippingAddress: shipping,
		BillingAddress:  billing,
		TaxDetails:      tax,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}, nil
}

// toOrder: maps db model to domain entity
func toOrder(m OrderModel) (*domain.Order, error) {
	o := &domain.Order{
		OrderID:       m.OrderID,
		UserID:        m.UserID,
		Status:        domain.OrderStatus(m.Status),
		PaymentStatus: domain.OrderPaymentStatus(m.PaymentStatus),
		PaymentMethod: domain.PaymentMethod(deref(m.PaymentMethod)),
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	var err error
	if o.Pricing.Subtotal, err = decimal.NewFromString(m.Subtotal); err != nil {
		return nil, fmt.Errorf("parse subtotal: %w", err)
	}
	if o.Pricing.TaxAmount, err = decimal.NewFromString(m.TaxAmount); err != nil {
		return nil, fmt.Errorf("parse tax amount: %w", err)
	}
	if o.Pricing.TotalAmount, err = decimal.NewFromString(m.TotalAmount); err != nil {
		return nil, fmt.Errorf("parse total amount: %w", err)
	}
	o.Pricing.Currency = m.Currency

	if err := json.Unmarshal(m.Items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(m.ShippingAddress, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	if err := json.Unmarshal(m.BillingAddress, &o.BillingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal billing address: %w", err)
	}
	if err := json.Unmarshal(m.TaxDetails, &o.TaxDetails); err != nil {
		return nil, fmt.Errorf("unmarshal tax details: %w", err)
	}
	return o, nil
}

// toPaymentModel: maps domain entity to db model
func toPaymentModel(p *domain.Payment) (*PaymentModel, error) {
	m := &PaymentModel{
		ID:                p.ID,
		OrderID:           p.OrderID,
		UserID:            p.UserID,
		Amount:            p.Amount.StringFixed(2),
		Currency:          p.Currency,
		Method:            string(p.Method),
		Provider:          string(p.Provider),
		Status:            string(p.Status),
		ProviderOrderID:   nullable(p.ProviderRef.OrderID),
		ProviderPaymentID: nullable(p.ProviderRef.PaymentID),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		CompletedAt:       p.CompletedAt,
	}

	var err error
	if m.ProviderReference, err = json.Marshal(p.ProviderRef); err != nil {
		return nil, fmt.Errorf("marshal provider reference: %w", err)
	}
	if m.TaxDetails, err = json.Marshal(p.TaxDetails); err != nil {
		return nil, fmt.Errorf("marshal tax details: %w", err)
	}
	if m.Customer, err = json.Marshal(p.Customer); err != nil {
		return nil, fmt.Errorf("marshal customer: %w", err)
	}
	if m.BillingAddress, err = json.Marshal(p.BillingAddress); err != nil {
		return nil, fmt.Errorf("marshal billing address: %w", err)
	}
	if m.DeliveryAddress, err = json.Marshal(p.DeliveryAddress); err != nil {
		return nil, fmt.Errorf("marshal delivery address: %w", err)
	}
	if p.Refund != nil {
		if m.Refund, err = json.Marshal(p.Refund); err != nil {
			return nil, fmt.Errorf("marshal refund: %w", err)
		}
	}
	return m, nil
}

// toPayment: maps db model to domain entity
func toPayment(m PaymentModel) (*domain.Payment, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}

	p := &domain.Payment{
		ID:          m.ID,
		OrderID:     m.OrderID,
		UserID:      m.UserID,
		Amount:      amount,
		Currency:    m.Currency,
		Method:      domain.PaymentMethod(m.Method),
		Provider:    domain.Provider(m.Provider),
		Status:      domain.PaymentStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CompletedAt: m.CompletedAt,
	}

	if err := json.Unmarshal(m.ProviderReference, &p.ProviderRef); err != nil {
		return nil, fmt.Errorf("unmarshal provider reference: %w", err)
	}
	if err := json.Unmarshal(m.TaxDetails, &p.TaxDetails); err != nil {
		return nil, fmt.Errorf("unmarshal tax details: %w", err)
	}
	if err := json.Unmarshal(m.Customer, &p.Customer); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	if err := json.Unmarshal(m.BillingAddress, &p.BillingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal billing address: %w", err)
	}
	if err := json.Unmarshal(m.DeliveryAddress, &p.DeliveryAddress); err != nil {
		return nil, fmt.Errorf("unmarshal delivery address: %w", err)
	}
	if len(m.Refund) > 0 && string(m.Refund) != "null" {
		p.Refund = &domain.Refund{}
		if err := json.Unmarshal(m.Refund, p.Refund); err != nil {
			return nil, fmt.Errorf("unmarshal refund: %w", err)
		}
	}
	return p, nil
}
