package rest

import (
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/application/services"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/gst"
	"github.com/shopspring/decimal"
)

// Money is a rupee amount rendered with two decimal places.
type Money string

func money(d decimal.Decimal) Money {
	return Money(d.StringFixed(2))
}

type TaxResponse struct {
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	IsRegistered       bool   `json:"isRegistered"`
	RatePercent        string `json:"ratePercent"`
	TaxableAmount      Money  `json:"taxableAmount"`
	CGST               Money  `json:"cgst"`
	SGST               Money  `json:"sgst"`
	IGST               Money  `json:"igst"`
	TotalTax           Money  `json:"totalTax"`
	InterState         bool   `json:"interState"`
}

func ToTaxResponse(t domain.TaxDetails) TaxResponse {
	return TaxResponse{
		RegistrationNumber: t.RegistrationNumber,
		IsRegistered:       t.IsRegistered,
		RatePercent:        t.RatePercent.String(),
		TaxableAmount:      money(t.TaxableAmount),
		CGST:               money(t.CGST),
		SGST:               money(t.SGST),
		IGST:               money(t.IGST),
		TotalTax:           money(t.TotalTax),
		InterState:         t.IsInterState(),
	}
}

type OrderItemResponse struct {
	ProductID          string `json:"productId"`
	Name               string `json:"name"`
	Quantity           int    `json:"quantity"`
	UnitPrice          Money  `json:"unitPrice"`
	LineTotal          Money  `json:"lineTotal"`
	TaxRatePercent     string `json:"taxRatePercent"`
	ClassificationCode string `json:"classificationCode,omitempty"`
}

type PricingResponse struct {
	Subtotal    Money  `json:"subtotal"`
	TaxAmount   Money  `json:"taxAmount"`
	TotalAmount Money  `json:"totalAmount"`
	Currency    string `json:"currency"`
}

type OrderResponse struct {
	OrderID         string               `json:"orderId"`
	UserID          string               `json:"userId"`
	Items           []OrderItemResponse  `json:"items"`
	Pricing         PricingResponse      `json:"pricing"`
	Status          domain.OrderStatus   `json:"status"`
	PaymentStatus   string               `json:"paymentStatus"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod,omitempty"`
	ShippingAddress domain.Address       `json:"shippingAddress"`
	BillingAddress  domain.Address       `json:"billingAddress"`
	TaxDetails      TaxResponse          `json:"taxDetails"`
	Payment         *PaymentResponse     `json:"payment,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func ToOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:          it.ProductID,
			Name:               it.Name,
			Quantity:           it.Quantity,
			UnitPrice:          money(it.UnitPrice),
			LineTotal:          money(it.LineTotal),
			TaxRatePercent:     it.TaxRatePercent.String(),
			ClassificationCode: it.ClassificationCode,
		})
	}

	return OrderResponse{
		OrderID: o.OrderID,
		UserID:  o.UserID,
		Items:   items,
		Pricing: PricingResponse{
			Subtotal:    money(o.Pricing.Subtotal),
			TaxAmount:   money(o.Pricing.TaxAmount),
			TotalAmount: money(o.Pricing.TotalAmount),
			Currency:    o.Pricing.Currency,
		},
		Status:          o.Status,
		PaymentStatus:   string(o.PaymentStatus),
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		TaxDetails:      ToTaxResponse(o.TaxDetails),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func ToOrderViewResponse(v *services.OrderView) OrderResponse {
	resp := ToOrderResponse(v.Order)
	if v.Payment != nil {
		p := ToPaymentResponse(v.Payment)
		resp.Payment = &p
	}
	return resp
}

type OrderPageResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
}

func ToOrderPageResponse(p *services.OrderPage) OrderPageResponse {
	orders := make([]OrderResponse, 0, len(p.Orders))
	for _, o := range p.Orders {
		orders = append(orders, ToOrderResponse(o))
	}
	return OrderPageResponse{
		Orders:     orders,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

type RefundResponse struct {
	RefundID   string              `json:"refundId,omitempty"`
	Amount     Money               `json:"amount"`
	Reason     string              `json:"reason,omitempty"`
	Status     domain.RefundStatus `json:"status"`
	RefundedAt *time.Time          `json:"refundedAt,omitempty"`
}

type PaymentResponse struct {
	PaymentID       string                   `json:"paymentId"`
	OrderID         string                   `json:"orderId"`
	UserID          string                   `json:"userId,omitempty"`
	Amount          Money                    `json:"amount"`
	Currency        string                   `json:"currency"`
	Method          domain.PaymentMethod     `json:"method"`
	Provider        domain.Provider          `json:"provider"`
	Status          domain.PaymentStatus     `json:"status"`
	ProviderRef     domain.ProviderReference `json:"providerReference"`
	TaxDetails      TaxResponse              `json:"taxDetails"`
	Customer        domain.Customer          `json:"customer"`
	BillingAddress  domain.Address           `json:"billingAddress"`
	DeliveryAddress domain.Address           `json:"deliveryAddress"`
	Refund          *RefundResponse          `json:"refund,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
	CompletedAt     *time.Time               `json:"completedAt,omitempty"`
}

func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		PaymentID:       p.ID,
		OrderID:         p.OrderID,
		UserID:          p.UserID,
		Amount:          money(p.Amount),
		Currency:        p.Currency,
		Method:          p.Method,
		Provider:        p.Provider,
		Status:          p.Status,
		ProviderRef:     p.ProviderRef,
		TaxDetails:      ToTaxResponse(p.TaxDetails),
		Customer:        p.Customer,
		BillingAddress:  p.BillingAddress,
		DeliveryAddress: p.DeliveryAddress,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		CompletedAt:     p.CompletedAt,
	}
	if p.Refund != nil {
		resp.Refund = &RefundResponse{
			RefundID:   p.Refund.RefundID,
			Amount:     money(p.Refund.Amount),
			Reason:     p.Refund.Reason,
			Status:     p.Refund.Status,
			RefundedAt: p.Refund.RefundedAt,
		}
	}
	return resp
}

// CheckoutResponse is what the client needs to open the provider's checkout.
type CheckoutResponse struct {
	PaymentID       string               `json:"paymentId"`
	OrderID         string               `json:"orderId"`
	Status          domain.PaymentStatus `json:"status"`
	Method          domain.PaymentMethod `json:"method"`
	ProviderOrderID string               `json:"providerOrderId,omitempty"`
	KeyID           string               `json:"keyId,omitempty"`
	AmountMinor     int64                `json:"amountMinor"`
	Currency        string               `json:"currency"`
	UPIApps         []string             `json:"upiApps,omitempty"`
	TaxDetails      TaxResponse          `json:"taxDetails"`
}

func ToCheckoutResponse(c *services.CreatedPayment) CheckoutResponse {
	resp := CheckoutResponse{
		PaymentID:  c.Payment.ID,
		OrderID:    c.Payment.OrderID,
		Status:     c.Payment.Status,
		Method:     c.Payment.Method,
		Currency:   c.Payment.Currency,
		TaxDetails: ToTaxResponse(c.Payment.TaxDetails),
	}
	if c.Intent != nil {
		resp.ProviderOrderID = c.Intent.ProviderOrderID
		resp.KeyID = c.Intent.ClientKey
		resp.AmountMinor = c.Intent.AmountMinor
		resp.UPIApps = c.Intent.UPIApps
	}
	return resp
}

type BreakdownResponse struct {
	TaxableAmount Money  `json:"taxableAmount"`
	TaxAmount     Money  `json:"taxAmount"`
	CGST          Money  `json:"cgst"`
	SGST          Money  `json:"sgst"`
	IGST          Money  `json:"igst"`
	TotalAmount   Money  `json:"totalAmount"`
	RatePercent   string `json:"ratePercent"`
	InterState    bool   `json:"interState"`
}

func ToBreakdownResponse(b gst.Breakdown, rate decimal.Decimal, interState bool) BreakdownResponse {
	return BreakdownResponse{
		TaxableAmount: money(b.TaxableAmount),
		TaxAmount:     money(b.TaxAmount),
		CGST:          money(b.CGST),
		SGST:          money(b.SGST),
		IGST:          money(b.IGST),
		TotalAmount:   money(b.TotalAmount),
		RatePercent:   rate.String(),
		InterState:    interState,
	}
}
