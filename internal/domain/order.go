package domain

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

// Valid reports whether s names a known order status.
func (s OrderStatus) Valid() bool {
	return slices.Contains(fulfilmentFlow, s) || s == OrderCancelled || s == OrderReturned
}

type OrderPaymentStatus string

const (
	OrderPaymentPending  OrderPaymentStatus = "pending"
	OrderPaymentPaid     OrderPaymentStatus = "paid"
	OrderPaymentFailed   OrderPaymentStatus = "failed"
	OrderPaymentRefunded OrderPaymentStatus = "refunded"
)

// fulfilmentFlow is the forward progression; an order moves one step at a time.
var fulfilmentFlow = []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered}

type OrderItem struct {
	ProductID          string          `json:"productId"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	LineTotal          decimal.Decimal `json:"lineTotal"`
	TaxRatePercent     decimal.Decimal `json:"taxRatePercent"`
	ClassificationCode string          `json:"classificationCode,omitempty"`
}

type Pricing struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	Currency    string
}

type Order struct {
	OrderID         string
	UserID          string
	Items           []OrderItem
	Pricing         Pricing
	Status          OrderStatus
	PaymentStatus   OrderPaymentStatus
	PaymentMethod   PaymentMethod
	ShippingAddress Address
	BillingAddress  Address
	TaxDetails      TaxDetails
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder builds a pending order from an already computed pricing and tax snapshot.
func NewOrder(
	orderID string,
	userID string,
	items []OrderItem,
	pricing Pricing,
	taxDetails TaxDetails,
	shipping, billing Address,
	method PaymentMethod,
	createdAt time.Time,
) (*Order, error) {
	if orderID == "" {
		return nil, errors.New("order ID is required")
	}
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if len(items) == 0 {
		return nil, NewEmptyOrderError()
	}
	if !pricing.TotalAmount.IsPositive() {
		return nil, NewInvalidAmountError("order total %s must be greater than zero", pricing.TotalAmount.String())
	}
	if !pricing.Subtotal.Add(pricing.TaxAmount).Equal(pricing.TotalAmount) {
		return nil, NewInvalidAmountError("subtotal %s plus tax %s does not equal total %s",
			pricing.Subtotal.String(), pricing.TaxAmount.String(), pricing.TotalAmount.String())
	}
	split := taxDetails.CGST.Add(taxDetails.SGST).Add(taxDetails.IGST)
	if !split.Equal(pricing.TaxAmount) {
		return nil, NewInvalidAmountError("tax split %s does not equal tax amount %s", split.String(), pricing.TaxAmount.String())
	}
	if !taxDetails.IGST.IsZero() && !(taxDetails.CGST.IsZero() && taxDetails.SGST.IsZero()) {
		return nil, NewInvalidAmountError("order cannot carry both IGST and CGST/SGST")
	}
	pricing.Currency = CurrencyINR

	return &Order{
		OrderID:         orderID,
		UserID:          userID,
		Items:           slices.Clone(items),
		Pricing:         pricing,
		Status:          OrderPending,
		PaymentStatus:   OrderPaymentPending,
		PaymentMethod:   method,
		ShippingAddress: shipping.WithDefaults(),
		BillingAddress:  billing.WithDefaults(),
		TaxDetails:      taxDetails,
		Version:         1,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}, nil
}

// TransitionTo moves the order to target if the transition table allows it.
func (o *Order) TransitionTo(target OrderStatus) error {
	if err := o.canTransitionTo(target); err != nil {
		return err
	}
	o.Status = target
	return nil
}

func (o *Order) canTransitionTo(target OrderStatus) error {
	if o.IsTerminal() {
		return NewInvalidTransitionError(string(o.Status), string(target))
	}
	switch target {
	case OrderCancelled:
		if o.Status == OrderShipped || o.Status == OrderDelivered {
			return NewInvalidTransitionError(string(o.Status), string(target))
		}
		return nil
	case OrderReturned:
		if o.Status != OrderDelivered {
			return NewInvalidTransitionError(string(o.Status), string(target))
		}
		return nil
	}

	current := slices.Index(fulfilmentFlow, o.Status)
	next := slices.Index(fulfilmentFlow, target)
	if next < 0 || next != current+1 {
		return NewInvalidTransitionError(string(o.Status), string(target))
	}
	return nil
}

// MarkPaid records a settled payment. It reports false when there was nothing to change.
func (o *Order) MarkPaid() bool {
	changed := false
	if o.PaymentStatus != OrderPaymentPaid && o.PaymentStatus != OrderPaymentRefunded {
		o.PaymentStatus = OrderPaymentPaid
		changed = true
	}
	if o.Status == OrderPending {
		o.Status = OrderConfirmed
		changed = true
	}
	return changed
}

// MarkPaymentFailed only applies while the payment is still outstanding.
func (o *Order) MarkPaymentFailed() bool {
	if o.PaymentStatus != OrderPaymentPending {
		return false
	}
	o.PaymentStatus = OrderPaymentFailed
	return true
}

func (o *Order) MarkRefunded() bool {
	if o.PaymentStatus == OrderPaymentRefunded {
		return false
	}
	o.PaymentStatus = OrderPaymentRefunded
	return true
}

func (o *Order) IsTerminal() bool {
	return o.Status == OrderCancelled || o.Status == OrderReturned
}

// IsInterState reports whether the frozen tax snapshot used IGST.
func (o *Order) IsInterState() bool {
	return o.TaxDetails.IsInterState()
}

func (o *Order) Clone() *Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return &c
}
