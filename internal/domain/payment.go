// Package domain holds the order and payment entities and their state machines.
package domain

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current state of a payment in its lifecycle
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodUPI            PaymentMethod = "upi"
	MethodCard           PaymentMethod = "card"
	MethodNetBanking     PaymentMethod = "netbanking"
	MethodWallet         PaymentMethod = "wallet"
	MethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// Valid reports whether m is one of the supported methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodUPI, MethodCard, MethodNetBanking, MethodWallet, MethodCashOnDelivery:
		return true
	}
	return false
}

// Provider returns the provider that settles payments made with m.
func (m PaymentMethod) Provider() Provider {
	if m == MethodCashOnDelivery {
		return ProviderCOD
	}
	return ProviderRazorpay
}

type Provider string

const (
	ProviderRazorpay Provider = "razorpay"
	ProviderCOD      Provider = "cod"
)

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundProcessed RefundStatus = "processed"
	RefundFailed    RefundStatus = "failed"
)

type Refund struct {
	RefundID   string          `json:"refundId,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason,omitempty"`
	RefundedAt *time.Time      `json:"refundedAt,omitempty"`
	Status     RefundStatus    `json:"status"`
}

type Payment struct {
	ID       string
	OrderID  string
	UserID   string
	Amount   decimal.Decimal
	Currency string
	Method   PaymentMethod
	Provider Provider
	Status   PaymentStatus

	ProviderRef     ProviderReference
	TaxDetails      TaxDetails
	Customer        Customer
	BillingAddress  Address
	DeliveryAddress Address
	Refund          *Refund

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func NewPayment(
	id string,
	orderID string,
	userID string,
	amount decimal.Decimal,
	method PaymentMethod,
	createdAt time.Time,
) (*Payment, error) {
	if id == "" {
		return nil, errors.New("payment ID is required")
	}
	if orderID == "" {
		return nil, errors.New("order ID is required")
	}
	if !amount.IsPositive() {
		return nil, NewInvalidAmountError("payment amount %s must be greater than zero", amount.String())
	}
	if !method.Valid() {
		return nil, &DomainError{Kind: KindInvalidState, Message: "unsupported payment method " + string(method)}
	}

	return &Payment{
		ID:        id,
		OrderID:   orderID,
		UserID:    userID,
		Amount:    amount,
		Currency:  CurrencyINR,
		Method:    method,
		Provider:  method.Provider(),
		Status:    PaymentPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// MarkProcessing records that the provider authorized the payment but has not captured it yet.
func (p *Payment) MarkProcessing(ref ProviderReference) error {
	if err := p.transition(PaymentProcessing); err != nil {
		return err
	}
	p.ProviderRef = p.ProviderRef.Merge(ref)
	return nil
}

// Complete settles the payment and freezes the provider reference.
func (p *Payment) Complete(ref ProviderReference, completedAt time.Time) error {
	if err := p.transition(PaymentCompleted); err != nil {
		return err
	}
	p.ProviderRef = p.ProviderRef.Merge(ref)
	p.CompletedAt = &completedAt
	return nil
}

func (p *Payment) Fail() error {
	return p.transition(PaymentFailed)
}

func (p *Payment) Cancel() error {
	return p.transition(PaymentCancelled)
}

// MarkRefunded transitions a completed payment to refunded and records the refund.
func (p *Payment) MarkRefunded(refund Refund) error {
	if err := p.transition(PaymentRefunded); err != nil {
		return err
	}
	p.Refund = &refund
	return nil
}

// BeginRefund records a pending refund on a completed payment. Only one refund may be
// in flight at a time; an attempt the provider rejected may be retried.
func (p *Payment) BeginRefund(refund Refund) error {
	if p.Status != PaymentCompleted {
		return NewInvalidStateError(string(p.Status), string(PaymentCompleted))
	}
	if !p.RefundClaimable() {
		return NewInvalidStateError("refund "+string(p.Refund.Status), "no refund in progress")
	}
	refund.Status = RefundPending
	p.Refund = &refund
	return nil
}

// FailRefund releases a pending refund after the provider rejected it.
func (p *Payment) FailRefund() error {
	if p.Status != PaymentCompleted || p.Refund == nil || p.Refund.Status != RefundPending {
		return NewInvalidStateError(string(p.Status), "completed with a pending refund")
	}
	p.Refund.Status = RefundFailed
	return nil
}

// RefundClaimable reports whether BeginRefund would succeed.
func (p *Payment) RefundClaimable() bool {
	return p.Status == PaymentCompleted && (p.Refund == nil || p.Refund.Status == RefundFailed)
}

// IsSettleable reports whether a completed or failed transition may still be applied.
func (p *Payment) IsSettleable() bool {
	return p.Status == PaymentPending || p.Status == PaymentProcessing
}

func (p *Payment) transition(target PaymentStatus) error {
	if err := p.canTransitionTo(target); err != nil {
		return err
	}
	p.Status = target
	return nil
}

// defines various payment statuses that can be transitioned to
func (p *Payment) canTransitionTo(target PaymentStatus) error {
	switch p.Status {
	case PaymentPending:
		return p.allow(target, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentCancelled)
	case PaymentProcessing:
		return p.allow(target, PaymentCompleted, PaymentFailed, PaymentCancelled)
	case PaymentCompleted:
		return p.allow(target, PaymentRefunded)
	}
	return NewInvalidStateError(string(p.Status), "a non-terminal status")
}

// Helper to check allowed state transitions
func (p *Payment) allow(target PaymentStatus, allowed ...PaymentStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidStateError(string(p.Status), "a status that allows "+string(target))
}

// helper to identify payment statuses that are terminal
func (p *Payment) IsTerminal() bool {
	switch p.Status {
	case PaymentFailed, PaymentCancelled, PaymentRefunded:
		return true
	default:
		return false
	}
}

// Clone returns a deep copy so stores and services never share mutable state.
func (p *Payment) Clone() *Payment {
	c := *p
	if p.Refund != nil {
		r := *p.Refund
		if p.Refund.RefundedAt != nil {
			at := *p.Refund.RefundedAt
			r.RefundedAt = &at
		}
		c.Refund = &r
	}
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}
