package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a DomainError. Callers branch on the kind, never on the message.
type Kind string

const (
	KindInvalidAmount      Kind = "INVALID_AMOUNT"
	KindInvalidRate        Kind = "INVALID_RATE"
	KindInvalidTransition  Kind = "INVALID_TRANSITION"
	KindEmptyOrder         Kind = "EMPTY_ORDER"
	KindDuplicatePayment   Kind = "DUPLICATE_PAYMENT"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidState       Kind = "INVALID_STATE"
	KindVerificationFailed Kind = "VERIFICATION_FAILED"
	KindProviderError      Kind = "PROVIDER_ERROR"
	KindProviderTimeout    Kind = "PROVIDER_TIMEOUT"
)

// DomainError represents a business logic error
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same kind, so the sentinels below work with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidAmount      = &DomainError{Kind: KindInvalidAmount, Message: "invalid amount"}
	ErrInvalidRate        = &DomainError{Kind: KindInvalidRate, Message: "invalid tax rate"}
	ErrInvalidTransition  = &DomainError{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrEmptyOrder         = &DomainError{Kind: KindEmptyOrder, Message: "order has no items"}
	ErrDuplicatePayment   = &DomainError{Kind: KindDuplicatePayment, Message: "payment already exists for order"}
	ErrNotFound           = &DomainError{Kind: KindNotFound, Message: "not found"}
	ErrInvalidState       = &DomainError{Kind: KindInvalidState, Message: "invalid state"}
	ErrVerificationFailed = &DomainError{Kind: KindVerificationFailed, Message: "payment verification failed"}
	ErrProviderError      = &DomainError{Kind: KindProviderError, Message: "payment provider error"}
	ErrProviderTimeout    = &DomainError{Kind: KindProviderTimeout, Message: "payment provider timed out"}
)

// ErrStaleRecord is returned by stores when an optimistic update lost against a concurrent writer.
// It is not part of the domain taxonomy; services re-read and retry.
var ErrStaleRecord = errors.New("record was modified concurrently")

func NewInvalidAmountError(format string, args ...any) *DomainError {
	return &DomainError{
		Kind:    KindInvalidAmount,
		Message: fmt.Sprintf("invalid amount: "+format, args...),
	}
}

func NewInvalidRateError(rate string) *DomainError {
	return &DomainError{
		Kind:    KindInvalidRate,
		Message: fmt.Sprintf("invalid tax rate %s: must not be negative", rate),
	}
}

func NewInvalidTransitionError(from, to string) *DomainError {
	return &DomainError{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewEmptyOrderError() *DomainError {
	return &DomainError{
		Kind:    KindEmptyOrder,
		Message: "order must contain at least one item",
	}
}

func NewDuplicatePaymentError(orderID string) *DomainError {
	return &DomainError{
		Kind:    KindDuplicatePayment,
		Message: fmt.Sprintf("payment already exists for order %s", orderID),
	}
}

func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

func NewInvalidStateError(current, expected string) *DomainError {
	return &DomainError{
		Kind:    KindInvalidState,
		Message: fmt.Sprintf("invalid state: payment is %s, expected %s", current, expected),
	}
}

func NewVerificationFailedError(reason string) *DomainError {
	return &DomainError{
		Kind:    KindVerificationFailed,
		Message: fmt.Sprintf("payment verification failed: %s", reason),
	}
}

func NewProviderError(operation string, err error) *DomainError {
	return &DomainError{
		Kind:    KindProviderError,
		Message: fmt.Sprintf("payment provider %s failed", operation),
		Err:     err,
	}
}

func NewProviderTimeoutError(operation string, err error) *DomainError {
	return &DomainError{
		Kind:    KindProviderTimeout,
		Message: fmt.Sprintf("payment provider %s timed out", operation),
		Err:     err,
	}
}

// IsKind checks if an error is a DomainError of a specific kind
func IsKind(err error, kind Kind) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost DomainError in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}
