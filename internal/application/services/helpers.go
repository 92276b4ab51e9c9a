package services

import (
	"errors"
	"fmt"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/google/uuid"
)

// maxTransitionAttempts bounds how often a lost conditional write is re-read and re-evaluated.
const maxTransitionAttempts = 3

const defaultRefundReason = "requested_by_customer"

var errTooManyConflicts = errors.New("record kept changing under concurrent updates")

func newOrderID() string {
	return "ORD_" + uuid.NewString()
}

// storeError passes domain errors through and wraps everything else as an internal error.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if domain.KindOf(err) != "" {
		return err
	}
	return application.NewInternalError(err)
}

func unknownStatusError(status domain.OrderStatus) error {
	return application.NewInvalidInputError(fmt.Errorf("unknown order status %q", status))
}
