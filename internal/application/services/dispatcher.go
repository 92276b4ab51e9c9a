package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
)

// Dispatcher applies asynchronous provider events to payments. Every transition it
// makes is idempotent, so a redelivered event is harmless even without the event log.
type Dispatcher struct {
	payments *PaymentService
	events   application.EventLog
	logger   *slog.Logger
}

func NewDispatcher(payments *PaymentService, events application.EventLog, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		payments: payments,
		events:   events,
		logger:   logger,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, eventID string, event Event) error {
	logger := d.logger.With("event_id", eventID, "event", event.Event)

	if eventID != "" && d.events != nil {
		seen, err := d.events.Seen(ctx, eventID)
		if err != nil {
			logger.Warn("event log lookup failed", "error", err)
		} else if seen {
			logger.Debug("skipping already processed event")
			return nil
		}
	}

	if err := d.apply(ctx, logger, event); err != nil {
		return err
	}

	if eventID != "" && d.events != nil {
		if err := d.events.Remember(ctx, eventID); err != nil {
			logger.Warn("failed to record processed event", "error", err)
		}
	}
	return nil
}

func (d *Dispatcher) apply(ctx context.Context, logger *slog.Logger, event Event) error {
	switch event.Event {
	case EventPaymentCaptured, EventPaymentFailed, EventPaymentAuthorized:
		if event.Payload.Payment == nil {
			return application.NewInvalidInputError(fmt.Errorf("%s event carries no payment entity", event.Event))
		}
	case EventOrderPaid:
		if event.providerOrderID() == "" {
			return application.NewInvalidInputError(errors.New("order.paid event carries no order id"))
		}
	default:
		logger.Info("ignoring unhandled event type")
		return nil
	}

	providerOrderID := event.providerOrderID()
	if providerOrderID == "" {
		return application.NewInvalidInputError(fmt.Errorf("%s event carries no provider order id", event.Event))
	}

	payment, err := d.payments.paymentRepo.FindByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("event for unknown provider order", "provider_order_id", providerOrderID)
			return nil
		}
		return storeError(err)
	}
	logger = logger.With("payment_id", payment.ID, "order_id", payment.OrderID)

	switch event.Event {
	case EventPaymentCaptured, EventOrderPaid:
		_, err = d.payments.complete(ctx, payment, event.reference())
	case EventPaymentFailed:
		_, err = d.payments.fail(ctx, payment)
	case EventPaymentAuthorized:
		_, err = d.payments.markProcessing(ctx, payment, event.reference())
	}

	if domain.IsKind(err, domain.KindInvalidState) {
		logger.Warn("dropping event that conflicts with payment state", "error", err)
		return nil
	}
	return err
}

// Sync pulls the provider's view of a payment and applies the matching transition.
func (d *Dispatcher) Sync(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := d.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.ProviderRef.PaymentID == "" {
		return nil, domain.NewInvalidStateError(string(payment.Status), "a payment known to the provider")
	}

	gw, err := d.payments.gateways.For(payment.Provider)
	if err != nil {
		return nil, err
	}
	status, err := gw.FetchStatus(ctx, payment.ProviderRef.PaymentID)
	if err != nil {
		return nil, err
	}

	d.logger.Info("synced payment with provider", "payment_id", payment.ID, "provider_status", status)

	ref := domain.ProviderReference{PaymentID: payment.ProviderRef.PaymentID}
	switch status {
	case application.ProviderStatusCaptured:
		return d.payments.complete(ctx, payment, ref)
	case application.ProviderStatusFailed:
		return d.payments.fail(ctx, payment)
	case application.ProviderStatusAuthorized:
		return d.payments.markProcessing(ctx, payment, ref)
	default:
		return payment, nil
	}
}
