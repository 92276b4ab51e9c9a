package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/gst"
	"github.com/google/uuid"
)

// OrderUpdater is the part of the order ledger payments settle into.
type OrderUpdater interface {
	MarkPaid(ctx context.Context, orderID string) error
	MarkPaymentFailed(ctx context.Context, orderID string) error
	MarkRefunded(ctx context.Context, orderID string) error
}

type PaymentService struct {
	paymentRepo application.PaymentRepository
	gateways    application.Gateways
	engine      *gst.Engine
	orders      OrderUpdater
	logger      *slog.Logger
	now         func() time.Time
}

func NewPaymentService(
	paymentRepo application.PaymentRepository,
	gateways application.Gateways,
	engine *gst.Engine,
	orders OrderUpdater,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		gateways:    gateways,
		engine:      engine,
		orders:      orders,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type CreatedPayment struct {
	Payment *domain.Payment
	Intent  *application.Intent
}

func (s *PaymentService) CreatePayment(ctx context.Context, cmd CreatePaymentCommand) (*CreatedPayment, error) {
	if !cmd.Amount.IsPositive() {
		return nil, domain.NewInvalidAmountError("payment amount %s must be greater than zero", cmd.Amount.String())
	}
	if !cmd.Method.Valid() {
		return nil, application.NewInvalidInputError(errors.New("unsupported payment method " + string(cmd.Method)))
	}
	if cmd.RegistrationNumber != "" && !gst.ValidateRegistration(cmd.RegistrationNumber) {
		return nil, application.NewInvalidInputError(errors.New("invalid GST registration number " + cmd.RegistrationNumber))
	}

	existing, err := s.paymentRepo.FindByOrderID(ctx, cmd.OrderID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, storeError(err)
	}
	if existing != nil {
		return nil, domain.NewDuplicatePaymentError(cmd.OrderID)
	}

	payment, err := domain.NewPayment("PAY_"+uuid.NewString(), cmd.OrderID, cmd.UserID, cmd.Amount, cmd.Method, s.now())
	if err != nil {
		return nil, err
	}

	interState := s.engine.IsInterState(cmd.BillingAddress, cmd.DeliveryAddress)
	breakdown, err := s.engine.Compute(cmd.Amount, s.engine.DefaultRate(), interState)
	if err != nil {
		return nil, err
	}
	payment.TaxDetails = breakdown.TaxDetails(s.engine.DefaultRate(), cmd.RegistrationNumber)
	payment.Customer = cmd.Customer
	payment.BillingAddress = cmd.BillingAddress.WithDefaults()
	payment.DeliveryAddress = cmd.DeliveryAddress.WithDefaults()

	gw, err := s.gateways.For(payment.Provider)
	if err != nil {
		return nil, err
	}
	intent, err := gw.CreateIntent(ctx, application.IntentRequest{
		Amount:   payment.Amount,
		Currency: payment.Currency,
		Receipt:  payment.OrderID,
		Method:   payment.Method,
		Metadata: cmd.Metadata,
	})
	if err != nil {
		s.logger.Error("payment intent creation failed",
			"order_id", cmd.OrderID,
			"method", cmd.Method,
			"error", err,
		)
		return nil, err
	}
	payment.ProviderRef.OrderID = intent.ProviderOrderID

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("payment created",
		"payment_id", payment.ID,
		"order_id", payment.OrderID,
		"method", payment.Method,
		"amount", payment.Amount.StringFixed(2),
		"inter_state", interState,
	)
	return &CreatedPayment{Payment: payment, Intent: intent}, nil
}

// ConfirmPayment verifies the client's proof of payment and settles it.
// Confirming an already completed payment returns it unchanged.
func (s *PaymentService) ConfirmPayment(ctx context.Context, cmd ConfirmPaymentCommand) (*domain.Payment, error) {
	payment, err := s.GetPayment(ctx, cmd.PaymentID)
	if err != nil {
		return nil, err
	}
	if cmd.Method != "" && cmd.Method != payment.Method {
		return nil, domain.NewInvalidStateError(string(payment.Method), string(cmd.Method))
	}
	if payment.Status == domain.PaymentCompleted {
		return payment, s.settleOrder(ctx, payment)
	}
	if !payment.IsSettleable() {
		return nil, domain.NewInvalidStateError(string(payment.Status), "pending or processing")
	}

	gw, err := s.gateways.For(payment.Provider)
	if err != nil {
		return nil, err
	}

	providerOrderID := payment.ProviderRef.OrderID
	valid := cmd.ProviderOrderID == "" || cmd.ProviderOrderID == providerOrderID
	if valid {
		valid, err = gw.VerifySignature(ctx, providerOrderID, cmd.ProviderPaymentID, cmd.Signature)
		if err != nil {
			return nil, err
		}
	}
	if !valid {
		s.logger.Warn("payment verification failed", "payment_id", payment.ID, "order_id", payment.OrderID)
		if _, err := s.fail(ctx, payment); err != nil && !domain.IsKind(err, domain.KindInvalidState) {
			return nil, err
		}
		return nil, domain.NewVerificationFailedError("signature does not match provider order " + providerOrderID)
	}

	ref := domain.ProviderReference{
		PaymentID: cmd.ProviderPaymentID,
		Signature: cmd.Signature,
	}
	if payment.Method == domain.MethodUPI {
		ref.UPITransactionID = cmd.ProviderPaymentID
	}

	completed, err := s.complete(ctx, payment, ref)
	if err != nil {
		if completed != nil && !domain.IsKind(err, domain.KindInvalidState) {
			return completed, err
		}
		return nil, err
	}
	return completed, nil
}

// casPayment applies mutate to a copy and writes it only if the stored status is
// still current.Status. When another writer won, it returns the latest record.
func (s *PaymentService) casPayment(ctx context.Context, current *domain.Payment, mutate func(*domain.Payment) error) (*domain.Payment, bool, error) {
	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, false, err
	}
	next.UpdatedAt = s.now()

	applied, err := s.paymentRepo.Transition(ctx, next, current.Status)
	if err != nil {
		return nil, false, storeError(err)
	}
	if applied {
		return next, true, nil
	}

	latest, err := s.paymentRepo.FindByID(ctx, current.ID)
	if err != nil {
		return nil, false, storeError(err)
	}
	return latest, false, nil
}

// complete settles p, or returns it unchanged when it is already completed.
func (s *PaymentService) complete(ctx context.Context, p *domain.Payment, ref domain.ProviderReference) (*domain.Payment, error) {
	for range maxTransitionAttempts {
		if p.Status == domain.PaymentCompleted {
			return p, s.settleOrder(ctx, p)
		}
		if !p.IsSettleable() {
			return p, domain.NewInvalidStateError(string(p.Status), "pending or processing")
		}

		next, applied, err := s.casPayment(ctx, p, func(n *domain.Payment) error {
			return n.Complete(ref, s.now())
		})
		if err != nil {
			return nil, err
		}
		if applied {
			s.logger.Info("payment completed",
				"payment_id", next.ID,
				"order_id", next.OrderID,
				"method", next.Method,
			)
			return next, s.settleOrder(ctx, next)
		}
		p = next
	}
	return nil, application.NewInternalError(errTooManyConflicts)
}

// fail marks p failed, or returns it unchanged when it already is.
func (s *PaymentService) fail(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	for range maxTransitionAttempts {
		if p.Status == domain.PaymentFailed {
			return p, nil
		}
		if !p.IsSettleable() {
			return p, domain.NewInvalidStateError(string(p.Status), "pending or processing")
		}

		next, applied, err := s.casPayment(ctx, p, (*domain.Payment).Fail)
		if err != nil {
			return nil, err
		}
		if applied {
			s.logger.Warn("payment failed", "payment_id", next.ID, "order_id", next.OrderID)
			if s.orders != nil {
				if err := s.orders.MarkPaymentFailed(ctx, next.OrderID); err != nil {
					s.logger.Warn("failed to mark order payment failed", "order_id", next.OrderID, "error", err)
				}
			}
			return next, nil
		}
		p = next
	}
	return nil, application.NewInternalError(errTooManyConflicts)
}

// markProcessing records a provider authorization. Payments past pending are left alone.
func (s *PaymentService) markProcessing(ctx context.Context, p *domain.Payment, ref domain.ProviderReference) (*domain.Payment, error) {
	for range maxTransitionAttempts {
		if p.Status != domain.PaymentPending {
			return p, nil
		}
		next, applied, err := s.casPayment(ctx, p, func(n *domain.Payment) error {
			return n.MarkProcessing(ref)
		})
		if err != nil {
			return nil, err
		}
		if applied {
			s.logger.Info("payment authorized", "payment_id", next.ID, "order_id", next.OrderID)
			return next, nil
		}
		p = next
	}
	return nil, application.NewInternalError(errTooManyConflicts)
}

// settleOrder propagates a completed payment to its order.
// A payment whose order does not exist is logged and left settled.
func (s *PaymentService) settleOrder(ctx context.Context, p *domain.Payment) error {
	if s.orders == nil {
		return nil
	}
	err := s.orders.MarkPaid(ctx, p.OrderID)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("payment settled for unknown order", "payment_id", p.ID, "order_id", p.OrderID)
		return nil
	}
	s.logger.Error("failed to mark order paid", "payment_id", p.ID, "order_id", p.OrderID, "error", err)
	return err
}
