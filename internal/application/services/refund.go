package services

import (
	"context"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
)

// RefundPayment refunds a completed payment through its provider.
// A provider failure leaves the payment untouched.
func (s *PaymentService) RefundPayment(ctx context.Context, cmd RefundPaymentCommand) (*domain.Payment, error) {
	payment, err := s.GetPayment(ctx, cmd.PaymentID)
	if err != nil {
		return nil, err
	}
	return s.refund(ctx, payment, cmd)
}

// RefundForOrder refunds the full amount of the order's payment.
func (s *PaymentService) RefundForOrder(ctx context.Context, orderID, reason string) (*domain.Payment, error) {
	payment, err := s.GetPaymentByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.refund(ctx, payment, RefundPaymentCommand{PaymentID: payment.ID, Reason: reason})
}

func (s *PaymentService) refund(ctx context.Context, payment *domain.Payment, cmd RefundPaymentCommand) (*domain.Payment, error) {
	if payment.Status != domain.PaymentCompleted {
		return nil, domain.NewInvalidStateError(string(payment.Status), string(domain.PaymentCompleted))
	}

	amount := cmd.Amount
	if amount.IsZero() {
		amount = payment.Amount
	}
	if amount.IsNegative() || amount.GreaterThan(payment.Amount) {
		return nil, domain.NewInvalidAmountError("refund amount %s must be between 0 and %s",
			amount.StringFixed(2), payment.Amount.StringFixed(2))
	}
	reason := cmd.Reason
	if reason == "" {
		reason = defaultRefundReason
	}

	gw, err := s.gateways.For(payment.Provider)
	if err != nil {
		return nil, err
	}

	claimed, err := s.claimRefund(ctx, payment, domain.Refund{Amount: amount, Reason: reason})
	if err != nil {
		return nil, err
	}

	result, err := gw.Refund(ctx, application.RefundRequest{
		ProviderPaymentID: claimed.ProviderRef.PaymentID,
		Amount:            amount,
		Reason:            reason,
	})
	if err != nil {
		s.logger.Error("provider refund failed", "payment_id", claimed.ID, "order_id", claimed.OrderID, "error", err)
		s.releaseRefund(ctx, claimed)
		return nil, err
	}

	refundedAt := s.now()
	refund := domain.Refund{
		RefundID:   result.RefundID,
		Amount:     amount,
		Reason:     reason,
		RefundedAt: &refundedAt,
		Status:     domain.RefundProcessed,
	}
	next, applied, err := s.casPayment(ctx, claimed, func(n *domain.Payment) error {
		return n.MarkRefunded(refund)
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		s.logger.Error("refund processed by provider but not recorded",
			"payment_id", claimed.ID,
			"refund_id", refund.RefundID,
			"status", next.Status,
		)
		return nil, domain.NewInvalidStateError(string(next.Status), string(domain.PaymentCompleted))
	}

	s.logger.Info("payment refunded",
		"payment_id", next.ID,
		"order_id", next.OrderID,
		"refund_id", refund.RefundID,
		"amount", amount.StringFixed(2),
	)
	if s.orders != nil {
		if err := s.orders.MarkRefunded(ctx, next.OrderID); err != nil {
			s.logger.Warn("failed to mark order refunded", "order_id", next.OrderID, "error", err)
		}
	}
	return next, nil
}

// claimRefund marks a refund pending on the stored payment so that only one caller
// reaches the provider. Losing the claim is an InvalidState error.
func (s *PaymentService) claimRefund(ctx context.Context, payment *domain.Payment, refund domain.Refund) (*domain.Payment, error) {
	next := payment.Clone()
	if err := next.BeginRefund(refund); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now()

	claimed, err := s.paymentRepo.ClaimRefund(ctx, next)
	if err != nil {
		return nil, storeError(err)
	}
	if claimed {
		return next, nil
	}

	latest, err := s.paymentRepo.FindByID(ctx, payment.ID)
	if err != nil {
		return nil, storeError(err)
	}
	s.logger.Warn("refund already in progress", "payment_id", latest.ID, "status", latest.Status)
	if err := latest.Clone().BeginRefund(refund); err != nil {
		return nil, err
	}
	return nil, domain.NewInvalidStateError(string(latest.Status), "no refund in progress")
}

// releaseRefund records a rejected refund so that it can be retried.
func (s *PaymentService) releaseRefund(ctx context.Context, claimed *domain.Payment) {
	if _, applied, err := s.casPayment(ctx, claimed, (*domain.Payment).FailRefund); err != nil || !applied {
		s.logger.Error("failed to release refund claim", "payment_id", claimed.ID, "error", err)
	}
}

// CancelForOrder cancels the order's payment while it is still pending or processing.
func (s *PaymentService) CancelForOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	payment, err := s.GetPaymentByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for range maxTransitionAttempts {
		if payment.Status == domain.PaymentCancelled || payment.Status == domain.PaymentFailed {
			return payment, nil
		}
		if !payment.IsSettleable() {
			return nil, domain.NewInvalidStateError(string(payment.Status), "pending or processing")
		}
		next, applied, err := s.casPayment(ctx, payment, (*domain.Payment).Cancel)
		if err != nil {
			return nil, err
		}
		if applied {
			s.logger.Info("payment cancelled", "payment_id", next.ID, "order_id", next.OrderID)
			return next, nil
		}
		payment = next
	}
	return nil, application.NewInternalError(errTooManyConflicts)
}
