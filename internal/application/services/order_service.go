package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/gst"
	"github.com/shopspring/decimal"
)

// OrderPayments is the part of the payment ledger the order ledger drives on cancellation.
type OrderPayments interface {
	GetPaymentByOrder(ctx context.Context, orderID string) (*domain.Payment, error)
	RefundForOrder(ctx context.Context, orderID, reason string) (*domain.Payment, error)
	CancelForOrder(ctx context.Context, orderID string) (*domain.Payment, error)
}

type OrderService struct {
	orderRepo application.OrderRepository
	engine    *gst.Engine
	payments  OrderPayments
	logger    *slog.Logger
	now       func() time.Time
}

func NewOrderService(
	orderRepo application.OrderRepository,
	engine *gst.Engine,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		engine:    engine,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// UsePayments links the payment ledger. The two ledgers reference each other,
// so this is set after both are constructed.
func (s *OrderService) UsePayments(payments OrderPayments) {
	s.payments = payments
}

// CreateOrder prices every line through the tax engine and stores the frozen snapshot.
func (s *OrderService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, domain.NewEmptyOrderError()
	}
	if cmd.UserID == "" {
		return nil, application.NewInvalidInputError(errors.New("userId is required"))
	}
	if cmd.PaymentMethod != "" && !cmd.PaymentMethod.Valid() {
		return nil, application.NewInvalidInputError(fmt.Errorf("unsupported payment method %q", cmd.PaymentMethod))
	}
	if cmd.RegistrationNumber != "" && !gst.ValidateRegistration(cmd.RegistrationNumber) {
		return nil, application.NewInvalidInputError(fmt.Errorf("invalid GST registration number %q", cmd.RegistrationNumber))
	}

	interState := s.engine.IsInterState(cmd.BillingAddress, cmd.ShippingAddress)
	items, total, rate, err := s.priceItems(cmd.Items, interState)
	if err != nil {
		return nil, err
	}

	pricing := domain.Pricing{
		Subtotal:    total.TaxableAmount,
		TaxAmount:   total.TaxAmount,
		TotalAmount: total.TotalAmount,
	}
	order, err := domain.NewOrder(
		newOrderID(),
		cmd.UserID,
		items,
		pricing,
		total.TaxDetails(rate, cmd.RegistrationNumber),
		cmd.ShippingAddress,
		cmd.BillingAddress,
		cmd.PaymentMethod,
		s.now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("order created",
		"order_id", order.OrderID,
		"user_id", order.UserID,
		"total", order.Pricing.TotalAmount.StringFixed(2),
		"inter_state", interState,
	)
	return order, nil
}

// priceItems computes line totals and the order's tax breakdown. When every line shares a
// rate the engine runs once on the order total; mixed-rate orders sum per-line breakdowns
// and report the effective rate.
func (s *OrderService) priceItems(inputs []OrderItemInput, interState bool) ([]domain.OrderItem, gst.Breakdown, decimal.Decimal, error) {
	items := make([]domain.OrderItem, 0, len(inputs))
	gross := decimal.Zero
	perLine := gst.Breakdown{}
	var rate *decimal.Decimal
	mixed := false

	for i, in := range inputs {
		if in.Quantity <= 0 {
			return nil, gst.Breakdown{}, decimal.Zero, domain.NewInvalidAmountError("item %d quantity must be greater than zero", i+1)
		}
		if in.UnitPrice.IsNegative() {
			return nil, gst.Breakdown{}, decimal.Zero, domain.NewInvalidAmountError("item %d unit price must not be negative", i+1)
		}
		lineRate := s.engine.RateOrDefault(in.TaxRatePercent)
		if lineRate.IsNegative() {
			return nil, gst.Breakdown{}, decimal.Zero, domain.NewInvalidRateError(lineRate.String())
		}
		if rate == nil {
			rate = &lineRate
		} else if !rate.Equal(lineRate) {
			mixed = true
		}

		lineTotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2)
		items = append(items, domain.OrderItem{
			ProductID:          in.ProductID,
			Name:               in.Name,
			Quantity:           in.Quantity,
			UnitPrice:          in.UnitPrice,
			LineTotal:          lineTotal,
			TaxRatePercent:     lineRate,
			ClassificationCode: in.ClassificationCode,
		})
		gross = gross.Add(lineTotal)
		if lineTotal.IsZero() {
			continue
		}

		b, err := s.engine.Compute(lineTotal, lineRate, interState)
		if err != nil {
			return nil, gst.Breakdown{}, decimal.Zero, err
		}
		perLine = perLine.Add(b)
	}

	if !gross.IsPositive() {
		return nil, gst.Breakdown{}, decimal.Zero, domain.NewInvalidAmountError("order total must be greater than zero")
	}
	if mixed {
		effective := perLine.TaxAmount.Div(perLine.TaxableAmount).Mul(decimal.NewFromInt(100)).Round(2)
		return items, perLine, effective, nil
	}

	total, err := s.engine.Compute(gross, *rate, interState)
	if err != nil {
		return nil, gst.Breakdown{}, decimal.Zero, err
	}
	return items, total, *rate, nil
}

// MarkPaid confirms the order after its payment settled. Repeated calls are no-ops.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) error {
	_, err := s.updateOrder(ctx, orderID, func(o *domain.Order) (bool, error) {
		return o.MarkPaid(), nil
	})
	if err == nil {
		s.logger.Debug("order marked paid", "order_id", orderID)
	}
	return err
}

func (s *OrderService) MarkPaymentFailed(ctx context.Context, orderID string) error {
	_, err := s.updateOrder(ctx, orderID, func(o *domain.Order) (bool, error) {
		return o.MarkPaymentFailed(), nil
	})
	return err
}

func (s *OrderService) MarkRefunded(ctx context.Context, orderID string) error {
	_, err := s.updateOrder(ctx, orderID, func(o *domain.Order) (bool, error) {
		return o.MarkRefunded(), nil
	})
	return err
}

// UpdateStatus applies the order transition table. Cancelling also refunds a paid
// payment or cancels an outstanding one; if that fails the cancellation still stands
// and the order is returned together with the error.
func (s *OrderService) UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	if !cmd.Status.Valid() {
		return nil, unknownStatusError(cmd.Status)
	}

	order, err := s.updateOrder(ctx, cmd.OrderID, func(o *domain.Order) (bool, error) {
		if err := o.TransitionTo(cmd.Status); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		"order_id", order.OrderID,
		"status", order.Status,
		"reason", cmd.Reason,
	)

	if cmd.Status != domain.OrderCancelled || s.payments == nil {
		return order, nil
	}

	if err := s.settleCancellation(ctx, order, cmd.Reason); err != nil {
		return order, err
	}
	if refreshed, err := s.orderRepo.FindByID(ctx, order.OrderID); err == nil {
		order = refreshed
	}
	return order, nil
}

// Cancel is UpdateStatus to cancelled.
func (s *OrderService) Cancel(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, UpdateOrderStatusCommand{
		OrderID: orderID,
		Status:  domain.OrderCancelled,
		Reason:  reason,
	})
}

func (s *OrderService) settleCancellation(ctx context.Context, order *domain.Order, reason string) error {
	if order.PaymentStatus == domain.OrderPaymentPaid {
		if _, err := s.payments.RefundForOrder(ctx, order.OrderID, reason); err != nil {
			s.logger.Error("refund for cancelled order failed", "order_id", order.OrderID, "error", err)
			return fmt.Errorf("order %s cancelled but refund failed: %w", order.OrderID, err)
		}
		return nil
	}

	if _, err := s.payments.CancelForOrder(ctx, order.OrderID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		s.logger.Warn("payment cancellation for cancelled order failed", "order_id", order.OrderID, "error", err)
		return fmt.Errorf("order %s cancelled but payment cancellation failed: %w", order.OrderID, err)
	}
	return nil
}

// updateOrder reads, mutates and conditionally writes the order, re-reading when a
// concurrent writer bumped the version first.
func (s *OrderService) updateOrder(ctx context.Context, orderID string, mutate func(*domain.Order) (bool, error)) (*domain.Order, error) {
	for attempt := 1; ; attempt++ {
		order, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, storeError(err)
		}

		changed, err := mutate(order)
		if err != nil {
			return nil, err
		}
		if !changed {
			return order, nil
		}

		order.UpdatedAt = s.now()
		err = s.orderRepo.Update(ctx, order)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, domain.ErrStaleRecord) {
			return nil, storeError(err)
		}
		if attempt >= maxTransitionAttempts {
			return nil, application.NewInternalError(errTooManyConflicts)
		}
		s.logger.Debug("order changed concurrently, retrying", "order_id", orderID, "attempt", attempt)
	}
}
