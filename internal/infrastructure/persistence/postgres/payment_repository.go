package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `
	id, order_id, user_id, amount::text, currency, method, provider, status,
	provider_order_id, provider_payment_id, provider_reference, tax_details, customer,
	billing_address, delivery_address, refund, created_at, updated_at, completed_at`

var _ application.PaymentRepository = (*PaymentRepository)(nil)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts the payment. The unique order_id constraint decides concurrent creations.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, order_id, user_id, amount, currency, method, provider, status,
			provider_order_id, provider_payment_id, provider_reference, tax_details, customer,
			billing_address, delivery_address, refund, created_at, updated_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	p, err := toPaymentModel(payment)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query,
		p.ID,
		p.OrderID,
		p.UserID,
		p.Amount,
		p.Currency,
		p.Method,
		p.Provider,
		p.Status,
		p.ProviderOrderID,
		p.ProviderPaymentID,
		p.ProviderReference,
		p.TaxDetails,
		p.Customer,
		p.BillingAddress,
		p.DeliveryAddress,
		p.Refund,
		p.CreatedAt,
		p.UpdatedAt,
		p.CompletedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewDuplicatePaymentError(payment.OrderID)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// FindByID retrieves a payment
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindByOrderID retrieves a payment by order
func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`
	return r.findOne(ctx, query, orderID)
}

// FindByProviderOrderID retrieves a payment by the provider's order id
func (r *PaymentRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider_order_id = $1`
	return r.findOne(ctx, query, providerOrderID)
}

func (r *PaymentRepository) findOne(ctx context.Context, query, key string) (*domain.Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx, query, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("payment", key)
	}
	if err != nil {
		return nil, fmt.Errorf("query payment: %w", err)
	}
	return payment, nil
}

// Transition is a compare-and-set on status: the row is only written while its status is one of from.
func (r *PaymentRepository) Transition(ctx context.Context, next *domain.Payment, from ...domain.PaymentStatus) (bool, error) {
	query := `
		UPDATE payments
		SET status = $1, provider_payment_id = $2, provider_reference = $3, refund = $4,
		    updated_at = $5, completed_at = $6
		WHERE id = $7 AND status = ANY($8)
	`

	p, err := toPaymentModel(next)
	if err != nil {
		return false, err
	}

	expected := make([]string, 0, len(from))
	for _, s := range from {
		expected = append(expected, string(s))
	}

	tag, err := r.db.Exec(ctx, query,
		p.Status,
		p.ProviderPaymentID,
		p.ProviderReference,
		p.Refund,
		p.UpdatedAt,
		p.CompletedAt,
		p.ID,
		expected,
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition payment: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClaimRefund records a pending refund while the payment is completed and has no refund
// other than a failed one.
func (r *PaymentRepository) ClaimRefund(ctx context.Context, next *domain.Payment) (bool, error) {
	query := `
		UPDATE payments
		SET refund = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		  AND (refund IS NULL OR refund->>'status' = $5)
	`

	p, err := toPaymentModel(next)
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, query,
		p.Refund,
		p.UpdatedAt,
		p.ID,
		string(domain.PaymentCompleted),
		string(domain.RefundFailed),
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim refund: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var m PaymentModel
	err := row.Scan(
		&m.ID, &m.OrderID, &m.UserID, &m.Amount, &m.Currency, &m.Method, &m.Provider, &m.Status,
		&m.ProviderOrderID, &m.ProviderPaymentID, &m.ProviderReference, &m.TaxDetails, &m.Customer,
		&m.BillingAddress, &m.DeliveryAddress, &m.Refund, &m.CreatedAt, &m.UpdatedAt, &m.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return toPayment(m)
}
