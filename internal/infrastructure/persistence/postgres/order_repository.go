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

const orderColumns = `
	order_id, user_id, items, subtotal::text, tax_amount::text, total_amount::text, currency,
	status, payment_status, payment_method, shipping_address, billing_address, tax_details,
	version, created_at, updated_at`

var _ application.OrderRepository = (*OrderRepository)(nil)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			order_id, user_id, items, subtotal, tax_amount, total_amount, currency,
			status, payment_status, payment_method, shipping_address, billing_address, tax_details,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	m, err := toOrderModel(order)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query,
		m.OrderID,
		m.UserID,
		m.Items,
		m.Subtotal,
		m.TaxAmount,
		m.TotalAmount,
		m.Currency,
		m.Status,
		m.PaymentStatus,
		m.PaymentMethod,
		m.ShippingAddress,
		m.BillingAddress,
		m.TaxDetails,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("order", orderID)
	}
	return order, err
}

// FindByUserID returns one page of a user's orders, newest first, and the user's total order count.
func (r *OrderRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders by user_id: %w", err)
	}

	query := `SELECT ` + orderColumns + `
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders by user_id: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Order, error) {
		return scanOrder(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("error occurred while scanning rows: %w", err)
	}
	return results, total, nil
}

// Update writes the mutable status fields guarded by the version the caller read.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = $3, version = version + 1
		WHERE order_id = $4 AND version = $5
	`

	tag, err := r.db.Exec(ctx, query,
		string(order.Status),
		string(order.PaymentStatus),
		order.UpdatedAt,
		order.OrderID,
		order.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)`, order.OrderID).Scan(&exists); err != nil {
			return fmt.Errorf("check order exists: %w", err)
		}
		if !exists {
			return domain.NewNotFoundError("order", order.OrderID)
		}
		return domain.ErrStaleRecord
	}

	order.Version++
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var m OrderModel
	err := row.Scan(
		&m.OrderID, &m.UserID, &m.Items, &m.Subtotal, &m.TaxAmount, &m.TotalAmount, &m.Currency,
		&m.Status, &m.PaymentStatus, &m.PaymentMethod, &m.ShippingAddress, &m.BillingAddress, &m.TaxDetails,
		&m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return toOrder(m)
}
