// Package memory provides in-process order and payment stores with the same
// conditional-write semantics as the postgres stores.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
)

var (
	_ application.OrderRepository   = (*OrderRepository)(nil)
	_ application.PaymentRepository = (*PaymentRepository)(nil)
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*domain.Order)}
}

func (r *OrderRepository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.OrderID]; exists {
		return fmt.Errorf("order %s already exists", order.OrderID)
	}
	r.orders[order.OrderID] = order.Clone()
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.NewNotFoundError("order", orderID)
	}
	return order.Clone(), nil
}

func (r *OrderRepository) FindByUserID(_ context.Context, userID string, limit, offset int) ([]*domain.Order, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			matched = append(matched, order)
		}
	}
	slices.SortFunc(matched, func(a, b *domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return []*domain.Order{}, total, nil
	}
	end := min(offset+limit, total)

	page := make([]*domain.Order, 0, end-offset)
	for _, order := range matched[offset:end] {
		page = append(page, order.Clone())
	}
	return page, total, nil
}

func (r *OrderRepository) Update(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.OrderID]
	if !ok {
		return domain.NewNotFoundError("order", order.OrderID)
	}
	if stored.Version != order.Version {
		return domain.ErrStaleRecord
	}

	order.Version++
	r.orders[order.OrderID] = order.Clone()
	return nil
}

type PaymentRepository struct {
	mu              sync.RWMutex
	payments        map[string]*domain.Payment
	byOrderID       map[string]string
	byProviderOrder map[string]string
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments:        make(map[string]*domain.Payment),
		byOrderID:       make(map[string]string),
		byProviderOrder: make(map[string]string),
	}
}

func (r *PaymentRepository) Create(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byOrderID[payment.OrderID]; exists {
		return domain.NewDuplicatePaymentError(payment.OrderID)
	}
	r.payments[payment.ID] = payment.Clone()
	r.byOrderID[payment.OrderID] = payment.ID
	if payment.ProviderRef.OrderID != "" {
		r.byProviderOrder[payment.ProviderRef.OrderID] = payment.ID
	}
	return nil
}

func (r *PaymentRepository) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id, id)
}

func (r *PaymentRepository) FindByOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byOrderID[orderID], orderID)
}

func (r *PaymentRepository) FindByProviderOrderID(_ context.Context, providerOrderID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byProviderOrder[providerOrderID], providerOrderID)
}

// lookup must be called with the lock held.
func (r *PaymentRepository) lookup(id, key string) (*domain.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, domain.NewNotFoundError("payment", key)
	}
	return payment.Clone(), nil
}

func (r *PaymentRepository) Transition(_ context.Context, next *domain.Payment, from ...domain.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.payments[next.ID]
	if !ok {
		return false, nil
	}
	if !slices.Contains(from, stored.Status) {
		return false, nil
	}
	r.payments[next.ID] = next.Clone()
	if next.ProviderRef.OrderID != "" {
		r.byProviderOrder[next.ProviderRef.OrderID] = next.ID
	}
	return true, nil
}

func (r *PaymentRepository) ClaimRefund(_ context.Context, next *domain.Payment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.payments[next.ID]
	if !ok || !stored.RefundClaimable() {
		return false, nil
	}
	r.payments[next.ID] = next.Clone()
	return true, nil
}
