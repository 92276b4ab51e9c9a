package services

import (
	"context"
	"errors"

	"github.com/DanielPopoola/gst-checkout/internal/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, storeError(err)
	}
	return payment, nil
}

func (s *PaymentService) GetPaymentByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, storeError(err)
	}
	return payment, nil
}

type MethodInfo struct {
	Method      domain.PaymentMethod `json:"method"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Provider    domain.Provider      `json:"provider"`
	Options     []string             `json:"options,omitempty"`
}

var methodCatalogue = []MethodInfo{
	{
		Method:      domain.MethodUPI,
		Name:        "UPI",
		Description: "Pay using any UPI app",
		Options:     []string{"phonepe", "googlepay", "paytm", "bhim"},
	},
	{
		Method:      domain.MethodCard,
		Name:        "Credit/Debit Card",
		Description: "Visa, Mastercard, RuPay and Amex cards",
		Options:     []string{"visa", "mastercard", "rupay", "amex"},
	},
	{
		Method:      domain.MethodNetBanking,
		Name:        "Net Banking",
		Description: "Pay directly from your bank account",
		Options:     []string{"SBI", "HDFC", "ICICI", "AXIS", "KOTAK"},
	},
	{
		Method:      domain.MethodWallet,
		Name:        "Wallets",
		Description: "Paytm, PhonePe, Amazon Pay and more",
		Options:     []string{"paytm", "phonepe", "amazonpay", "mobikwik"},
	},
	{
		Method:      domain.MethodCashOnDelivery,
		Name:        "Cash on Delivery",
		Description: "Pay when your order is delivered",
	},
}

// SupportedMethods lists the methods that have a configured gateway.
func (s *PaymentService) SupportedMethods() []MethodInfo {
	methods := make([]MethodInfo, 0, len(methodCatalogue))
	for _, m := range methodCatalogue {
		m.Provider = m.Method.Provider()
		if _, ok := s.gateways[m.Provider]; !ok {
			continue
		}
		methods = append(methods, m)
	}
	return methods
}

// OrderView is an order together with its payment, if one was created.
type OrderView struct {
	Order   *domain.Order
	Payment *domain.Payment
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*OrderView, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, storeError(err)
	}
	view := &OrderView{Order: order}
	if s.payments == nil {
		return view, nil
	}

	payment, err := s.payments.GetPaymentByOrder(ctx, orderID)
	switch {
	case err == nil:
		view.Payment = payment
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}
	return view, nil
}

type OrderPage struct {
	Orders     []*domain.Order
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID string, page, limit int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)

	orders, total, err := s.orderRepo.FindByUserID(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, storeError(err)
	}
	return &OrderPage{
		Orders:     orders,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}
