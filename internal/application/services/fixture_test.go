package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/application/services"
	"github.com/DanielPopoola/gst-checkout/internal/application/services/testhelpers"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/gst"
	"github.com/DanielPopoola/gst-checkout/internal/infrastructure/gateway"
	"github.com/DanielPopoola/gst-checkout/internal/infrastructure/gateway/mocks"
	"github.com/DanielPopoola/gst-checkout/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const providerOrderID = "order_Nx1TgT0kq2Ylx9"

// serviceSuite wires both ledgers and the dispatcher over the in-memory store.
type serviceSuite struct {
	suite.Suite
	ctx         context.Context
	orderRepo   *memory.OrderRepository
	paymentRepo *memory.PaymentRepository
	razorpay    *mocks.MockProviderGateway
	events      *fakeEventLog
	orders      *services.OrderService
	payments    *services.PaymentService
	dispatcher  *services.Dispatcher
}

func (s *serviceSuite) SetupTest() {
	s.ctx = context.Background()
	s.orderRepo = memory.NewOrderRepository()
	s.paymentRepo = memory.NewPaymentRepository()
	s.razorpay = mocks.NewMockProviderGateway(s.T())
	s.events = newFakeEventLog()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := gst.NewEngine(gst.DefaultRate, false)
	gateways := application.Gateways{
		domain.ProviderRazorpay: s.razorpay,
		domain.ProviderCOD:      gateway.NewCashOnDelivery(),
	}

	s.orders = services.NewOrderService(s.orderRepo, engine, logger)
	s.payments = services.NewPaymentService(s.paymentRepo, gateways, engine, s.orders, logger)
	s.orders.UsePayments(s.payments)
	s.dispatcher = services.NewDispatcher(s.payments, s.events, logger)
}

func (s *serviceSuite) createOrder() *domain.Order {
	order, err := s.orders.CreateOrder(s.ctx, services.CreateOrderCommand{
		UserID: "user-1",
		Items: []services.OrderItemInput{
			{ProductID: "SKU-1", Name: "Cotton kurta", Quantity: 2, UnitPrice: decimal.RequireFromString("590.00")},
		},
		ShippingAddress: testhelpers.ShippingAddress,
		BillingAddress:  testhelpers.BillingAddress,
		PaymentMethod:   domain.MethodUPI,
	})
	s.Require().NoError(err)
	return order
}

// createPayment creates an order and a pending payment for it.
func (s *serviceSuite) createPayment(method domain.PaymentMethod) *domain.Payment {
	order := s.createOrder()

	if method.Provider() == domain.ProviderRazorpay {
		s.razorpay.EXPECT().
			CreateIntent(mock.Anything, mock.MatchedBy(func(req application.IntentRequest) bool {
				return req.Receipt == order.OrderID && req.Amount.Equal(order.Pricing.TotalAmount)
			})).
			Return(&application.Intent{ProviderOrderID: providerOrderID, AmountMinor: 118000, Currency: "INR"}, nil).
			Once()
	}

	created, err := s.payments.CreatePayment(s.ctx, services.CreatePaymentCommand{
		OrderID:         order.OrderID,
		UserID:          order.UserID,
		Amount:          order.Pricing.TotalAmount,
		Method:          method,
		BillingAddress:  testhelpers.BillingAddress,
		DeliveryAddress: testhelpers.ShippingAddress,
	})
	s.Require().NoError(err)
	return created.Payment
}

func (s *serviceSuite) confirm(payment *domain.Payment) *domain.Payment {
	s.razorpay.EXPECT().
		VerifySignature(mock.Anything, providerOrderID, "pay_29QQoUBi66xm2f", "sig").
		Return(true, nil).
		Once()

	confirmed, err := s.payments.ConfirmPayment(s.ctx, services.ConfirmPaymentCommand{
		PaymentID:         payment.ID,
		ProviderOrderID:   providerOrderID,
		ProviderPaymentID: "pay_29QQoUBi66xm2f",
		Signature:         "sig",
	})
	s.Require().NoError(err)
	return confirmed
}

func (s *serviceSuite) storedOrder(orderID string) *domain.Order {
	order, err := s.orderRepo.FindByID(s.ctx, orderID)
	s.Require().NoError(err)
	return order
}

func (s *serviceSuite) storedPayment(paymentID string) *domain.Payment {
	payment, err := s.paymentRepo.FindByID(s.ctx, paymentID)
	s.Require().NoError(err)
	return payment
}

type fakeEventLog struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeEventLog() *fakeEventLog {
	return &fakeEventLog{seen: make(map[string]bool)}
}

func (f *fakeEventLog) Seen(_ context.Context, eventID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[eventID], nil
}

func (f *fakeEventLog) Remember(_ context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[eventID] = true
	return nil
}
