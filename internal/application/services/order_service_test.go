package services_test

import (
	"errors"
	"testing"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/application/services"
	"github.com/DanielPopoola/gst-checkout/internal/application/services/testhelpers"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/gst"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	serviceSuite
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) Test_CreateOrder_IntraState() {
	t := s.T()

	order := s.createOrder()

	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, domain.OrderPaymentPending, order.PaymentStatus)
	assert.Equal(t, "1000", order.Pricing.Subtotal.String())
	assert.Equal(t, "180", order.Pricing.TaxAmount.String())
	assert.Equal(t, "1180", order.Pricing.TotalAmount.String())
	assert.Equal(t, "90", order.TaxDetails.CGST.String())
	assert.Equal(t, "90", order.TaxDetails.SGST.String())
	assert.True(t, order.TaxDetails.IGST.IsZero())
	assert.Equal(t, "18", order.TaxDetails.RatePercent.String())
	assert.Equal(t, 1, order.Version)

	stored := s.storedOrder(order.OrderID)
	assert.Equal(t, order.Pricing.TotalAmount.String(), stored.Pricing.TotalAmount.String())
}

func (s *OrderServiceTestSuite) Test_CreateOrder_InterStateMixedRates() {
	t := s.T()
	shipping := testhelpers.ShippingAddress
	shipping.State = "Tamil Nadu"
	five := decimal.NewFromInt(5)

	order, err := s.orders.CreateOrder(s.ctx, services.CreateOrderCommand{
		UserID: "user-1",
		Items: []services.OrderItemInput{
			{ProductID: "SKU-1", Quantity: 1, UnitPrice: decimal.RequireFromString("1180")},
			{ProductID: "SKU-2", Quantity: 3, UnitPrice: decimal.RequireFromString("35"), TaxRatePercent: &five},
		},
		ShippingAddress: shipping,
		BillingAddress:  testhelpers.BillingAddress,
	})
	require.NoError(t, err)

	// 1180 @18% -> 1000 + 180, 105 @5% -> 100 + 5
	assert.Equal(t, "1100", order.Pricing.Subtotal.String())
	assert.Equal(t, "185", order.Pricing.TaxAmount.String())
	assert.Equal(t, "185", order.TaxDetails.IGST.String())
	assert.True(t, order.TaxDetails.CGST.IsZero())
	assert.Equal(t, "16.82", order.TaxDetails.RatePercent.String())
}

func (s *OrderServiceTestSuite) Test_CreateOrder_SingleRateTaxedOnOrderTotal() {
	t := s.T()
	one := decimal.RequireFromString("1.00")

	order, err := s.orders.CreateOrder(s.ctx, services.CreateOrderCommand{
		UserID: "user-1",
		Items: []services.OrderItemInput{
			{ProductID: "SKU-1", Quantity: 1, UnitPrice: one},
			{ProductID: "SKU-2", Quantity: 1, UnitPrice: one},
			{ProductID: "SKU-3", Quantity: 1, UnitPrice: one},
		},
		ShippingAddress: testhelpers.ShippingAddress,
		BillingAddress:  testhelpers.BillingAddress,
	})
	require.NoError(t, err)

	want, err := gst.Compute(decimal.NewFromInt(3), gst.DefaultRate, false)
	require.NoError(t, err)

	// summing three rounded 0.85 + 0.15 lines would give 2.55 + 0.45
	assert.Equal(t, "2.54", order.Pricing.Subtotal.String())
	assert.Equal(t, "0.46", order.Pricing.TaxAmount.String())
	assert.True(t, want.TaxableAmount.Equal(order.Pricing.Subtotal))
	assert.True(t, want.TaxAmount.Equal(order.Pricing.TaxAmount))
	assert.True(t, want.CGST.Equal(order.TaxDetails.CGST))
	assert.True(t, want.SGST.Equal(order.TaxDetails.SGST))
	assert.Equal(t, "3", order.Pricing.TotalAmount.String())
}

func (s *OrderServiceTestSuite) Test_CreateOrder_Validation() {
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name  string
		items []services.OrderItemInput
		want  error
	}{
		{"no items", nil, domain.ErrEmptyOrder},
		{"zero quantity", []services.OrderItemInput{{Quantity: 0, UnitPrice: decimal.NewFromInt(10)}}, domain.ErrInvalidAmount},
		{"negative price", []services.OrderItemInput{{Quantity: 1, UnitPrice: decimal.NewFromInt(-10)}}, domain.ErrInvalidAmount},
		{"zero total", []services.OrderItemInput{{Quantity: 1, UnitPrice: decimal.Zero}}, domain.ErrInvalidAmount},
		{"negative rate", []services.OrderItemInput{{Quantity: 1, UnitPrice: decimal.NewFromInt(10), TaxRatePercent: &negative}}, domain.ErrInvalidRate},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.orders.CreateOrder(s.ctx, services.CreateOrderCommand{
				UserID:          "user-1",
				Items:           tt.items,
				ShippingAddress: testhelpers.ShippingAddress,
				BillingAddress:  testhelpers.BillingAddress,
			})
			assert.ErrorIs(s.T(), err, tt.want)
		})
	}
}

func (s *OrderServiceTestSuite) Test_MarkPaid_IsIdempotent() {
	t := s.T()
	order := s.createOrder()

	require.NoError(t, s.orders.MarkPaid(s.ctx, order.OrderID))
	afterFirst := s.storedOrder(order.OrderID)
	require.NoError(t, s.orders.MarkPaid(s.ctx, order.OrderID))
	afterSecond := s.storedOrder(order.OrderID)

	assert.Equal(t, domain.OrderConfirmed, afterSecond.Status)
	assert.Equal(t, domain.OrderPaymentPaid, afterSecond.PaymentStatus)
	assert.Equal(t, afterFirst.Version, afterSecond.Version)
}

func (s *OrderServiceTestSuite) Test_UpdateStatus_FollowsFulfilmentFlow() {
	t := s.T()
	order := s.createOrder()

	for _, status := range []domain.OrderStatus{
		domain.OrderConfirmed,
		domain.OrderProcessing,
		domain.OrderShipped,
		domain.OrderDelivered,
		domain.OrderReturned,
	} {
		updated, err := s.orders.UpdateStatus(s.ctx, services.UpdateOrderStatusCommand{OrderID: order.OrderID, Status: status})
		require.NoError(t, err, status)
		assert.Equal(t, status, updated.Status)
	}

	_, err := s.orders.UpdateStatus(s.ctx, services.UpdateOrderStatusCommand{OrderID: order.OrderID, Status: domain.OrderDelivered})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func (s *OrderServiceTestSuite) Test_UpdateStatus_RejectsSkippingAndUnknown() {
	t := s.T()
	order := s.createOrder()

	_, err := s.orders.UpdateStatus(s.ctx, services.UpdateOrderStatusCommand{OrderID: order.OrderID, Status: domain.OrderShipped})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = s.orders.UpdateStatus(s.ctx, services.UpdateOrderStatusCommand{OrderID: order.OrderID, Status: "lost"})
	_, isServiceErr := application.IsServiceError(err)
	assert.True(t, isServiceErr)
}

func (s *OrderServiceTestSuite) Test_Cancel_ShippedOrderIsRejected() {
	t := s.T()
	payment := s.confirm(s.createPayment(domain.MethodUPI))
	for _, status := range []domain.OrderStatus{domain.OrderProcessing, domain.OrderShipped} {
		_, err := s.orders.UpdateStatus(s.ctx, services.UpdateOrderStatusCommand{OrderID: payment.OrderID, Status: status})
		require.NoError(t, err)
	}

	_, err := s.orders.Cancel(s.ctx, payment.OrderID, "changed my mind")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.OrderShipped, s.storedOrder(payment.OrderID).Status)
	assert.Equal(t, domain.PaymentCompleted, s.storedPayment(payment.ID).Status)
}

func (s *OrderServiceTestSuite) Test_Cancel_PaidOrderIssuesRefund() {
	t := s.T()
	payment := s.confirm(s.createPayment(domain.MethodUPI))
	_, err := s.orders.UpdateStatus(s.ctx, services.UpdateOrderStatusCommand{OrderID: payment.OrderID, Status: domain.OrderProcessing})
	require.NoError(t, err)

	s.razorpay.EXPECT().
		Refund(mock.Anything, mock.MatchedBy(func(req application.RefundRequest) bool {
			return req.Amount.Equal(payment.Amount) && req.Reason == "out of stock"
		})).
		Return(&application.RefundResult{RefundID: "rfnd_2", Status: "processed"}, nil).
		Once()

	order, err := s.orders.Cancel(s.ctx, payment.OrderID, "out of stock")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderCancelled, order.Status)
	assert.Equal(t, domain.OrderPaymentRefunded, order.PaymentStatus)
	assert.Equal(t, domain.PaymentRefunded, s.storedPayment(payment.ID).Status)
}

func (s *OrderServiceTestSuite) Test_Cancel_RefundFailureKeepsCancellation() {
	t := s.T()
	payment := s.confirm(s.createPayment(domain.MethodCard))

	s.razorpay.EXPECT().
		Refund(mock.Anything, mock.Anything).
		Return(nil, domain.NewProviderTimeoutError("refund", errors.New("deadline exceeded"))).
		Once()

	order, err := s.orders.Cancel(s.ctx, payment.OrderID, "")
	assert.ErrorIs(t, err, domain.ErrProviderTimeout)
	require.NotNil(t, order)
	assert.Equal(t, domain.OrderCancelled, s.storedOrder(payment.OrderID).Status)
	assert.Equal(t, domain.PaymentCompleted, s.storedPayment(payment.ID).Status)
}

func (s *OrderServiceTestSuite) Test_Cancel_UnpaidOrderCancelsPayment() {
	t := s.T()
	payment := s.createPayment(domain.MethodNetBanking)

	order, err := s.orders.Cancel(s.ctx, payment.OrderID, "")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderCancelled, order.Status)
	assert.Equal(t, domain.PaymentCancelled, s.storedPayment(payment.ID).Status)
}

func (s *OrderServiceTestSuite) Test_Cancel_WithoutPayment() {
	order := s.createOrder()

	cancelled, err := s.orders.Cancel(s.ctx, order.OrderID, "")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.OrderCancelled, cancelled.Status)
}

func (s *OrderServiceTestSuite) Test_GetOrder_IncludesPayment() {
	t := s.T()
	payment := s.createPayment(domain.MethodCard)

	view, err := s.orders.GetOrder(s.ctx, payment.OrderID)
	require.NoError(t, err)
	require.NotNil(t, view.Payment)
	assert.Equal(t, payment.ID, view.Payment.ID)

	bare := s.createOrder()
	view, err = s.orders.GetOrder(s.ctx, bare.OrderID)
	require.NoError(t, err)
	assert.Nil(t, view.Payment)

	_, err = s.orders.GetOrder(s.ctx, "ORD_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func (s *OrderServiceTestSuite) Test_ListOrdersByUser_Paginates() {
	t := s.T()
	for range 3 {
		s.createOrder()
	}

	page, err := s.orders.ListOrdersByUser(s.ctx, "user-1", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	page, err = s.orders.ListOrdersByUser(s.ctx, "user-1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Len(t, page.Orders, 3)
}
