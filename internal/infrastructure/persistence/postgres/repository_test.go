package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/application/services/testhelpers"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	testDB   *testhelpers.TestDatabase
	orders   *postgres.OrderRepository
	payments *postgres.PaymentRepository
	ctx      context.Context
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration tests in short mode")
	}
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.testDB = testhelpers.SetupTestDatabase(s.T())
	s.orders = postgres.NewOrderRepository(s.testDB.DB.Pool)
	s.payments = postgres.NewPaymentRepository(s.testDB.DB.Pool)
}

func (s *RepositoryTestSuite) TearDownSuite() {
	s.testDB.Cleanup(s.T())
}

func (s *RepositoryTestSuite) SetupTest() {
	s.testDB.CleanTables(s.T())
}

func (s *RepositoryTestSuite) TestOrder_RoundTrip() {
	order := testhelpers.NewOrder(s.T(), "user-1")

	s.Require().NoError(s.orders.Create(s.ctx, order))

	found, err := s.orders.FindByID(s.ctx, order.OrderID)
	s.Require().NoError(err)
	s.Equal(order.OrderID, found.OrderID)
	s.True(found.Pricing.TotalAmount.Equal(order.Pricing.TotalAmount))
	s.True(found.Pricing.Subtotal.Equal(order.Pricing.Subtotal))
	s.True(found.TaxDetails.CGST.Equal(order.TaxDetails.CGST))
	s.Require().Len(found.Items, len(order.Items))
	s.True(found.Items[0].UnitPrice.Equal(order.Items[0].UnitPrice))
	s.Equal(order.ShippingAddress, found.ShippingAddress)
	s.Equal(domain.OrderPending, found.Status)
	s.Equal(1, found.Version)
}

func (s *RepositoryTestSuite) TestOrder_NotFound() {
	_, err := s.orders.FindByID(s.ctx, "ORD_missing")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *RepositoryTestSuite) TestOrder_OptimisticUpdate() {
	order := testhelpers.NewOrder(s.T(), "user-1")
	s.Require().NoError(s.orders.Create(s.ctx, order))

	first, err := s.orders.FindByID(s.ctx, order.OrderID)
	s.Require().NoError(err)
	second, err := s.orders.FindByID(s.ctx, order.OrderID)
	s.Require().NoError(err)

	first.MarkPaid()
	s.Require().NoError(s.orders.Update(s.ctx, first))
	s.Equal(2, first.Version)

	second.MarkPaymentFailed()
	s.ErrorIs(s.orders.Update(s.ctx, second), domain.ErrStaleRecord)

	stored, err := s.orders.FindByID(s.ctx, order.OrderID)
	s.Require().NoError(err)
	s.Equal(domain.OrderConfirmed, stored.Status)
	s.Equal(domain.OrderPaymentPaid, stored.PaymentStatus)
}

func (s *RepositoryTestSuite) TestOrder_FindByUserID() {
	for i := 0; i < 3; i++ {
		order := testhelpers.NewOrder(s.T(), "user-1")
		order.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		s.Require().NoError(s.orders.Create(s.ctx, order))
	}
	s.Require().NoError(s.orders.Create(s.ctx, testhelpers.NewOrder(s.T(), "user-2")))

	page, total, err := s.orders.FindByUserID(s.ctx, "user-1", 2, 0)

	s.Require().NoError(err)
	s.Equal(3, total)
	s.Len(page, 2)
	s.True(page[0].CreatedAt.After(page[1].CreatedAt))
}

func (s *RepositoryTestSuite) TestPayment_RoundTrip() {
	payment := testhelpers.NewPayment(s.T(), "ORD_"+uuid.NewString(), domain.MethodCard)
	payment.ProviderRef.OrderID = "order_rzp_" + uuid.NewString()

	s.Require().NoError(s.payments.Create(s.ctx, payment))

	byID, err := s.payments.FindByID(s.ctx, payment.ID)
	s.Require().NoError(err)
	s.True(byID.Amount.Equal(payment.Amount))
	s.Equal(payment.Customer, byID.Customer)
	s.Nil(byID.Refund)

	byOrder, err := s.payments.FindByOrderID(s.ctx, payment.OrderID)
	s.Require().NoError(err)
	s.Equal(payment.ID, byOrder.ID)

	byProvider, err := s.payments.FindByProviderOrderID(s.ctx, payment.ProviderRef.OrderID)
	s.Require().NoError(err)
	s.Equal(payment.ID, byProvider.ID)
}

func (s *RepositoryTestSuite) TestPayment_DuplicateOrder() {
	orderID := "ORD_" + uuid.NewString()
	s.Require().NoError(s.payments.Create(s.ctx, testhelpers.NewPayment(s.T(), orderID, domain.MethodUPI)))

	err := s.payments.Create(s.ctx, testhelpers.NewPayment(s.T(), orderID, domain.MethodUPI))

	s.ErrorIs(err, domain.ErrDuplicatePayment)
}

func (s *RepositoryTestSuite) TestPayment_ConcurrentCreate() {
	orderID := "ORD_" + uuid.NewString()
	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.payments.Create(s.ctx, testhelpers.NewPayment(s.T(), orderID, domain.MethodUPI))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, domain.ErrDuplicatePayment)
	}
	s.Equal(1, succeeded)
}

func (s *RepositoryTestSuite) TestPayment_TransitionIsCompareAndSet() {
	payment := testhelpers.NewPayment(s.T(), "ORD_"+uuid.NewString(), domain.MethodCard)
	s.Require().NoError(s.payments.Create(s.ctx, payment))

	completed := payment.Clone()
	s.Require().NoError(completed.Complete(domain.ProviderReference{PaymentID: "pay_1", CardLast4: "4242"}, time.Now()))
	applied, err := s.payments.Transition(s.ctx, completed, domain.PaymentPending, domain.PaymentProcessing)
	s.Require().NoError(err)
	s.True(applied)

	failed := payment.Clone()
	s.Require().NoError(failed.Fail())
	applied, err = s.payments.Transition(s.ctx, failed, domain.PaymentPending, domain.PaymentProcessing)
	s.Require().NoError(err)
	s.False(applied)

	stored, err := s.payments.FindByID(s.ctx, payment.ID)
	s.Require().NoError(err)
	s.Equal(domain.PaymentCompleted, stored.Status)
	s.Equal("4242", stored.ProviderRef.CardLast4)
	s.NotNil(stored.CompletedAt)

	refunded := stored.Clone()
	now := time.Now()
	s.Require().NoError(refunded.MarkRefunded(domain.Refund{RefundID: "rfnd_1", Amount: decimal.NewFromInt(10), Status: domain.RefundProcessed, RefundedAt: &now}))
	applied, err = s.payments.Transition(s.ctx, refunded, domain.PaymentCompleted)
	s.Require().NoError(err)
	s.True(applied)

	stored, err = s.payments.FindByID(s.ctx, payment.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.Refund)
	s.Equal("rfnd_1", stored.Refund.RefundID)
}

func (s *RepositoryTestSuite) TestPayment_ClaimRefundIsExclusive() {
	payment := testhelpers.NewPayment(s.T(), "ORD_"+uuid.NewString(), domain.MethodCard)
	s.Require().NoError(payment.Complete(domain.ProviderReference{PaymentID: "pay_1"}, time.Now()))
	s.Require().NoError(s.payments.Create(s.ctx, payment))

	const attempts = 5
	var wg sync.WaitGroup
	results := make([]bool, attempts)
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := payment.Clone()
			s.NoError(next.BeginRefund(domain.Refund{Amount: decimal.NewFromInt(10)}))
			applied, err := s.payments.ClaimRefund(s.ctx, next)
			s.NoError(err)
			results[i] = applied
		}(i)
	}
	wg.Wait()

	claimed := 0
	for _, applied := range results {
		if applied {
			claimed++
		}
	}
	s.Equal(1, claimed)

	stored, err := s.payments.FindByID(s.ctx, payment.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.Refund)
	s.Equal(domain.RefundPending, stored.Refund.Status)
	s.Equal(domain.PaymentCompleted, stored.Status)

	s.Require().NoError(stored.FailRefund())
	applied, err := s.payments.Transition(s.ctx, stored, domain.PaymentCompleted)
	s.Require().NoError(err)
	s.Require().True(applied)

	retry := stored.Clone()
	s.Require().NoError(retry.BeginRefund(domain.Refund{Amount: decimal.NewFromInt(10)}))
	applied, err = s.payments.ClaimRefund(s.ctx, retry)
	s.Require().NoError(err)
	s.True(applied)
}
