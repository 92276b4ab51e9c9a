package domain_test

import (
	"testing"
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	t.Run("creates payment successfully", func(t *testing.T) {
		payment, err := domain.NewPayment("pay-123", "ORD_1", "user-1", decimal.NewFromInt(1180), domain.MethodUPI, time.Now())

		require.NoError(t, err)
		assert.Equal(t, "pay-123", payment.ID)
		assert.Equal(t, "ORD_1", payment.OrderID)
		assert.Equal(t, "user-1", payment.UserID)
		assert.True(t, payment.Amount.Equal(decimal.NewFromInt(1180)))
		assert.Equal(t, domain.CurrencyINR, payment.Currency)
		assert.Equal(t, domain.ProviderRazorpay, payment.Provider)
		assert.Equal(t, domain.PaymentPending, payment.Status)
		assert.NotZero(t, payment.CreatedAt)
	})

	t.Run("cash on delivery is settled by the cod provider", func(t *testing.T) {
		payment, err := domain.NewPayment("pay-123", "ORD_1", "user-1", decimal.NewFromInt(500), domain.MethodCashOnDelivery, time.Now())

		require.NoError(t, err)
		assert.Equal(t, domain.ProviderCOD, payment.Provider)
	})

	t.Run("rejects empty order ID", func(t *testing.T) {
		_, err := domain.NewPayment("pay-123", "", "user-1", decimal.NewFromInt(1), domain.MethodCard, time.Now())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "order ID is required")
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := domain.NewPayment("pay-123", "ORD_1", "user-1", decimal.Zero, domain.MethodCard, time.Now())

		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := domain.NewPayment("pay-123", "ORD_1", "user-1", decimal.NewFromInt(1), "cheque", time.Now())

		assert.Error(t, err)
	})
}

func TestPayment_StateTransitions(t *testing.T) {
	t.Run("pending -> processing keeps provider ids", func(t *testing.T) {
		payment := createTestPayment(t)

		err := payment.MarkProcessing(domain.ProviderReference{PaymentID: "pay_rzp_1"})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentProcessing, payment.Status)
		assert.Equal(t, "order_rzp_1", payment.ProviderRef.OrderID)
		assert.Equal(t, "pay_rzp_1", payment.ProviderRef.PaymentID)
	})

	t.Run("pending -> completed merges provider reference", func(t *testing.T) {
		payment := createTestPayment(t)

		err := payment.Complete(domain.ProviderReference{PaymentID: "pay_rzp_1", CardLast4: "4242"}, time.Now())

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentCompleted, payment.Status)
		assert.Equal(t, "order_rzp_1", payment.ProviderRef.OrderID)
		assert.Equal(t, "4242", payment.ProviderRef.CardLast4)
		assert.NotNil(t, payment.CompletedAt)
	})

	t.Run("processing -> failed", func(t *testing.T) {
		payment := createProcessingPayment(t)

		require.NoError(t, payment.Fail())
		assert.Equal(t, domain.PaymentFailed, payment.Status)
	})

	t.Run("pending -> cancelled", func(t *testing.T) {
		payment := createTestPayment(t)

		require.NoError(t, payment.Cancel())
		assert.Equal(t, domain.PaymentCancelled, payment.Status)
	})

	t.Run("completed -> refunded records refund", func(t *testing.T) {
		payment := createCompletedPayment(t)
		now := time.Now()

		err := payment.MarkRefunded(domain.Refund{RefundID: "rfnd_1", Amount: payment.Amount, Status: domain.RefundProcessed, RefundedAt: &now})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentRefunded, payment.Status)
		require.NotNil(t, payment.Refund)
		assert.Equal(t, "rfnd_1", payment.Refund.RefundID)
	})
}

func TestPayment_InvalidStateTransitions(t *testing.T) {
	t.Run("cannot refund from pending", func(t *testing.T) {
		payment := createTestPayment(t)

		err := payment.MarkRefunded(domain.Refund{})

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("cannot complete a failed payment", func(t *testing.T) {
		payment := createTestPayment(t)
		require.NoError(t, payment.Fail())

		err := payment.Complete(domain.ProviderReference{}, time.Now())

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("cannot fail a completed payment", func(t *testing.T) {
		payment := createCompletedPayment(t)

		err := payment.Fail()

		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Equal(t, domain.PaymentCompleted, payment.Status)
	})

	t.Run("cannot go back to processing", func(t *testing.T) {
		payment := createCompletedPayment(t)

		err := payment.MarkProcessing(domain.ProviderReference{})

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestPayment_IsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.PaymentStatus
		terminal bool
	}{
		{"pending is not terminal", domain.PaymentPending, false},
		{"processing is not terminal", domain.PaymentProcessing, false},
		{"completed is not terminal", domain.PaymentCompleted, false},
		{"failed is terminal", domain.PaymentFailed, true},
		{"cancelled is terminal", domain.PaymentCancelled, true},
		{"refunded is terminal", domain.PaymentRefunded, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := createTestPayment(t)
			payment.Status = tt.status

			assert.Equal(t, tt.terminal, payment.IsTerminal())
		})
	}
}

func TestPayment_Clone(t *testing.T) {
	payment := createCompletedPayment(t)
	now := time.Now()
	require.NoError(t, payment.MarkRefunded(domain.Refund{RefundID: "rfnd_1", RefundedAt: &now}))

	clone := payment.Clone()
	clone.Refund.RefundID = "changed"
	clone.ProviderRef.PaymentID = "changed"

	assert.Equal(t, "rfnd_1", payment.Refund.RefundID)
	assert.NotEqual(t, "changed", payment.ProviderRef.PaymentID)
}

func createTestPayment(t *testing.T) *domain.Payment {
	t.Helper()
	payment, err := domain.NewPayment("pay-123", "ORD_1", "user-1", decimal.NewFromInt(1180), domain.MethodCard, time.Now())
	require.NoError(t, err)
	payment.ProviderRef.OrderID = "order_rzp_1"
	return payment
}

func createProcessingPayment(t *testing.T) *domain.Payment {
	t.Helper()
	payment := createTestPayment(t)
	require.NoError(t, payment.MarkProcessing(domain.ProviderReference{PaymentID: "pay_rzp_1"}))
	return payment
}

func createCompletedPayment(t *testing.T) *domain.Payment {
	t.Helper()
	payment := createProcessingPayment(t)
	require.NoError(t, payment.Complete(domain.ProviderReference{Signature: "sig"}, time.Now()))
	return payment
}

func TestPayment_RefundClaim(t *testing.T) {
	t.Run("only completed payments can begin a refund", func(t *testing.T) {
		payment := createTestPayment(t)

		err := payment.BeginRefund(domain.Refund{Amount: payment.Amount})

		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Nil(t, payment.Refund)
	})

	t.Run("pending refund blocks another", func(t *testing.T) {
		payment := createCompletedPayment(t)
		require.NoError(t, payment.BeginRefund(domain.Refund{Amount: payment.Amount}))
		assert.Equal(t, domain.RefundPending, payment.Refund.Status)

		err := payment.BeginRefund(domain.Refund{Amount: payment.Amount})

		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.False(t, payment.RefundClaimable())
	})

	t.Run("failed refund can be retried", func(t *testing.T) {
		payment := createCompletedPayment(t)
		require.NoError(t, payment.BeginRefund(domain.Refund{Amount: payment.Amount}))
		require.NoError(t, payment.FailRefund())

		assert.Equal(t, domain.PaymentCompleted, payment.Status)
		assert.Equal(t, domain.RefundFailed, payment.Refund.Status)
		assert.True(t, payment.RefundClaimable())
		assert.NoError(t, payment.BeginRefund(domain.Refund{Amount: payment.Amount}))
	})

	t.Run("nothing to release without a pending refund", func(t *testing.T) {
		payment := createCompletedPayment(t)

		assert.ErrorIs(t, payment.FailRefund(), domain.ErrInvalidState)
	})
}
