package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/infrastructure/gateway"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowGateway struct {
	gateway.CashOnDelivery
	delay time.Duration
}

func (g slowGateway) CreateIntent(ctx context.Context, req application.IntentRequest) (*application.Intent, error) {
	select {
	case <-time.After(g.delay):
		return &application.Intent{ProviderOrderID: "late"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type failingGateway struct {
	gateway.CashOnDelivery
}

func (failingGateway) Refund(context.Context, application.RefundRequest) (*application.RefundResult, error) {
	return nil, &gateway.ProviderError{Code: "BAD_REQUEST_ERROR", StatusCode: 400}
}

func TestTimeoutGateway(t *testing.T) {
	t.Run("deadline maps to provider timeout", func(t *testing.T) {
		gw := gateway.WithTimeout(slowGateway{delay: time.Second}, 20*time.Millisecond)

		_, err := gw.CreateIntent(context.Background(), application.IntentRequest{Amount: decimal.NewFromInt(1)})

		assert.ErrorIs(t, err, domain.ErrProviderTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("fast calls pass through", func(t *testing.T) {
		gw := gateway.WithTimeout(slowGateway{delay: time.Millisecond}, time.Second)

		intent, err := gw.CreateIntent(context.Background(), application.IntentRequest{Amount: decimal.NewFromInt(1)})

		require.NoError(t, err)
		assert.Equal(t, "late", intent.ProviderOrderID)
	})

	t.Run("provider failures keep their details", func(t *testing.T) {
		gw := gateway.WithTimeout(failingGateway{}, time.Second)

		_, err := gw.Refund(context.Background(), application.RefundRequest{})

		assert.ErrorIs(t, err, domain.ErrProviderError)
		providerErr, ok := gateway.IsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, "BAD_REQUEST_ERROR", providerErr.Code)
	})
}

func TestCashOnDelivery(t *testing.T) {
	cod := gateway.WithTimeout(gateway.NewCashOnDelivery(), time.Second)

	intent, err := cod.CreateIntent(context.Background(), application.IntentRequest{Amount: decimal.NewFromInt(250), Currency: "INR"})
	require.NoError(t, err)
	assert.Empty(t, intent.ProviderOrderID)
	assert.Equal(t, int64(25000), intent.AmountMinor)

	ok, err := cod.VerifySignature(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = cod.Refund(context.Background(), application.RefundRequest{})
	assert.ErrorIs(t, err, domain.ErrProviderError)
	assert.True(t, errors.Is(err, gateway.ErrUnsupported))
}

func TestWebhookVerifier(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	verifier := gateway.NewWebhookVerifier("whsec")

	signature := signWebhook("whsec", body)
	assert.True(t, verifier.Verify(body, signature))
	assert.False(t, verifier.Verify(body, signWebhook("other", body)))
	assert.False(t, verifier.Verify([]byte(`{}`), signature))
	assert.False(t, verifier.Verify(body, ""))
}

func signWebhook(secret string, body []byte) string {
	return gateway.Sign(secret, string(body))
}
