package gateway

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
)

// TimeoutGateway bounds every provider call and translates failures into domain errors.
// Calls are never retried.
type TimeoutGateway struct {
	inner   application.ProviderGateway
	timeout time.Duration
}

func WithTimeout(inner application.ProviderGateway, timeout time.Duration) *TimeoutGateway {
	return &TimeoutGateway{inner: inner, timeout: timeout}
}

func (g *TimeoutGateway) CreateIntent(ctx context.Context, req application.IntentRequest) (*application.Intent, error) {
	return bounded(g, ctx, "create intent", func(ctx context.Context) (*application.Intent, error) {
		return g.inner.CreateIntent(ctx, req)
	})
}

func (g *TimeoutGateway) VerifySignature(ctx context.Context, providerOrderID, providerPaymentID, signature string) (bool, error) {
	return bounded(g, ctx, "verify signature", func(ctx context.Context) (bool, error) {
		return g.inner.VerifySignature(ctx, providerOrderID, providerPaymentID, signature)
	})
}

func (g *TimeoutGateway) FetchStatus(ctx context.Context, providerPaymentID string) (application.ProviderStatus, error) {
	return bounded(g, ctx, "fetch status", func(ctx context.Context) (application.ProviderStatus, error) {
		return g.inner.FetchStatus(ctx, providerPaymentID)
	})
}

func (g *TimeoutGateway) Refund(ctx context.Context, req application.RefundRequest) (*application.RefundResult, error) {
	return bounded(g, ctx, "refund", func(ctx context.Context) (*application.RefundResult, error) {
		return g.inner.Refund(ctx, req)
	})
}

func bounded[T any](g *TimeoutGateway, ctx context.Context, operation string, call func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := call(ctx)
	if err == nil {
		return result, nil
	}

	var zero T
	if isTimeout(err) {
		return zero, domain.NewProviderTimeoutError(operation, err)
	}
	if domain.KindOf(err) != "" {
		return zero, err
	}
	return zero, domain.NewProviderError(operation, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
