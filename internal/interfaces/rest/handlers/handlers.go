package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/application/services"
	"github.com/DanielPopoola/gst-checkout/internal/gst"
	"github.com/DanielPopoola/gst-checkout/internal/infrastructure/gateway"
	"github.com/go-playground/validator"
)

const maxBodySize = 1 << 20

type Handlers struct {
	orders     *services.OrderService
	payments   *services.PaymentService
	dispatcher *services.Dispatcher
	engine     *gst.Engine
	// verifier is nil when no webhook secret is configured.
	verifier *gateway.WebhookVerifier
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandlers(
	orders *services.OrderService,
	payments *services.PaymentService,
	dispatcher *services.Dispatcher,
	engine *gst.Engine,
	verifier *gateway.WebhookVerifier,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		orders:     orders,
		payments:   payments,
		dispatcher: dispatcher,
		engine:     engine,
		verifier:   verifier,
		validate:   validator.New(),
		logger:     logger,
	}
}

// decode reads a JSON body into dst and runs struct validation on it.
func (h *Handlers) decode(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return application.NewInvalidInputError(err)
	}
	if len(body) == 0 {
		return application.NewInvalidInputError(errors.New("request body is required"))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return application.NewInvalidInputError(err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return application.NewInvalidInputError(err)
	}
	return nil
}
