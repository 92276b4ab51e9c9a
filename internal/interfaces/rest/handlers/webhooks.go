package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/application/services"
	"github.com/DanielPopoola/gst-checkout/internal/interfaces/rest"
)

const (
	signatureHeader = "X-Razorpay-Signature"
	eventIDHeader   = "X-Razorpay-Event-Id"
)

// RazorpayWebhook verifies and dispatches a provider event. Parse and signature
// failures are 400s; anything the dispatcher returns is a 500 so the provider redelivers.
func (h *Handlers) RazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	if h.verifier != nil && !h.verifier.Verify(body, r.Header.Get(signatureHeader)) {
		h.logger.Warn("rejected webhook with bad signature")
		rest.WriteError(w, application.NewInvalidSignatureError(), h.logger)
		return
	}

	var event services.Event
	if err := json.Unmarshal(body, &event); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), r.Header.Get(eventIDHeader), event); err != nil {
		if svcErr, ok := application.IsServiceError(err); ok && svcErr.Code == application.ErrCodeInvalidInput {
			rest.WriteError(w, err, h.logger)
			return
		}
		rest.WriteError(w, application.NewInternalError(err), h.logger)
		return
	}

	rest.WriteRaw(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handlers) VerifyWebhookEndpoint(w http.ResponseWriter, _ *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]string{"message": "webhook endpoint is reachable"})
}
