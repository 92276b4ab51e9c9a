package handlers

import (
	"net/http"
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/interfaces/rest"
)

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	rest.WriteRaw(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}
