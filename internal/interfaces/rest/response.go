package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/gst-checkout/internal/application"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

// WriteRaw writes body without the success envelope.
func WriteRaw(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps application errors to HTTP responses
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	WriteErrorWithData(w, err, nil, logger)
}

// WriteErrorWithData is WriteError for failures that still committed state; data
// carries that state next to the error.
func WriteErrorWithData(w http.ResponseWriter, err error, data any, logger *slog.Logger) {
	status := application.ToHTTPStatus(err)

	if logger != nil {
		switch application.CategorizeError(err) {
		case application.CategoryInfrastructure, application.CategoryProvider:
			logger.Error("request failed", "status", status, "error", err)
		default:
			logger.Debug("request rejected", "status", status, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Data:    data,
		Error: &APIError{
			Code:    application.ToErrorCode(err),
			Message: err.Error(),
		},
	})
}
