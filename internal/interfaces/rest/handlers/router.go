package handlers

import (
	"net/http"

	"github.com/DanielPopoola/gst-checkout/internal/api"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts every route. Extra middlewares wrap the API routes only.
func NewRouter(h *Handlers, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Get("/health", h.Health)
	r.Get("/openapi.yaml", api.ServeDocument)

	r.Group(func(r chi.Router) {
		r.Use(middlewares...)

		r.Route("/api/orders", func(r chi.Router) {
			r.Post("/", h.CreateOrder)
			r.Get("/user/{userID}", h.ListOrdersByUser)
			r.Get("/{orderID}", h.GetOrder)
			r.Patch("/{orderID}/status", h.UpdateOrderStatus)
			r.Patch("/{orderID}/cancel", h.CancelOrder)
		})

		r.Route("/api/payments", func(r chi.Router) {
			r.Get("/methods", h.ListPaymentMethods)
			r.Post("/create", h.CreatePayment)
			r.Post("/confirm", h.ConfirmPayment)
			r.Get("/status/{paymentID}", h.GetPayment)
			r.Post("/refund", h.RefundPayment)
			r.Post("/{paymentID}/sync", h.SyncPayment)
		})

		r.Route("/api/gst", func(r chi.Router) {
			r.Post("/calculate", h.CalculateGST)
			r.Get("/rates", h.ListGSTRates)
			r.Post("/validate", h.ValidateGSTIN)
		})

		r.Route("/api/webhooks", func(r chi.Router) {
			r.Post("/razorpay", h.RazorpayWebhook)
			r.Get("/verify", h.VerifyWebhookEndpoint)
		})
	})

	return r
}
