package handlers

import (
	"net/http"

	"github.com/DanielPopoola/gst-checkout/internal/application/services"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/interfaces/rest"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	OrderID         string               `json:"orderId" validate:"required"`
	UserID          string               `json:"userId"`
	Amount          decimal.Decimal      `json:"amount"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod" validate:"required"`
	CustomerInfo    domain.Customer      `json:"customerInfo"`
	BillingAddress  domain.Address       `json:"billingAddress"`
	DeliveryAddress domain.Address       `json:"deliveryAddress"`
	GSTNumber       string               `json:"gstNumber"`
	Metadata        map[string]string    `json:"metadata"`
}

type ConfirmPaymentRequest struct {
	PaymentID         string               `json:"paymentId" validate:"required"`
	PaymentMethod     domain.PaymentMethod `json:"paymentMethod"`
	RazorpayOrderID   string               `json:"razorpayOrderId"`
	RazorpayPaymentID string               `json:"razorpayPaymentId"`
	RazorpaySignature string               `json:"razorpaySignature"`
}

type RefundPaymentRequest struct {
	PaymentID string          `json:"paymentId" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
}

func (h *Handlers) ListPaymentMethods(w http.ResponseWriter, _ *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.payments.SupportedMethods())
}

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := h.decode(r, &req); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	created, err := h.payments.CreatePayment(r.Context(), services.CreatePaymentCommand{
		OrderID:            req.OrderID,
		UserID:             req.UserID,
		Amount:             req.Amount,
		Method:             req.PaymentMethod,
		Customer:           req.CustomerInfo,
		BillingAddress:     req.BillingAddress,
		DeliveryAddress:    req.DeliveryAddress,
		RegistrationNumber: req.GSTNumber,
		Metadata:           req.Metadata,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, rest.ToCheckoutResponse(created))
}

func (h *Handlers) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if err := h.decode(r, &req); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	payment, err := h.payments.ConfirmPayment(r.Context(), services.ConfirmPaymentCommand{
		PaymentID:         req.PaymentID,
		Method:            req.PaymentMethod,
		ProviderOrderID:   req.RazorpayOrderID,
		ProviderPaymentID: req.RazorpayPaymentID,
		Signature:         req.RazorpaySignature,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToPaymentResponse(payment))
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.payments.GetPayment(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToPaymentResponse(payment))
}

func (h *Handlers) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var req RefundPaymentRequest
	if err := h.decode(r, &req); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	payment, err := h.payments.RefundPayment(r.Context(), services.RefundPaymentCommand{
		PaymentID: req.PaymentID,
		Amount:    req.Amount,
		Reason:    req.Reason,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToPaymentResponse(payment))
}

func (h *Handlers) SyncPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.dispatcher.Sync(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToPaymentResponse(payment))
}
