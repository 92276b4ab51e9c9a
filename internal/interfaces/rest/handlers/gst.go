package handlers

import (
	"net/http"
	"strings"

	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/gst"
	"github.com/DanielPopoola/gst-checkout/internal/interfaces/rest"
	"github.com/shopspring/decimal"
)

type CalculateGSTRequest struct {
	Amount          decimal.Decimal  `json:"amount"`
	Rate            *decimal.Decimal `json:"rate"`
	BillingAddress  domain.Address   `json:"billingAddress"`
	ShippingAddress domain.Address   `json:"shippingAddress"`
}

type ValidateGSTINRequest struct {
	GSTNumber string `json:"gstNumber" validate:"required"`
}

func (h *Handlers) CalculateGST(w http.ResponseWriter, r *http.Request) {
	var req CalculateGSTRequest
	if err := h.decode(r, &req); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rate := h.engine.RateOrDefault(req.Rate)
	interState := h.engine.IsInterState(req.BillingAddress, req.ShippingAddress)
	breakdown, err := h.engine.Compute(req.Amount, rate, interState)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToBreakdownResponse(breakdown, rate, interState))
}

func (h *Handlers) ListGSTRates(w http.ResponseWriter, _ *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]any{
		"rates":       gst.Rates(),
		"defaultRate": h.engine.DefaultRate().String(),
	})
}

func (h *Handlers) ValidateGSTIN(w http.ResponseWriter, r *http.Request) {
	var req ValidateGSTINRequest
	if err := h.decode(r, &req); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	gstin := strings.ToUpper(strings.TrimSpace(req.GSTNumber))
	rest.WriteJSON(w, http.StatusOK, map[string]any{
		"gstNumber": gstin,
		"valid":     gst.ValidateRegistration(gstin),
	})
}
