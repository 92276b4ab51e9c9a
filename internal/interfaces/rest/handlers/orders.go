package handlers

import (
	"net/http"
	"strconv"

	"github.com/DanielPopoola/gst-checkout/internal/application/services"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/interfaces/rest"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID          string           `json:"productId" validate:"required"`
	Name               string           `json:"name"`
	Quantity           int              `json:"quantity" validate:"gt=0"`
	UnitPrice          decimal.Decimal  `json:"unitPrice"`
	TaxRatePercent     *decimal.Decimal `json:"taxRatePercent"`
	ClassificationCode string           `json:"classificationCode"`
}

type CreateOrderRequest struct {
	UserID          string               `json:"userId" validate:"required"`
	Items           []OrderItemRequest   `json:"items" validate:"required,min=1,dive"`
	ShippingAddress domain.Address       `json:"shippingAddress"`
	BillingAddress  *domain.Address      `json:"billingAddress"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	GSTNumber       string               `json:"gstNumber"`
}

type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
	Reason string             `json:"reason"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := h.decode(r, &req); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	// Billing defaults to the shipping address.
	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductID:          it.ProductID,
			Name:               it.Name,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			TaxRatePercent:     it.TaxRatePercent,
			ClassificationCode: it.ClassificationCode,
		})
	}

	order, err := h.orders.CreateOrder(r.Context(), services.CreateOrderCommand{
		UserID:             req.UserID,
		Items:              items,
		ShippingAddress:    req.ShippingAddress,
		BillingAddress:     billing,
		PaymentMethod:      req.PaymentMethod,
		RegistrationNumber: req.GSTNumber,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.ToOrderResponse(order))
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	view, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToOrderViewResponse(view))
}

func (h *Handlers) ListOrdersByUser(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.orders.ListOrdersByUser(r.Context(), chi.URLParam(r, "userID"), page, limit)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToOrderPageResponse(result))
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if err := h.decode(r, &req); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), services.UpdateOrderStatusCommand{
		OrderID: chi.URLParam(r, "orderID"),
		Status:  req.Status,
		Reason:  req.Reason,
	})
	if err != nil {
		writeOrderError(w, order, err, h)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToOrderResponse(order))
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if r.ContentLength > 0 {
		if err := h.decode(r, &req); err != nil {
			rest.WriteError(w, err, h.logger)
			return
		}
	}

	order, err := h.orders.Cancel(r.Context(), chi.URLParam(r, "orderID"), req.Reason)
	if err != nil {
		writeOrderError(w, order, err, h)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToOrderResponse(order))
}

// writeOrderError reports err. When the status change committed before a side effect
// failed, the committed order is returned alongside the error.
func writeOrderError(w http.ResponseWriter, order *domain.Order, err error, h *Handlers) {
	if order == nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteErrorWithData(w, err, rest.ToOrderResponse(order), h.logger)
}
