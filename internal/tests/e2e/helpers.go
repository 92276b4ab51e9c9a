package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type Order struct {
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	Pricing       struct {
		TotalAmount string `json:"totalAmount"`
	} `json:"pricing"`
	Payment *Payment `json:"payment"`
}

type Payment struct {
	PaymentID         string `json:"paymentId"`
	OrderID           string `json:"orderId"`
	Amount            string `json:"amount"`
	Status            string `json:"status"`
	ProviderReference struct {
		OrderID          string `json:"orderId"`
		PaymentID        string `json:"paymentId"`
		UPITransactionID string `json:"upiTransactionId"`
		UPIID            string `json:"upiId"`
	} `json:"providerReference"`
	Refund *struct {
		RefundID string `json:"refundId"`
		Amount   string `json:"amount"`
		Status   string `json:"status"`
	} `json:"refund"`
}

type Checkout struct {
	PaymentID       string `json:"paymentId"`
	ProviderOrderID string `json:"providerOrderId"`
	AmountMinor     int64  `json:"amountMinor"`
	Status          string `json:"status"`
}

// TestClient wraps HTTP calls to the checkout API
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Do sends body as JSON and decodes the envelope. Headers are optional key/value pairs.
func (c *TestClient) Do(t *testing.T, method, path string, body any, headers ...string) (int, Envelope) {
	t.Helper()

	var raw []byte
	if b, ok := body.([]byte); ok {
		raw = b
	} else if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env Envelope
	_ = json.Unmarshal(respBody, &env)
	return resp.StatusCode, env
}

// MustData requires wantStatus and decodes the response data into out.
func (c *TestClient) MustData(t *testing.T, wantStatus int, out any, method, path string, body any) {
	t.Helper()

	status, env := c.Do(t, method, path, body)
	require.Equal(t, wantStatus, status, "%s %s: %+v", method, path, env.Error)
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func (c *TestClient) CreateOrder(t *testing.T, userID string, method string) *Order {
	var order Order
	c.MustData(t, http.StatusCreated, &order, http.MethodPost, "/api/orders", map[string]any{
		"userId": userID,
		"items": []map[string]any{
			{"productId": "SKU-KURTA", "name": "Cotton kurta", "quantity": 2, "unitPrice": 590},
		},
		"shippingAddress": Address,
		"paymentMethod":   method,
	})
	return &order
}

func (c *TestClient) CreatePayment(t *testing.T, order *Order, method string) *Checkout {
	var checkout Checkout
	c.MustData(t, http.StatusCreated, &checkout, http.MethodPost, "/api/payments/create", map[string]any{
		"orderId":         order.OrderID,
		"amount":          json.Number(order.Pricing.TotalAmount),
		"paymentMethod":   method,
		"customerInfo":    map[string]string{"name": "Asha Rao", "email": "asha@example.com"},
		"billingAddress":  Address,
		"deliveryAddress": Address,
	})
	return &checkout
}

func (c *TestClient) GetOrder(t *testing.T, orderID string) *Order {
	var order Order
	c.MustData(t, http.StatusOK, &order, http.MethodGet, "/api/orders/"+orderID, nil)
	return &order
}

func (c *TestClient) GetPayment(t *testing.T, paymentID string) *Payment {
	var payment Payment
	c.MustData(t, http.StatusOK, &payment, http.MethodGet, "/api/payments/status/"+paymentID, nil)
	return &payment
}

var Address = map[string]string{
	"name":       "Asha Rao",
	"street":     "12 MG Road",
	"city":       "Bengaluru",
	"state":      "Karnataka",
	"postalCode": "560001",
}

// FakeRazorpay serves the subset of the Razorpay orders and payments API the client calls.
type FakeRazorpay struct {
	*httptest.Server

	mu       sync.Mutex
	orders   map[string]int64
	statuses map[string]string
	refunds  []int64
}

func NewFakeRazorpay(t *testing.T) *FakeRazorpay {
	f := &FakeRazorpay{
		orders:   make(map[string]int64),
		statuses: make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/orders", f.createOrder)
	mux.HandleFunc("GET /v1/payments/{id}", f.fetchPayment)
	mux.HandleFunc("POST /v1/payments/{id}/refund", f.refund)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

// SetStatus sets what the fake reports for a provider payment.
func (f *FakeRazorpay) SetStatus(paymentID, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[paymentID] = status
}

// Refunds returns every refund amount received, in paise.
func (f *FakeRazorpay) Refunds() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.refunds...)
}

func (f *FakeRazorpay) createOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"code":"BAD_REQUEST_ERROR","description":"invalid body"}}`, http.StatusBadRequest)
		return
	}

	id := "order_" + uuid.NewString()[:14]
	f.mu.Lock()
	f.orders[id] = req.Amount
	f.mu.Unlock()

	writeJSON(w, map[string]any{
		"id":       id,
		"entity":   "order",
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"status":   "created",
	})
}

func (f *FakeRazorpay) fetchPayment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f.mu.Lock()
	status, ok := f.statuses[id]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`)
		return
	}

	writeJSON(w, map[string]any{"id": id, "entity": "payment", "status": status})
}

func (f *FakeRazorpay) refund(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"code":"BAD_REQUEST_ERROR","description":"invalid body"}}`, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.refunds = append(f.refunds, req.Amount)
	f.mu.Unlock()

	writeJSON(w, map[string]any{
		"id":         "rfnd_" + uuid.NewString()[:14],
		"payment_id": r.PathValue("id"),
		"amount":     req.Amount,
		"status":     "processed",
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
