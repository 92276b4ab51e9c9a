// Package gateway holds the payment provider adapters behind application.ProviderGateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/config"
	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

var paisePerRupee = decimal.NewFromInt(100)

type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	upiApps    []string
	httpClient *http.Client
}

// NewRazorpayClient builds the HTTP client. Deadlines come from the caller's context.
func NewRazorpayClient(cfg config.GatewayConfig) *RazorpayClient {
	return &RazorpayClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		upiApps:    slices.Clone(cfg.UPIApps),
		httpClient: &http.Client{},
	}
}

func (c *RazorpayClient) CreateIntent(ctx context.Context, req application.IntentRequest) (*application.Intent, error) {
	notes := make(map[string]string, len(req.Metadata)+2)
	for k, v := range req.Metadata {
		notes[k] = v
	}
	notes["payment_method"] = string(req.Method)
	notes["country"] = "IN"

	body := orderRequest{
		Amount:         toPaise(req.Amount),
		Currency:       req.Currency,
		Receipt:        req.Receipt,
		Notes:          notes,
		PaymentCapture: 1,
	}

	resp, err := sendRequest[orderRequest, orderResponse](c, ctx, http.MethodPost, c.baseURL+"/v1/orders", &body)
	if err != nil {
		return nil, err
	}

	intent := &application.Intent{
		ProviderOrderID: resp.ID,
		ClientKey:       c.keyID,
		AmountMinor:     resp.Amount,
		Currency:        resp.Currency,
	}
	if req.Method == domain.MethodUPI {
		intent.UPIApps = slices.Clone(c.upiApps)
	}
	return intent, nil
}

// VerifySignature checks the checkout signature locally; no request is made.
func (c *RazorpayClient) VerifySignature(_ context.Context, providerOrderID, providerPaymentID, signature string) (bool, error) {
	if providerOrderID == "" || providerPaymentID == "" || signature == "" {
		return false, nil
	}
	return equalSignatures(Sign(c.keySecret, providerOrderID, providerPaymentID), signature), nil
}

func (c *RazorpayClient) FetchStatus(ctx context.Context, providerPaymentID string) (application.ProviderStatus, error) {
	endpoint := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, url.PathEscape(providerPaymentID))
	resp, err := sendRequest[any, paymentResponse](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	return application.ProviderStatus(resp.Status), nil
}

func (c *RazorpayClient) Refund(ctx context.Context, req application.RefundRequest) (*application.RefundResult, error) {
	body := refundRequest{
		Amount: toPaise(req.Amount),
		Notes:  map[string]string{"reason": req.Reason},
	}
	endpoint := fmt.Sprintf("%s/v1/payments/%s/refund", c.baseURL, url.PathEscape(req.ProviderPaymentID))

	resp, err := sendRequest[refundRequest, refundResponse](c, ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	return &application.RefundResult{RefundID: resp.ID, Status: resp.Status}, nil
}

func toPaise(amount decimal.Decimal) int64 {
	return amount.Mul(paisePerRupee).Round(0).IntPart()
}

func sendRequest[Req any, Resp any](c *RazorpayClient, ctx context.Context, method, endpoint string, reqBody *Req) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var errResp providerErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Code == "" {
			return nil, &ProviderError{
				Code:       "UNEXPECTED_RESPONSE",
				Message:    string(body),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, &ProviderError{
			Code:       errResp.Error.Code,
			Message:    errResp.Error.Description,
			StatusCode: resp.StatusCode,
		}
	}

	var providerResp Resp
	if err := json.NewDecoder(resp.Body).Decode(&providerResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &providerResp, nil
}
