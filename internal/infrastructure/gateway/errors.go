package gateway

import (
	"errors"
	"fmt"
)

// ProviderError is a non-2xx response from the payment provider API.
type ProviderError struct {
	Code       string
	Message    string
	StatusCode int
}

type providerErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Reason      string `json:"reason"`
	} `json:"error"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func IsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	ok := errors.As(err, &providerErr)
	return providerErr, ok
}

// ErrUnsupported is returned by gateways for operations the provider does not offer.
var ErrUnsupported = errors.New("operation not supported by provider")
