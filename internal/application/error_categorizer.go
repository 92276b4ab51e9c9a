package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/gst-checkout/internal/domain"
)

// ErrorCategory represents the nature of an error for logging purposes
type ErrorCategory string

const (
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryProvider       ErrorCategory = "PROVIDER"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines the error category used to pick a log level
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if svcErr, ok := IsServiceError(err); ok {
		if svcErr.Code == ErrCodeInternal {
			return CategoryInfrastructure
		}
		return CategoryClientError
	}

	switch domain.KindOf(err) {
	case domain.KindInvalidAmount, domain.KindInvalidRate, domain.KindEmptyOrder, domain.KindNotFound:
		return CategoryClientError
	case domain.KindInvalidTransition, domain.KindInvalidState, domain.KindDuplicatePayment,
		domain.KindVerificationFailed:
		return CategoryBusinessRule
	case domain.KindProviderError, domain.KindProviderTimeout:
		return CategoryProvider
	}

	return CategoryInfrastructure
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch domain.KindOf(err) {
	case domain.KindInvalidAmount, domain.KindInvalidRate, domain.KindEmptyOrder, domain.KindVerificationFailed:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindDuplicatePayment, domain.KindInvalidState, domain.KindInvalidTransition:
		return http.StatusConflict
	case domain.KindProviderError:
		return http.StatusBadGateway
	case domain.KindProviderTimeout:
		return http.StatusGatewayTimeout
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusRequestTimeout
	}

	// Default to 500
	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	if kind := domain.KindOf(err); kind != "" {
		return string(kind)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}

	return ErrCodeInternal
}
