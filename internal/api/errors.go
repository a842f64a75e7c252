package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/http/response"
	"github.com/partydeck/partydeck-server/internal/store"
	"github.com/partydeck/partydeck-server/internal/validation"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler(logger *slog.Logger) {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status:  domainErr.HTTPStatus(),
					Code:    string(domainErr.Code),
					Message: domainErr.Message,
					Details: domainErr.Details,
				}
			}

			var storeErr *store.Error
			if errors.As(err, &storeErr) {
				return &APIError{
					status:  storeErr.HTTPCode(),
					Code:    statusToCode(storeErr.HTTPCode()),
					Message: storeErr.Message,
				}
			}
		}

		switch {
		case status == http.StatusUnprocessableEntity:
			apiErr := &APIError{
				status:  status,
				Code:    string(domainerrors.CodeValidation),
				Message: validation.FailedMessage,
			}
			// A nil map in Details would still render as "errors": null.
			if fields := fieldErrors(errs); fields != nil {
				apiErr.Details = fields
			}
			return apiErr
		case status >= http.StatusInternalServerError:
			return &APIError{
				status:  status,
				Code:    string(domainerrors.CodeInternal),
				Message: response.MsgInternalError,
			}
		}

		return &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
	}

	huma.NewErrorWithContext = func(ctx huma.Context, status int, message string, errs ...error) huma.StatusError {
		if status >= http.StatusInternalServerError && logger != nil {
			attrs := []any{"status", status, "error", errors.Join(errs...)}
			if ctx != nil {
				attrs = append(attrs, "method", ctx.Method(), "path", ctx.URL().Path)
			}
			logger.Error("Request failed", attrs...)
		}
		return huma.NewError(status, message, errs...)
	}
}

// fieldErrors keys huma's schema validation failures by field name,
// dropping the "body." location prefix.
func fieldErrors(errs []error) map[string]string {
	out := make(map[string]string)
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if !errors.As(err, &detail) {
			continue
		}
		field := detail.Location
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		if field == "" {
			field = "body"
		}
		if _, seen := out[field]; !seen {
			out[field] = detail.Message
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeTooManyRequests)
	}
	if status >= http.StatusInternalServerError {
		return string(domainerrors.CodeInternal)
	}
	return string(domainerrors.CodeBadRequest)
}
