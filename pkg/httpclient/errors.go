package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
)

// backendErrorBody covers the error shapes the storefront backend returns:
// a DRF-style {"detail": "..."} body, or an envelope with an error object.
type backendErrorBody struct {
	Detail string `json:"detail"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError. A "detail" field, when present, is preserved verbatim
// as the user-displayable message. The response body is fully consumed and
// closed.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
func ParseResponseError(resp *http.Response, endpoint string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", endpoint, resp.StatusCode, err)
	}

	var parsed backendErrorBody
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		if parsed.Detail != "" {
			return mapBackendError(resp.StatusCode, parsed.Detail, endpoint)
		}
		if parsed.Error != nil && parsed.Error.Message != "" {
			return mapBackendError(resp.StatusCode, parsed.Error.Message, endpoint)
		}
	}

	// Unstructured error body.
	return mapBackendError(resp.StatusCode, "", endpoint)
}

// mapBackendError translates a backend HTTP status and detail message into an
// AppError preserving the error semantics. An empty detail falls back to a
// generic message so nothing raw leaks to the user.
func mapBackendError(status int, detail, endpoint string) error {
	switch status {
	case http.StatusNotFound:
		if detail == "" {
			detail = "resource not found"
		}
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: detail,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case http.StatusUnauthorized:
		if detail == "" {
			detail = "authentication required"
		}
		return apperrors.Unauthorized(detail)
	case http.StatusForbidden:
		if detail == "" {
			detail = "permission denied"
		}
		return apperrors.Forbidden(detail)
	case http.StatusBadRequest:
		if detail == "" {
			detail = "invalid request"
		}
		return apperrors.InvalidInput(detail)
	case http.StatusConflict:
		if detail == "" {
			detail = "conflicting request"
		}
		return apperrors.Conflict(detail)
	case http.StatusServiceUnavailable:
		if detail == "" {
			detail = "service unavailable"
		}
		return apperrors.Unavailable(detail)
	}

	if status >= 500 {
		return fmt.Errorf("%s server error (%d): %s", endpoint, status, detail)
	}

	// Other 4xx: the backend refused the request; keep its reason for display.
	if detail == "" {
		detail = fmt.Sprintf("request rejected with status %d", status)
	}
	return apperrors.RemoteRejected(status, detail)
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
