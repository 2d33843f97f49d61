package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
)

func errorResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_DetailBody(t *testing.T) {
	resp := errorResponse(http.StatusBadRequest, `{"detail": "Cannot cancel order in shipped status"}`)

	err := ParseResponseError(resp, "POST /orders/5/cancel/")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, "Cannot cancel order in shipped status", apperrors.UserMessage(err, "fallback"))
}

func TestParseResponseError_EnvelopeBody(t *testing.T) {
	resp := errorResponse(http.StatusConflict, `{"error": {"code": "CONFLICT", "message": "order already cancelled"}}`)

	err := ParseResponseError(resp, "POST /orders/5/cancel/")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "order already cancelled", apperrors.UserMessage(err, "fallback"))
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	resp := errorResponse(http.StatusUnauthorized, `<html>denied</html>`)

	err := ParseResponseError(resp, "GET /orders/")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "authentication required", apperrors.UserMessage(err, "fallback"),
		"generic message when the backend sends no detail")
}

func TestParseResponseError_ServerError(t *testing.T) {
	resp := errorResponse(http.StatusBadGateway, `{"detail": "upstream timed out"}`)

	err := ParseResponseError(resp, "GET /orders/")

	require.Error(t, err)
	var appErr *apperrors.AppError
	assert.False(t, errors.As(err, &appErr), "5xx responses stay internal, never user-displayable")
	assert.Contains(t, err.Error(), "502")
}

func TestMapBackendError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		detail   string
		sentinel error
	}{
		{"not found", http.StatusNotFound, "order not found", apperrors.ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, "token expired", apperrors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, "not your order", apperrors.ErrForbidden},
		{"bad request", http.StatusBadRequest, "bad payload", apperrors.ErrInvalidInput},
		{"conflict", http.StatusConflict, "already cancelled", apperrors.ErrConflict},
		{"unavailable", http.StatusServiceUnavailable, "maintenance", apperrors.ErrUnavailable},
		{"other 4xx", http.StatusTeapot, "refused", apperrors.ErrRemoteRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapBackendError(tt.status, tt.detail, "GET /x")
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.detail, apperrors.UserMessage(err, "fallback"))
		})
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(http.StatusBadRequest))
	assert.True(t, IsClientError(http.StatusUnprocessableEntity))
	assert.False(t, IsClientError(http.StatusOK))
	assert.False(t, IsClientError(http.StatusInternalServerError))
}
