package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("order", "42")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "order with id 42 not found")
}

func TestAppError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, NotFound("order", "42"), ErrNotFound)
	assert.ErrorIs(t, InvalidInput("bad"), ErrInvalidInput)
	assert.ErrorIs(t, Unauthorized("nope"), ErrUnauthorized)
	assert.ErrorIs(t, Conflict("busy"), ErrConflict)
	assert.ErrorIs(t, RemoteRejected(400, "refused"), ErrRemoteRejected)
}

func TestAppError_UnwrapThroughWrapping(t *testing.T) {
	inner := Unauthorized("token invalid")
	wrapped := fmt.Errorf("fetch profile: %w", inner)

	assert.ErrorIs(t, wrapped, ErrUnauthorized)

	var appErr *AppError
	assert.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, "token invalid", appErr.Message)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Cannot cancel order in shipped status",
		UserMessage(RemoteRejected(400, "Cannot cancel order in shipped status"), "fallback"))

	assert.Equal(t, "fallback", UserMessage(errors.New("dial tcp: refused"), "fallback"),
		"raw errors never leak to the user")

	wrapped := fmt.Errorf("cancel order: %w", Conflict("already cancelled"))
	assert.Equal(t, "already cancelled", UserMessage(wrapped, "fallback"))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error uses its status", RemoteRejected(418, "teapot"), 418},
		{"not found sentinel", fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{"conflict sentinel", fmt.Errorf("x: %w", ErrConflict), http.StatusConflict},
		{"invalid input sentinel", fmt.Errorf("x: %w", ErrInvalidInput), http.StatusBadRequest},
		{"unauthorized sentinel", fmt.Errorf("x: %w", ErrUnauthorized), http.StatusUnauthorized},
		{"unavailable sentinel", fmt.Errorf("x: %w", ErrUnavailable), http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	inner := errors.New("connection reset")
	wrapped := Wrap(inner, "save cart")

	assert.ErrorIs(t, wrapped, inner)
	assert.Equal(t, "save cart: connection reset", wrapped.Error())
}
