package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
	"github.com/utafrali/StorefrontGo/pkg/httpclient"

	"github.com/utafrali/StorefrontGo/internal/domain"
)

// Credentials are the login inputs.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// wireUser is the backend's profile payload.
type wireUser struct {
	ID        json.Number `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	AvatarURL string      `json:"avatar_url"`
}

func (w wireUser) toDomain() domain.User {
	u := domain.User{
		ID:        w.ID.String(),
		Email:     w.Email,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		AvatarURL: w.AvatarURL,
	}
	if u.FirstName == "" && u.LastName == "" {
		u.FirstName = w.Username
	}
	return u
}

// Login exchanges credentials for a token pair. The credentials are sent with
// the email in the username position too, since the backend accepts either.
func (c *Client) Login(ctx context.Context, creds Credentials) (TokenPair, error) {
	payload := map[string]string{
		"email":    creds.Email,
		"username": creds.Email,
		"password": creds.Password,
	}

	resp, err := c.do(ctx, http.MethodPost, "/accounts/login/", payload, false)
	if err != nil {
		return TokenPair{}, err
	}

	var body struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := decodeJSON(resp, "login", &body); err != nil {
		return TokenPair{}, err
	}
	if body.Access == "" || body.Refresh == "" {
		return TokenPair{}, apperrors.Internal(errors.New("login response missing tokens"))
	}

	return TokenPair{Access: body.Access, Refresh: body.Refresh}, nil
}

// Logout tells the backend to blacklist the refresh token. A backend failure
// is reported but the caller should still drop local state; the session is
// over either way.
func (c *Client) Logout(ctx context.Context, refresh string) error {
	payload := map[string]string{"refresh": refresh}

	resp, err := c.do(ctx, http.MethodPost, "/accounts/logout/", payload, true)
	if err != nil {
		return err
	}
	return decodeJSON(resp, "logout", nil)
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/accounts/profile/", nil, true)
	if err != nil {
		return nil, err
	}

	var body wireUser
	if err := decodeJSON(resp, "profile", &body); err != nil {
		return nil, err
	}

	user := body.toDomain()
	return &user, nil
}

// refreshAccess exchanges the refresh token for a new access token.
func (c *Client) refreshAccess(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", apperrors.Unauthorized("session expired")
	}

	resp, err := c.do(ctx, http.MethodPost, "/accounts/token/refresh/", map[string]string{"refresh": refresh}, false)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		// A rejected refresh means the session is gone regardless of the
		// backend's exact status.
		_ = httpclient.ParseResponseError(resp, "token refresh")
		return "", apperrors.Unauthorized("session expired")
	}

	var body struct {
		Access string `json:"access"`
	}
	if err := decodeJSON(resp, "token refresh", &body); err != nil {
		return "", err
	}
	if body.Access == "" {
		return "", apperrors.Unauthorized("session expired")
	}
	return body.Access, nil
}
