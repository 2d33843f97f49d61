package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
)

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/accounts/login/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "login is unauthenticated")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "s3cret", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access": "acc", "refresh": "ref"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{})

	pair, err := client.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "s3cret"})

	require.NoError(t, err)
	assert.Equal(t, TokenPair{Access: "acc", Refresh: "ref"}, pair)
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "No active account found with the given credentials"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{})

	_, err := client.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "wrong"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "No active account found with the given credentials",
		apperrors.UserMessage(err, "fallback"))
}

func TestLogin_MissingTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{})

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "p"})

	assert.Error(t, err)
}

func TestProfile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/accounts/profile/", r.URL.Path)
		assert.Equal(t, "Bearer acc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 9, "email": "ada@example.com", "username": "ada",
			"first_name": "Ada", "last_name": "Lovelace",
			"avatar_url": "https://cdn.example.com/ada.png"
		}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "acc"}})

	user, err := client.Profile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "9", user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada Lovelace", user.FullName())
	assert.Equal(t, "https://cdn.example.com/ada.png", user.AvatarURL)
}

func TestProfile_UsernameFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 9, "email": "ada@example.com", "username": "ada"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "acc"}})

	user, err := client.Profile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ada", user.FirstName, "username stands in when the name is unset")
}

func TestLogout_SendsRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/accounts/logout/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ref", body["refresh"])

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "acc", Refresh: "ref"}})

	assert.NoError(t, client.Logout(context.Background(), "ref"))
}
