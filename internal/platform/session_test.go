package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newSessionServer(t *testing.T) (*httptest.Server, *Session) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
			})
		case "/auth/refresh":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["refresh_token"] != "refresh-1" {
				http.Error(w, "unknown refresh token", http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "access-2"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, discardLogger())
	return server, NewSession(client, "user@example.com", "secret", discardLogger())
}

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("authenticate stores the token pair", func(t *testing.T) {
		t.Parallel()
		_, session := newSessionServer(t)

		if session.Authenticated() {
			t.Fatalf("expected a fresh session to be unauthenticated")
		}
		if err := session.Authenticate(context.Background()); err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if !session.Authenticated() {
			t.Fatalf("expected the session to be authenticated after login")
		}
		if got := session.Headers()["Authorization"]; got != "Bearer access-1" {
			t.Fatalf("unexpected authorization header %q", got)
		}
	})

	t.Run("refresh replaces only the access token", func(t *testing.T) {
		t.Parallel()
		_, session := newSessionServer(t)
		if err := session.Authenticate(context.Background()); err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}

		if err := session.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}
		if got := session.Headers()["Authorization"]; got != "Bearer access-2" {
			t.Fatalf("expected refreshed access token, got %q", got)
		}
	})

	t.Run("refresh without a stored token fails", func(t *testing.T) {
		t.Parallel()
		_, session := newSessionServer(t)
		if err := session.Refresh(context.Background()); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("expected ErrAuthentication, got %v", err)
		}
	})

	t.Run("failed login surfaces the authentication sentinel", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad credentials", http.StatusForbidden)
		}))
		t.Cleanup(server.Close)

		client := NewClient(server.URL, time.Second, discardLogger())
		session := NewSession(client, "user@example.com", "wrong", discardLogger())
		if err := session.Authenticate(context.Background()); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("expected ErrAuthentication, got %v", err)
		}
		if session.Authenticated() {
			t.Fatalf("expected the session to stay unauthenticated")
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()
		_, session := newSessionServer(t)
		if err := session.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := session.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}
	})
}
