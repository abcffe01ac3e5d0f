package platform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	t.Run("returns the issued token pair", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["email"] != "user@example.com" || body["password"] != "secret" {
				t.Errorf("unexpected credentials payload: %v", body)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second, discardLogger())
		pair, err := client.Login(context.Background(), "user@example.com", "secret")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if pair.AccessToken != "access-1" || pair.RefreshToken != "refresh-1" {
			t.Fatalf("unexpected token pair: %+v", pair)
		}
	})

	t.Run("maps rejection to the authentication sentinel", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second, discardLogger())
		if _, err := client.Login(context.Background(), "user@example.com", "wrong"); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("expected ErrAuthentication, got %v", err)
		}
	})
}

func TestClient_FetchClasses(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.January, 2, 15, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	t.Run("sends the window and bearer header", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("start_date"); got != start.Format(time.RFC3339) {
				t.Errorf("unexpected start_date %q", got)
			}
			if got := r.URL.Query().Get("end_date"); got != end.Format(time.RFC3339) {
				t.Errorf("unexpected end_date %q", got)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
				t.Errorf("unexpected authorization header %q", got)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"classes": []map[string]any{
					{"id": "class-1", "name": "Yoga Flow", "available_slots": 3, "total_slots": 20},
				},
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second, discardLogger())
		records, err := client.FetchClasses(context.Background(), start, end, map[string]string{"Authorization": "Bearer token-1"})
		if err != nil {
			t.Fatalf("FetchClasses failed: %v", err)
		}
		if len(records) != 1 || records[0].ID != "class-1" || records[0].AvailableSlots != 3 {
			t.Fatalf("unexpected records: %+v", records)
		}
	})

	t.Run("maps 401 to the token expiry sentinel", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "token expired", http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second, discardLogger())
		if _, err := client.FetchClasses(context.Background(), start, end, nil); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("reports other failures plainly", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second, discardLogger())
		_, err := client.FetchClasses(context.Background(), start, end, nil)
		if err == nil {
			t.Fatalf("expected an error on 503")
		}
		if errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrAuthentication) {
			t.Fatalf("expected a plain error, got sentinel %v", err)
		}
	})
}

func TestClient_BookClass(t *testing.T) {
	t.Parallel()

	t.Run("treats 201 as confirmed", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["class_id"] != "class-1" {
				t.Errorf("unexpected class_id %q", body["class_id"])
			}
			if body["client_reference"] == "" {
				t.Errorf("expected a client reference on the booking request")
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second, discardLogger())
		if err := client.BookClass(context.Background(), "class-1", "ref-1", nil); err != nil {
			t.Fatalf("BookClass failed: %v", err)
		}
	})

	t.Run("maps 401 to the token expiry sentinel", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "token expired", http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second, discardLogger())
		if err := client.BookClass(context.Background(), "class-1", "ref-1", nil); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("reports rejection statuses", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "class is full", http.StatusConflict)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second, discardLogger())
		if err := client.BookClass(context.Background(), "class-1", "ref-1", nil); err == nil {
			t.Fatalf("expected an error on 409")
		}
	})
}
