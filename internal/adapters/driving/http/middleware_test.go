package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edutech/edutech-core/internal/core/domain"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"valid bearer token", "Bearer abc123", "abc123"},
		{"bearer with extra spaces", "Bearer   token-with-spaces   ", "token-with-spaces"},
		{"lowercase bearer", "bearer token123", "token123"},
		{"empty header", "", ""},
		{"no bearer prefix", "token123", ""},
		{"basic auth", "Basic dXNlcjpwYXNz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if result := extractBearerToken(req); result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestGetAuthContext(t *testing.T) {
	if GetAuthContext(context.Background()) != nil {
		t.Error("expected nil for context without auth")
	}

	authCtx := &domain.AuthContext{UserID: 7, Email: "a@b.c", SessionID: "s"}
	ctx := context.WithValue(context.Background(), authContextKey, authCtx)
	if got := GetAuthContext(ctx); got == nil || got.UserID != 7 {
		t.Errorf("expected auth context for user 7, got %+v", got)
	}

	ctx = context.WithValue(context.Background(), authContextKey, "not-an-auth-context")
	if GetAuthContext(ctx) != nil {
		t.Error("expected nil for wrong value type")
	}
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	auth := &mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			switch token {
			case "valid":
				return &domain.AuthContext{UserID: 1, SessionID: "s1"}, nil
			case "expired":
				return nil, domain.ErrTokenExpired
			case "gone":
				return nil, domain.ErrSessionNotFound
			default:
				return nil, domain.ErrTokenInvalid
			}
		},
	}

	var seen *domain.AuthContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAuthContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := NewAuthMiddleware(auth).Authenticate(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"missing token", "", http.StatusUnauthorized, "missing authorization token"},
		{"expired", "Bearer expired", http.StatusUnauthorized, "token expired"},
		{"session gone", "Bearer gone", http.StatusUnauthorized, "session not found"},
		{"invalid", "Bearer junk", http.StatusUnauthorized, "invalid token"},
		{"valid", "Bearer valid", http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantError != "" {
				if got := decodeError(t, rec); got != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, got)
				}
				return
			}
			if seen == nil || seen.UserID != 1 {
				t.Errorf("expected auth context to reach handler, got %+v", seen)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := NewRecoveryMiddleware(nil).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestLoggingMiddleware_CapturesStatus(t *testing.T) {
	handler := NewLoggingMiddleware(nil).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rec.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := NewCORSMiddleware([]string{"https://app.example.com"}).Handler(next)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Errorf("expected origin echoed, got %q", got)
		}
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no CORS header, got %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})
}
