package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clawdbot/gateway/internal/httputil"
)

func newHandler(token string) (http.Handler, *bool) {
	called := new(bool)
	mw := Middleware(func() string { return token })
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})), called
}

func TestMiddleware_ValidToken(t *testing.T) {
	handler, called := newHandler("secret")

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !*called {
		t.Error("expected next handler to be called")
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	handler, called := newHandler("secret")

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if *called {
		t.Error("next handler must not run without auth")
	}

	var apiErr httputil.APIError
	if err := json.NewDecoder(rec.Body).Decode(&apiErr); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if apiErr.Error.Type != "authentication_error" {
		t.Errorf("expected authentication_error, got %q", apiErr.Error.Type)
	}
}

func TestMiddleware_WrongToken(t *testing.T) {
	handler, called := newHandler("secret")

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if *called {
		t.Error("next handler must not run with a wrong token")
	}
}

func TestMiddleware_NotBearerFormat(t *testing.T) {
	handler, _ := newHandler("secret")

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	req.Header.Set("Authorization", "Basic c2VjcmV0")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_NoTokenConfigured(t *testing.T) {
	handler, called := newHandler("")

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 when no token configured, got %d", rec.Code)
	}
	if *called {
		t.Error("next handler must not run when no token is configured")
	}
}

func TestMiddleware_CallerInContext(t *testing.T) {
	var gotCaller *Caller
	mw := Middleware(func() string { return "secret" })
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCaller, _ = CallerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	req.Header.Set("Authorization", "Bearer secret")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotCaller == nil {
		t.Fatal("expected caller in context")
	}
	if gotCaller.ID == "" || gotCaller.ID == "secret" {
		t.Errorf("caller id must be derived, not the raw token: %q", gotCaller.ID)
	}
}
