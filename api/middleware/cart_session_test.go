package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sipeslibya/storefront-backend/pkg/config"
)

func cartSessionHandler(t *testing.T, captured *string) http.Handler {
	t.Helper()
	mw := CartSession(config.CartConfig{SessionTTL: time.Hour})
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = CartSessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestCartSessionIssuesFreshToken(t *testing.T) {
	var captured string
	handler := cartSessionHandler(t, &captured)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("expected a uuid session token, got %q", captured)
	}
	if got := rec.Header().Get("X-Cart-Session"); got != captured {
		t.Fatalf("header echo mismatch: %q vs %q", got, captured)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sipes_cart" {
		t.Fatalf("expected sipes_cart cookie, got %v", cookies)
	}
	if cookies[0].Value != captured {
		t.Fatalf("cookie value mismatch: %q vs %q", cookies[0].Value, captured)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("cart cookie must be http-only")
	}
}

func TestCartSessionPrefersHeaderToken(t *testing.T) {
	var captured string
	handler := cartSessionHandler(t, &captured)

	token := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Session", token)
	req.AddCookie(&http.Cookie{Name: "sipes_cart", Value: uuid.NewString()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != token {
		t.Fatalf("expected header token %q, got %q", token, captured)
	}
}

func TestCartSessionFallsBackToCookie(t *testing.T) {
	var captured string
	handler := cartSessionHandler(t, &captured)

	token := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "sipes_cart", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != token {
		t.Fatalf("expected cookie token %q, got %q", token, captured)
	}
}

func TestCartSessionReplacesMalformedToken(t *testing.T) {
	var captured string
	handler := cartSessionHandler(t, &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Session", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured == "not-a-uuid" {
		t.Fatalf("malformed token must be replaced")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("expected a uuid replacement, got %q", captured)
	}
}
