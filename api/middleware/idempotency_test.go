package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type memoryIdempotencyStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{values: map[string]string{}}
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.values[key]; exists {
		return false, nil
	}
	s.values[key] = fmt.Sprint(value)
	return true, nil
}

func (s *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (s *memoryIdempotencyStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func checkoutTestHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"order_id":"abc"}}`))
	})
}

func checkoutRequest(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader([]byte(body)))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req.WithContext(WithCartSession(req.Context(), "session-1"))
}

func TestIdempotencyRequiresKeyOnCheckout(t *testing.T) {
	calls := 0
	handler := Idempotency(newMemoryIdempotencyStore(), nil)(checkoutTestHandler(&calls))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, checkoutRequest("", `{"name":"x"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run without a key")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	calls := 0
	store := newMemoryIdempotencyStore()
	handler := Idempotency(store, nil)(checkoutTestHandler(&calls))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest("key-1", `{"name":"x"}`))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest("key-1", `{"name":"x"}`))
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", second.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Fatalf("expected exactly one handler invocation, got %d", calls)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	calls := 0
	handler := Idempotency(newMemoryIdempotencyStore(), nil)(checkoutTestHandler(&calls))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest("key-1", `{"name":"x"}`))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest("key-1", `{"name":"y"}`))

	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", second.Code)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one handler invocation, got %d", calls)
	}
}

func TestIdempotencyScopesKeysPerCartSession(t *testing.T) {
	calls := 0
	store := newMemoryIdempotencyStore()
	handler := Idempotency(store, nil)(checkoutTestHandler(&calls))

	reqA := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader([]byte(`{"name":"x"}`)))
	reqA.Header.Set("Idempotency-Key", "key-1")
	reqA = reqA.WithContext(WithCartSession(reqA.Context(), "session-a"))
	handler.ServeHTTP(httptest.NewRecorder(), reqA)

	reqB := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader([]byte(`{"name":"x"}`)))
	reqB.Header.Set("Idempotency-Key", "key-1")
	reqB = reqB.WithContext(WithCartSession(reqB.Context(), "session-b"))
	handler.ServeHTTP(httptest.NewRecorder(), reqB)

	if calls != 2 {
		t.Fatalf("distinct sessions must not share records, got %d calls", calls)
	}
}

// mountedCheckoutRouter wires Idempotency the way the api router does: via
// r.Use on a sub-router, where the middleware runs before the leaf route is
// matched. The rules must therefore fire on the raw URL path, not on the chi
// route pattern, which is still the partial "/api/v1/*" at that point.
func mountedCheckoutRouter(store *memoryIdempotencyStore, calls *int) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(WithCartSession(req.Context(), "session-1")))
			})
		})
		r.Use(Idempotency(store, nil))
		r.Post("/checkout", func(w http.ResponseWriter, req *http.Request) {
			*calls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data":{"order_id":"abc"}}`))
		})
	})
	return r
}

func TestIdempotencyFiresThroughMountedRouter(t *testing.T) {
	calls := 0
	router := mountedCheckoutRouter(newMemoryIdempotencyStore(), &calls)

	noKey := httptest.NewRecorder()
	router.ServeHTTP(noKey, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader([]byte(`{"name":"x"}`))))
	if noKey.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a key, got %d", noKey.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run without a key")
	}

	keyed := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader([]byte(body)))
		req.Header.Set("Idempotency-Key", "key-1")
		return req
	}

	first := httptest.NewRecorder()
	router.ServeHTTP(first, keyed(`{"name":"x"}`))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, keyed(`{"name":"x"}`))
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", second.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Fatalf("a double-submitted checkout must reach the handler once, got %d", calls)
	}
}

func TestIdempotencySkipsUnlistedRoutes(t *testing.T) {
	calls := 0
	handler := Idempotency(newMemoryIdempotencyStore(), nil)(checkoutTestHandler(&calls))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if calls != 2 {
		t.Fatalf("unlisted routes must pass through, got %d calls", calls)
	}
}
