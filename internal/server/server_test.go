package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/ytsync/internal/shared"
	"golang.org/x/oauth2"
)

// route is a minimal [Handler] for router tests.
type route struct {
	paths []string
	fn    http.HandlerFunc
}

func (r route) Routes() []string { return r.paths }

func (r route) ServeHTTP(w http.ResponseWriter, req *http.Request) { r.fn(w, req) }

func TestBasicRouter(t *testing.T) {
	t.Run("serves registered routes, GET only", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(route{paths: []string{"/ping"}, fn: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("expected 200 pong, got %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("middleware ordering", func(t *testing.T) {
		router := NewBasicRouter()
		var order []string

		appendMiddleware := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router.Use(appendMiddleware("first"), appendMiddleware("second"))
		router.Handler(route{paths: []string{"/x"}, fn: func(w http.ResponseWriter, r *http.Request) {}})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})

	t.Run("request logger passes through", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(RequestLogger(shared.NewLogger(io.Discard)))
		router.Handler(route{paths: []string{"/y"}, fn: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/y", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})
}

func TestOAuthHandler(t *testing.T) {
	config := NewGoogleConfig("client", "secret", "http://localhost:8216/callback")

	t.Run("rejects mismatched state", func(t *testing.T) {
		handler := NewOAuthHandler(config, "expected-state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=abc", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		select {
		case result := <-handler.Result():
			if result.Error() == nil {
				t.Error("expected an error result")
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for result")
		}
	})

	t.Run("surfaces provider error when code missing", func(t *testing.T) {
		handler := NewOAuthHandler(config, "s")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&error=access_denied", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected an error result")
		}
	})

	t.Run("second callback is rejected", func(t *testing.T) {
		handler := NewOAuthHandler(config, "s")

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=abc", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected replay to be rejected, got %d", rec.Code)
		}
	})
}

func TestTokenStore(t *testing.T) {
	t.Run("round-trips a token", func(t *testing.T) {
		store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))

		token := &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(time.Hour).UTC(),
		}
		if err := store.Save(token); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
			t.Errorf("unexpected token: %+v", loaded)
		}
	})

	t.Run("missing file maps to not authenticated", func(t *testing.T) {
		store := NewTokenStore(filepath.Join(t.TempDir(), "missing.json"))

		if _, err := store.Load(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}
