package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avqlab/mushrelay/internal/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	auth := NewAuth("secret")
	rr := httptest.NewRecorder()
	auth.RequireAuth(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRequireAuthAcceptsSignedToken(t *testing.T) {
	auth := NewAuth("secret")
	tok, err := auth.SignToken("admin@lab.example", time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	var gotEmail string
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := ClaimsFromContext(r.Context()); c != nil {
			gotEmail = c.Email
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || gotEmail != "admin@lab.example" {
		t.Fatalf("status=%d email=%q", rr.Code, gotEmail)
	}
}

func TestRequireAuthRejectsForeignSecret(t *testing.T) {
	other := NewAuth("other-secret")
	tok, _ := other.SignToken("admin@lab.example", time.Hour)
	auth := NewAuth("secret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	auth.RequireAuth(okHandler()).ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestLocaleFromHeader(t *testing.T) {
	var got string
	handler := Locale(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.5")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if got != "de" {
		t.Fatalf("locale = %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	rr := httptest.NewRecorder()
	CORS(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}

func TestNoStoreHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	NoStore(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("Cache-Control") == "" || rr.Header().Get("Pragma") != "no-cache" {
		t.Fatalf("missing no-store headers: %v", rr.Header())
	}
}

func TestRecovererConverts500(t *testing.T) {
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	handler := Recoverer(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	rr := httptest.NewRecorder()
	RequestID(log)(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id not set")
	}
}
