package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServiceKeyGate(t *testing.T) {
	srv := buildTestServer(t)

	t.Run("missing key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/popular", nil)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/popular", nil)
		req.Header.Set("X-API-KEY", "not-the-key")
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("valid key", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/movies/popular", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
		}
	})
}

func TestRoutesMountUnderAPIPrefix(t *testing.T) {
	srv := buildTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/movies/popular", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unprefixed route status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/movies/popular", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("prefixed route status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestSessionGate(t *testing.T) {
	srv := buildTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/favorites", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/favorites", "not.a.jwt", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, _ := registerTestUser(t, srv)
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/favorites", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
		}
	})
}
