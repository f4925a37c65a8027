package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/clemente-pps/flixfinder/internal/auth"
)

type ctxKey int

const claimsKey ctxKey = iota

// requireServiceKey gates every API route behind the static service key.
// A missing key yields 401, a wrong key 403.
func (s *Server) requireServiceKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-KEY")
		if key == "" {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing API key")
			return
		}
		if key != s.cfg.APIKey {
			s.respondError(w, http.StatusForbidden, "FORBIDDEN", "Invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSession validates the bearer token and stashes the claims in the
// request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
		claims, err := s.authSvc.VerifyToken(token)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}
