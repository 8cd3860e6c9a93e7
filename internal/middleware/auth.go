package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"curriculum/internal/auth"
	"curriculum/internal/httputil"
)

// AuthMiddleware requires a valid bearer token and stores the user ID in
// the request context.
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("request rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			r = httputil.WithUserID(r, claims.GetUserID())
			next.ServeHTTP(w, r)
		})
	}
}

// DevAuthMiddleware sets a fixed user ID. Used in development when no JWKS
// URL is configured.
func DevAuthMiddleware(devUserID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = httputil.WithUserID(r, devUserID)
			next.ServeHTTP(w, r)
		})
	}
}
