package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/partydeck/partydeck-server/internal/domain"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	tokenKey    ctxKey = "token"
	clientIPKey ctxKey = "clientIP"
)

// getToken returns the bearer token sent with the request, or "".
func getToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// getClientIPFromContext returns the address recorded by requestContext.
func getClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// requestContext stores the bearer token and client IP in the request context.
// It never rejects a request; handlers that need an admin call requireAdmin.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), tokenKey, bearerToken(r))
		ctx = context.WithValue(ctx, clientIPKey, clientIP(r, s.cfg.Server.TrustedProxies))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin resolves the request's token to an admin or fails with 401.
func (s *Server) requireAdmin(ctx context.Context) (*domain.Admin, error) {
	return s.services.Auth.RequireAuth(ctx, getToken(ctx))
}
