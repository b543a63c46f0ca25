package server

import (
	"context"
	"net/http"
	"strings"
)

// bearerTokenKey is the context key for the caller's bearer token.
type bearerTokenKey struct{}

// ContextWithBearerToken returns a new context carrying token.
func ContextWithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey{}, token)
}

// BearerTokenFromContext returns the caller's bearer token, if one was attached.
func BearerTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerTokenKey{}).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// BearerTokenFromHeader strips a leading "Bearer " from an Authorization
// header value. A value without the prefix is returned unchanged, so that the
// upstream API decides whether it is acceptable.
func BearerTokenFromHeader(authorization string) string {
	return strings.TrimPrefix(strings.TrimSpace(authorization), "Bearer ")
}

// WithBearerToken attaches the inbound Authorization token to the request
// context so that tool handlers can forward it upstream. The token is
// neither validated nor logged.
func WithBearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := BearerTokenFromHeader(r.Header.Get("Authorization")); token != "" {
			r = r.WithContext(ContextWithBearerToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
