package httpx

import (
	"context"
	"net/http"

	"github.com/essivi/backoffice/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyAccountID ctxKey = "account_id"
	CtxKeyClaims    ctxKey = "claims"
	CtxKeyClientIP  ctxKey = "client_ip"
)

// ContextWithClaims injects verified token claims for downstream handlers.
func ContextWithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyAccountID, c.Subject)
	return context.WithValue(ctx, CtxKeyClaims, c)
}

// ClaimsFromContext returns the claims attached by AuthnMiddleware, if any.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

// AccountIDFromContext returns the authenticated account id, or "".
func AccountIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyAccountID).(string); ok {
		return v
	}
	return ""
}

// ContextWithClientIP stores the caller's address for audit trails.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, CtxKeyClientIP, ip)
}

// ClientIPFromContext returns the caller's address, or "".
func ClientIPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyClientIP).(string); ok {
		return v
	}
	return ""
}

// ClientIPMiddleware records the request source address in the context so
// services can attach it to audit entries.
func ClientIPMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(
				ContextWithClientIP(r.Context(), IPKeyExtractor(r))))
		})
	}
}
