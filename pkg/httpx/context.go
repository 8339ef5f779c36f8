package httpx

import (
	"context"

	"github.com/aussiebroadwan/clientdesk/pkg/jwtx"
)

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyScopes
	ctxKeyClaims
	ctxKeyPrincipal
)

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, ctxKeyScopes, c.Scopes)
	ctx = context.WithValue(ctx, ctxKeyClaims, c)
	return ctx
}

// UserIDFromContext returns the bearer's subject set by AuthnMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyUserID).(string)
	return v, ok && v != ""
}

func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	v, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return v, ok
}

// PrincipalFromContext returns the user loaded by RequireAdmin.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	v, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return v, ok
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(ctxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
