package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/clientdesk/pkg/slogx"
)

// Principal is the account behind an authenticated request.
type Principal struct {
	ID       string
	Username string
	IsStaff  bool
	IsActive bool
}

// PrincipalLookup resolves a token subject to its current account state.
type PrincipalLookup interface {
	LookupPrincipal(ctx context.Context, userID string) (Principal, error)
}

// ErrUnknownPrincipal is returned by a PrincipalLookup when the subject no
// longer exists.
var ErrUnknownPrincipal = errors.New("httpx: unknown principal")

// RequireAdmin admits only active staff accounts. It must run after
// AuthnMiddleware. The account is re-read on every request so that
// deactivation or demotion takes effect before the access token expires.
func RequireAdmin(users PrincipalLookup) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := UserIDFromContext(ctx)
			if !ok {
				writeBearerError(w, "Authentication credentials were not provided.")
				return
			}

			p, err := users.LookupPrincipal(ctx, userID)
			switch {
			case errors.Is(err, ErrUnknownPrincipal):
				writeBearerError(w, "User not found")
				return
			case err != nil:
				slogx.FromContext(ctx).Error("principal lookup failed", "err", err)
				WriteError(w, http.StatusInternalServerError, "server_error", "internal server error")
				return
			case !p.IsActive:
				writeBearerError(w, "User is inactive")
				return
			case !p.IsStaff:
				WriteError(w, http.StatusForbidden, "permission_denied",
					"You do not have permission to perform this action.")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxKeyPrincipal, p)))
		})
	}
}

// RequireAnyScope the caller must have at least one of the provided scopes.
func RequireAnyScope(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, s := range required {
		want[s] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, s := range scopesFromCtx(r.Context()) {
				if _, ok := want[s]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeBearerScopeError(w, required...)
		})
	}
}

// RFC 6750 insufficient_scope challenge.
func writeBearerScopeError(w http.ResponseWriter, required ...string) {
	scope := strings.Join(required, " ")
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+scope+`"`)
	WriteError(w, http.StatusForbidden, "insufficient_scope", "token lacks scope: "+scope)
}
