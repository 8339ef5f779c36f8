package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
	"github.com/aussiebroadwan/clientdesk/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type principals map[string]httpx.Principal

func (p principals) LookupPrincipal(_ context.Context, id string) (httpx.Principal, error) {
	if id == "broken" {
		return httpx.Principal{}, errors.New("db down")
	}
	v, ok := p[id]
	if !ok {
		return httpx.Principal{}, httpx.ErrUnknownPrincipal
	}
	return v, nil
}

func signToken(t *testing.T, sub string, scopes []string, ttl time.Duration) string {
	t.Helper()
	hs, err := jwtx.NewHS256(testSecret, "clientdesk")
	require.NoError(t, err)
	tok, err := hs.Sign(jwtx.NewAccessClaims(sub, "sid", sub, scopes, ttl, "clientdesk", time.Now()))
	require.NoError(t, err)
	return tok
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestAdminGate(t *testing.T) {
	hs, err := jwtx.NewHS256(testSecret, "clientdesk")
	require.NoError(t, err)

	users := principals{
		"admin":    {ID: "admin", IsStaff: true, IsActive: true},
		"staffoff": {ID: "staffoff", IsStaff: true, IsActive: false},
		"plain":    {ID: "plain", IsStaff: false, IsActive: true},
	}

	var reached bool
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		p, ok := httpx.PrincipalFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "admin", p.ID)
		w.WriteHeader(http.StatusOK)
	})
	h := httpx.Chain(final,
		httpx.AuthnMiddleware(hs),
		httpx.RequireAdmin(users),
		httpx.RequireAnyScope("clients:read"),
	)

	allScopes := []string{"clients:read", "clients:write"}
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, "admin", allScopes, -time.Minute), http.StatusUnauthorized},
		{"unknown user", "Bearer " + signToken(t, "ghost", allScopes, time.Minute), http.StatusUnauthorized},
		{"inactive user", "Bearer " + signToken(t, "staffoff", allScopes, time.Minute), http.StatusUnauthorized},
		{"lookup failure", "Bearer " + signToken(t, "broken", allScopes, time.Minute), http.StatusInternalServerError},
		{"not staff", "Bearer " + signToken(t, "plain", nil, time.Minute), http.StatusForbidden},
		{"missing scope", "Bearer " + signToken(t, "admin", []string{"clients:write"}, time.Minute), http.StatusForbidden},
		{"admin", "Bearer " + signToken(t, "admin", allScopes, time.Minute), http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/clients/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.want, rec.Code)
			require.Equal(t, tc.want == http.StatusOK, reached)
			if tc.want == http.StatusUnauthorized {
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
				require.Contains(t, rec.Body.String(), `"error":"invalid_token"`)
			}
		})
	}
}

