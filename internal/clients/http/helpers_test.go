package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/clientdesk/internal/clients/domain"
	clientshttp "github.com/aussiebroadwan/clientdesk/internal/clients/http"
	"github.com/aussiebroadwan/clientdesk/internal/clients/metrics"
	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store/drivers/sqlite"
	"github.com/aussiebroadwan/clientdesk/pkg/cryptox"
	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
	"github.com/aussiebroadwan/clientdesk/pkg/idx"
	"github.com/aussiebroadwan/clientdesk/pkg/jwtx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "http-test-secret-http-test-secret"
	testIssuer    = "clientdesk-test"
	adminUsername = "admin"
	adminPassword = "correct-horse-battery"
	testHost      = "example.com" // httptest.NewRequest default
)

// countingStore records every access to client data so tests can prove a
// request never reached the repository.
type countingStore struct {
	store.Store
	calls atomic.Int64
}

func (s *countingStore) Clients() store.Clients {
	s.calls.Add(1)
	return s.Store.Clients()
}

func (s *countingStore) Tx(ctx context.Context) (store.Tx, error) {
	s.calls.Add(1)
	return s.Store.Tx(ctx)
}

func (s *countingStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.calls.Add(1)
	return s.Store.WithTx(ctx, fn)
}

type testEnv struct {
	store    *countingStore
	signer   *jwtx.HS256
	tokens   *service.TokenService
	handler  http.Handler
	registry *prometheus.Registry
}

func relaxedLimits() httpx.RateLimits {
	generous := httpx.RateLimitConfig{Requests: 10_000, WindowSec: 60, Burst: 10_000}
	return httpx.RateLimits{Strict: generous, Moderate: generous, Lenient: generous, Public: generous}
}

func newEnv(t *testing.T, mutate ...func(*clientshttp.Options)) *testEnv {
	t.Helper()

	raw, err := sqlite.NewStore(filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	require.NoError(t, raw.ApplyMigrations())
	st := &countingStore{Store: raw}

	hs, err := jwtx.NewHS256(testSecret, testIssuer)
	require.NoError(t, err)

	tokens := &service.TokenService{
		Store:      st,
		Signer:     hs,
		Verifier:   hs,
		Issuer:     testIssuer,
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}

	opts := clientshttp.Options{
		AllowedHosts: []string{testHost},
		RateLimits:   relaxedLimits(),
		Pagination:   clientshttp.Pagination{DefaultLimit: 10, MaxLimit: 100},
		BuildVersion: "test",
	}
	for _, m := range mutate {
		m(&opts)
	}

	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := clientshttp.NewRouter(hs, st, opts, logger)
	r.ClientService = &service.ClientService{Store: st}
	r.TokenService = tokens
	r.UserService = &service.UserService{Store: st}
	r.Metrics = metrics.NewCollector(reg)
	r.Gatherer = reg
	r.ApplyRoutes()

	env := &testEnv{store: st, signer: hs, tokens: tokens, handler: r, registry: reg}
	env.seedUser(t, adminUsername, adminPassword, true)
	return env
}

func (e *testEnv) seedUser(t *testing.T, username, password string, staff bool) domain.User {
	t.Helper()
	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		IsStaff:      staff,
		IsActive:     true,
	}
	require.NoError(t, e.store.Users().CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	pair, err := e.tokens.Obtain(context.Background(), adminUsername, adminPassword)
	require.NoError(t, err)
	return pair.Access
}

func httpRequest(method, target, body, token string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.10:40000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// do sends a request through the full middleware chain. A non-empty body
// is sent as JSON.
func (e *testEnv) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httpRequest(method, target, body, token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return serve(e, req)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
