package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/clientdesk/internal/clients/domain"
	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store/drivers/sqlite"
	"github.com/aussiebroadwan/clientdesk/pkg/cryptox"
	"github.com/aussiebroadwan/clientdesk/pkg/idx"
	"github.com/aussiebroadwan/clientdesk/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-test-secret-test-secret"
	testIssuer = "clientdesk-test"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTokenService(t *testing.T, st store.Store) *service.TokenService {
	t.Helper()
	hs, err := jwtx.NewHS256(testSecret, testIssuer)
	require.NoError(t, err)
	return &service.TokenService{
		Store:      st,
		Signer:     hs,
		Verifier:   hs,
		Issuer:     testIssuer,
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
}

func seedUser(t *testing.T, st store.Store, username, password string, staff, active bool) domain.User {
	t.Helper()
	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		IsStaff:      staff,
		IsActive:     active,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.ClientStatus) *domain.ClientStatus { return &s }
