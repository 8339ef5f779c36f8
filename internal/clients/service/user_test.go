package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/aussiebroadwan/clientdesk/pkg/cryptox"
	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
	"github.com/aussiebroadwan/clientdesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAdmin(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := &service.UserService{Store: st}

	t.Run("validation", func(t *testing.T) {
		_, _, err := svc.CreateAdmin(ctx, service.AdminInput{Username: "bad name!", Password: "short"})
		ve, ok := service.IsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "username")
		require.Contains(t, ve.Fields, "password")
	})

	u, created, err := svc.CreateAdmin(ctx, service.AdminInput{Username: "root", Password: "first password"})
	require.NoError(t, err)
	require.True(t, created)
	require.True(t, u.IsStaff)
	require.True(t, u.IsActive)

	t.Run("existing user is promoted and re-keyed", func(t *testing.T) {
		seedUser(t, st, "plain", "old password", false, false)

		u, created, err := svc.CreateAdmin(ctx, service.AdminInput{Username: "plain", Password: "new password"})
		require.NoError(t, err)
		require.False(t, created)

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.IsStaff)
		require.True(t, got.IsActive)
		require.NoError(t, cryptox.VerifyPassword("new password", got.PasswordHash))
	})
}

func TestUserService_LookupPrincipal(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := &service.UserService{Store: st}
	u := seedUser(t, st, "admin", "correct horse", true, true)

	p, err := svc.LookupPrincipal(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, httpx.Principal{ID: u.ID, Username: "admin", IsStaff: true, IsActive: true}, p)

	_, err = svc.LookupPrincipal(ctx, "missing")
	require.ErrorIs(t, err, httpx.ErrUnknownPrincipal)

	_, err = svc.LookupPrincipal(ctx, idx.New().String())
	require.ErrorIs(t, err, httpx.ErrUnknownPrincipal)
}

func TestUserService_EnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := &service.UserService{Store: st}

	created, err := svc.EnsureBootstrapAdmin(ctx, "", "")
	require.NoError(t, err)
	require.False(t, created)

	created, err = svc.EnsureBootstrapAdmin(ctx, "admin", "bootstrap password")
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.EnsureBootstrapAdmin(ctx, "other", "bootstrap password")
	require.NoError(t, err)
	require.False(t, created, "bootstrap only runs on an empty user table")
}
