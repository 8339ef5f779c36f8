package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/stretchr/testify/require"
)

func TestHousekeeping_FlushExpiredTokens(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := newTokenService(t, st)
	seedUser(t, st, "admin", "correct horse", true, true)

	svc.Now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	stale, err := svc.Obtain(ctx, "admin", "correct horse")
	require.NoError(t, err)

	svc.Now = nil
	live, err := svc.Obtain(ctx, "admin", "correct horse")
	require.NoError(t, err)
	revoked, err := svc.Obtain(ctx, "admin", "correct horse")
	require.NoError(t, err)
	require.NoError(t, svc.Blacklist(ctx, revoked.Refresh))

	hk := &service.HousekeepingService{Store: st, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	n, err := hk.FlushExpiredTokens(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = hk.FlushExpiredTokens(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = svc.Refresh(ctx, stale.Refresh)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
	_, err = svc.Refresh(ctx, revoked.Refresh)
	require.ErrorIs(t, err, service.ErrInvalidRefresh, "blacklist survives the flush")
	_, err = svc.Refresh(ctx, live.Refresh)
	require.NoError(t, err)
}

func TestHousekeeping_FlushStoreError(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.Close())

	hk := &service.HousekeepingService{Store: st, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	_, err := hk.FlushExpiredTokens(context.Background())
	require.Error(t, err)
}
