package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/clientdesk/internal/clients/store"
)

// HousekeepingService purges refresh tokens past their expiry. It runs on
// demand from the flushexpiredtokens command. Blacklisted tokens that have
// not expired yet are kept so replays still fail as revoked.
type HousekeepingService struct {
	Store  store.Store
	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *HousekeepingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// FlushExpiredTokens deletes expired refresh tokens and reports how many went.
func (s *HousekeepingService) FlushExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, s.now())
	if err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
		return 0, err
	}

	s.Logger.Info("expired refresh tokens flushed", "deleted", n)
	return n, nil
}
