package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/clientdesk/internal/clients/domain"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store"
	"github.com/aussiebroadwan/clientdesk/pkg/cryptox"
	"github.com/aussiebroadwan/clientdesk/pkg/idx"
	"github.com/aussiebroadwan/clientdesk/pkg/jwtx"
	"github.com/aussiebroadwan/clientdesk/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidToken       = errors.New("invalid_token")
)

// TokenService issues access/refresh pairs. Access tokens are HS256 JWTs;
// refresh tokens are opaque and stored only as fingerprints.
type TokenService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Obtain exchanges a username and password for a new session. Unknown users,
// wrong passwords and inactive accounts are indistinguishable to the caller.
func (s *TokenService) Obtain(ctx context.Context, username, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		l.Info("token obtain for unknown user")
		return domain.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("token obtain with bad password", "user_id", u.ID)
		return domain.TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	sessionID := idx.New().String()
	access, err := s.signAccess(u, sessionID, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	var refresh string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateLastLogin(ctx, u.ID, now); err != nil {
			return err
		}
		refresh, err = s.mintRefresh(ctx, tx, u.ID, sessionID, now)
		return err
	})
	if err != nil {
		return domain.TokenPair{}, err
	}

	l.Info("token pair issued", "user_id", u.ID, "sid", sessionID)
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh rotates a refresh token: the presented token is blacklisted and a
// new one is issued for the same session. Presenting a rotated-out token
// fails.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (domain.TokenPair, error) {
	now := s.now()
	fp := cryptox.FingerprintToken(refreshOpaque)

	var pair domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidRefresh
		}
		if err != nil {
			return err
		}
		if !rt.Usable(now) {
			slogx.FromContext(ctx).Warn("refresh with unusable token",
				"user_id", rt.UserID, "sid", rt.SessionID, "revoked", rt.Revoked)
			return ErrInvalidRefresh
		}

		u, err := tx.Users().GetUserByID(ctx, rt.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidRefresh
		}
		if err != nil {
			return err
		}
		if !u.IsActive {
			return ErrInvalidRefresh
		}

		// Lost a race with a concurrent rotation of the same token.
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); errors.Is(err, store.ErrNotFound) {
			return ErrInvalidRefresh
		} else if err != nil {
			return err
		}

		pair.Refresh, err = s.mintRefresh(ctx, tx, u.ID, rt.SessionID, now)
		if err != nil {
			return err
		}
		pair.Access, err = s.signAccess(u, rt.SessionID, now)
		return err
	})
	if err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

// Blacklist revokes a live refresh token, ending its session.
func (s *TokenService) Blacklist(ctx context.Context, refreshOpaque string) error {
	fp := cryptox.FingerprintToken(refreshOpaque)

	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidRefresh
	}
	if err != nil {
		return err
	}
	if !rt.Usable(s.now()) {
		return ErrInvalidRefresh
	}

	err = s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidRefresh
	}
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("refresh token blacklisted", "user_id", rt.UserID, "sid", rt.SessionID)
	return nil
}

// Verify validates an access token.
func (s *TokenService) Verify(token string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}

func (s *TokenService) signAccess(u domain.User, sessionID string, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		u.ID,
		sessionID,
		u.Username,
		u.Scopes(),
		s.AccessTTL,
		s.Issuer,
		now,
	)
	return s.Signer.Sign(claims)
}

func (s *TokenService) mintRefresh(
	ctx context.Context,
	tx store.Tx,
	userID, sessionID string,
	now time.Time,
) (string, error) {
	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	err = tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(opaque),
		SessionID: sessionID,
		ExpiresAt: now.Add(s.RefreshTTL),
	})
	if err != nil {
		return "", err
	}
	return opaque, nil
}
