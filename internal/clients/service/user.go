package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/clientdesk/internal/clients/domain"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store"
	"github.com/aussiebroadwan/clientdesk/pkg/cryptox"
	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
	"github.com/aussiebroadwan/clientdesk/pkg/idx"
	"github.com/aussiebroadwan/clientdesk/pkg/slogx"
)

type UserService struct {
	Store store.Store
}

// AdminInput is the payload of the createadmin command.
type AdminInput struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LookupPrincipal satisfies httpx.PrincipalLookup for the admin gate.
// Subjects that are not user ids are rejected without a query.
func (s *UserService) LookupPrincipal(ctx context.Context, userID string) (httpx.Principal, error) {
	id, err := idx.Parse(userID)
	if err != nil {
		return httpx.Principal{}, httpx.ErrUnknownPrincipal
	}

	u, err := s.Store.Users().GetUserByID(ctx, id.String())
	if errors.Is(err, store.ErrNotFound) {
		return httpx.Principal{}, httpx.ErrUnknownPrincipal
	}
	if err != nil {
		return httpx.Principal{}, err
	}
	return httpx.Principal{
		ID:       u.ID,
		Username: u.Username,
		IsStaff:  u.IsStaff,
		IsActive: u.IsActive,
	}, nil
}

// CreateAdmin creates an active staff account. When the username already
// exists the account is promoted, reactivated and given the new password, and
// its refresh tokens are revoked. created reports which path was taken.
func (s *UserService) CreateAdmin(ctx context.Context, in AdminInput) (u domain.User, created bool, err error) {
	if err := validateStruct(in); err != nil {
		return domain.User{}, false, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("hash admin password: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().GetUserByUsername(ctx, in.Username)
		switch {
		case errors.Is(err, store.ErrNotFound):
			u = domain.User{
				ID:           idx.New().String(),
				Username:     in.Username,
				PasswordHash: hash,
				IsStaff:      true,
				IsActive:     true,
			}
			created = true
			return tx.Users().CreateUser(ctx, u)
		case err != nil:
			return err
		}

		if err := tx.Users().UpdatePasswordHash(ctx, existing.ID, hash); err != nil {
			return err
		}
		if err := tx.Users().SetStaff(ctx, existing.ID, true); err != nil {
			return err
		}
		if err := tx.RefreshTokens().RevokeUserRefreshTokens(ctx, existing.ID); err != nil {
			return err
		}
		u = existing
		u.PasswordHash = hash
		u.IsStaff = true
		u.IsActive = true
		return nil
	})
	if err != nil {
		return domain.User{}, false, err
	}

	slogx.FromContext(ctx).Info("admin account saved", "user_id", u.ID, "username", u.Username, "created", created)
	return u, created, nil
}

// EnsureBootstrapAdmin creates the configured admin when the user table is
// empty. It does nothing when either credential is unset or users exist.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, nil
	}

	_, created, err := s.CreateAdmin(ctx, AdminInput{Username: username, Password: password})
	return created, err
}
