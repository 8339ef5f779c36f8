package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/clientdesk/internal/clients/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Repositories hang off it so that a Tx exposes the same
// surface and nested transactions can be refused.
type Store interface {
	Users() Users
	Clients() Clients
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Tx and WithTx on it return sql.ErrTxDone.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Clients interface {
	// CreateClient inserts name, email and phone. Status starts active and
	// created_at is stamped by the database.
	CreateClient(ctx context.Context, c domain.Client) (domain.Client, error)

	// ListClients returns one page of clients, inactive ones included.
	ListClients(ctx context.Context, p ListClientsParams) ([]domain.Client, error)

	// CountClients counts the clients matching search.
	CountClients(ctx context.Context, search string) (int64, error)

	GetClientByID(ctx context.Context, id int64) (domain.Client, error)

	// UpdateClient writes the mutable columns of an already merged client.
	UpdateClient(ctx context.Context, c domain.Client) (domain.Client, error)

	// SoftDeleteClient marks the client inactive. Repeating it is harmless.
	SoftDeleteClient(ctx context.Context, id int64) (domain.Client, error)
}

type ListClientsParams struct {
	Search   string // case-insensitive substring of name or email; empty matches all
	Ordering Ordering
	Limit    int64
	Offset   int64
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	UpdatePasswordHash(ctx context.Context, userID, hash string) error

	// SetStaff grants or removes admin rights and reactivates the account.
	SetStaff(ctx context.Context, userID string, staff bool) error

	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token whatever its state.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken blacklists a token. It reports ErrNotFound when no
	// live token matched, so a concurrent rotation loses cleanly.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeUserRefreshTokens blacklists every token of a user, e.g. after a
	// password reset.
	RevokeUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteExpiredRefreshTokens removes tokens that expired before the
	// cutoff, revoked or not, and returns how many went.
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}
