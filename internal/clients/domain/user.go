package domain

import "time"

// Scopes carried by access tokens minted for staff accounts.
const (
	ScopeClientsRead  = "clients:read"
	ScopeClientsWrite = "clients:write"
)

type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2id PHC string
	IsStaff      bool
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Scopes returns the access-token scopes this account is entitled to.
func (u User) Scopes() []string {
	if !u.IsStaff {
		return nil
	}
	return []string{ScopeClientsRead, ScopeClientsWrite}
}
