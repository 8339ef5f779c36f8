package domain

import "time"

type ClientStatus string

const (
	StatusActive   ClientStatus = "active"
	StatusInactive ClientStatus = "inactive"
)

func (s ClientStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Client is a customer record. ID and CreatedAt are assigned by the store and
// never change afterwards.
type Client struct {
	ID        int64
	Name      string
	Email     string
	Phone     *string // nil when not provided
	Status    ClientStatus
	CreatedAt time.Time
}

func (c Client) IsActive() bool { return c.Status == StatusActive }
