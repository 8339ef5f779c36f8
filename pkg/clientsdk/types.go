package clientsdk

import "time"

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned with 400 when input fails validation.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Token Types
// ============================================================================

type TokenObtainRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is returned by the obtain and refresh endpoints. Refresh tokens
// rotate: the refresh token that was presented is no longer usable.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type TokenRefreshRequest struct {
	Refresh string `json:"refresh"`
}

type TokenVerifyRequest struct {
	Token string `json:"token"`
}

// EmptyResponse is the `{}` body of blacklist and verify.
type EmptyResponse struct{}

// ============================================================================
// Client Types
// ============================================================================

type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateClientRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// UpdateClientRequest is a partial update; nil fields are not sent. An empty
// Phone clears the stored phone number.
type UpdateClientRequest struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Status *string `json:"status,omitempty"`
}

type UpdateClientResponse struct {
	Message string `json:"message"`
	Client  Client `json:"client"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ClientList is a limit/offset page. Next and Previous are absolute URLs, or
// nil at either end.
type ClientList struct {
	Count    int64    `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []Client `json:"results"`
}

type ListClientsOptions struct {
	Limit    int
	Offset   int
	Search   string
	Ordering string
}

// ============================================================================
// Health Types
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
