package clientsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to the public endpoints and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Authenticate obtains a token pair for an admin account and wraps it in a
// Session.
func (c *SDKClient) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	pair, err := c.ObtainToken(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, pair), nil
}

// NewSessionFromTokens resumes a session from a stored pair. The access
// token expiry is read from its exp claim.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string) *Session {
	return newSession(c, &TokenPair{Access: accessToken, Refresh: refreshToken})
}
