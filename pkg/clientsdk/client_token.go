package clientsdk

import (
	"context"
	"net/http"
)

// ObtainToken exchanges admin credentials for a token pair.
func (c *SDKClient) ObtainToken(ctx context.Context, username, password string) (*TokenPair, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/token/", TokenObtainRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshToken rotates a refresh token. The token passed in is blacklisted by
// the server once this returns successfully.
func (c *SDKClient) RefreshToken(ctx context.Context, refresh string) (*TokenPair, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/token/refresh/", TokenRefreshRequest{Refresh: refresh})
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *SDKClient) BlacklistToken(ctx context.Context, refresh string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/token/blacklist/", TokenRefreshRequest{Refresh: refresh})
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// VerifyToken returns nil if the server accepts the access token.
func (c *SDKClient) VerifyToken(ctx context.Context, token string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/token/verify/", TokenVerifyRequest{Token: token})
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}
