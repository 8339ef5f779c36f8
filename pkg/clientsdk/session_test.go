package clientsdk

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedAccess(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("sdk-test-secret"))
	require.NoError(t, err)
	return tok
}

func TestAccessExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	require.WithinDuration(t, exp.Add(-refreshBuffer), accessExpiry(signedAccess(t, exp)), time.Second)
	require.True(t, accessExpiry("not-a-jwt").IsZero())
}

func TestSessionRefreshesExpiredAccessToken(t *testing.T) {
	t.Parallel()

	fresh := signedAccess(t, time.Now().Add(5*time.Minute))
	var refreshes atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token/refresh/":
			refreshes.Add(1)
			var body TokenRefreshRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body.Refresh)
			_ = json.NewEncoder(w).Encode(TokenPair{Access: fresh, Refresh: "refresh-2"})
		case "/clients/7/":
			assert.Equal(t, "Bearer "+fresh, r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(Client{ID: 7, Name: "Ada", Status: "active"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	session := NewSDKClient(srv.URL).NewSessionFromTokens(signedAccess(t, time.Now().Add(-time.Minute)), "refresh-1")

	c, err := session.GetClient(t.Context(), 7)
	require.NoError(t, err)
	require.Equal(t, "Ada", c.Name)
	require.Equal(t, "refresh-2", session.RefreshToken())

	_, err = session.GetClient(t.Context(), 7)
	require.NoError(t, err)
	require.EqualValues(t, 1, refreshes.Load(), "valid access token is reused")
}

func TestSessionWithoutRefreshToken(t *testing.T) {
	t.Parallel()

	session := NewSDKClient("http://127.0.0.1:0").NewSessionFromTokens("", "")
	_, err := session.ListClients(t.Context(), ListClientsOptions{})
	require.Error(t, err)
}

func TestListClientsQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/clients/", r.URL.Path)
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "10", q.Get("offset"))
		assert.Equal(t, "ada lovelace", q.Get("search"))
		assert.Equal(t, "-created_at", q.Get("ordering"))
		_ = json.NewEncoder(w).Encode(ClientList{Count: 0, Results: []Client{}})
	}))
	t.Cleanup(srv.Close)

	session := NewSDKClient(srv.URL).NewSessionFromTokens(signedAccess(t, time.Now().Add(time.Hour)), "")
	list, err := session.ListClients(t.Context(), ListClientsOptions{
		Limit: 5, Offset: 10, Search: "ada lovelace", Ordering: "-created_at",
	})
	require.NoError(t, err)
	require.Zero(t, list.Count)
}

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   APIError
	}{
		{
			name:   "validation",
			status: http.StatusBadRequest,
			body:   `{"code":"validation_error","message":"Invalid input.","details":{"email":"Enter a valid email address."}}`,
			want: APIError{
				StatusCode:  http.StatusBadRequest,
				Code:        ErrorCodeValidation,
				Description: "Invalid input.",
				Details:     map[string]string{"email": "Enter a valid email address."},
			},
		},
		{
			name:   "plain",
			status: http.StatusNotFound,
			body:   `{"error":"not_found","error_description":"No Client matches the given query."}`,
			want:   APIError{StatusCode: http.StatusNotFound, Code: ErrorCodeNotFound, Description: "No Client matches the given query."},
		},
		{
			name:   "unparseable",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			want:   APIError{StatusCode: http.StatusBadGateway, Code: ErrorCodeServerError, Description: "HTTP 502: Bad Gateway"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErrorResponse(&http.Response{StatusCode: tt.status}, []byte(tt.body))
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.want, *apiErr)
		})
	}

	notFound := parseErrorResponse(&http.Response{StatusCode: http.StatusNotFound}, nil)
	require.True(t, IsNotFound(notFound))
	require.False(t, IsUnauthorized(notFound))
}
