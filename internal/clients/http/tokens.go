package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/clientdesk/internal/clients/metrics"
	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/aussiebroadwan/clientdesk/pkg/clientsdk"
	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
	"github.com/aussiebroadwan/clientdesk/pkg/slogx"
)

const tokenNotValid = "Token is invalid or expired"

// TokenHandler serves the token endpoints. Bodies may be JSON or form
// encoded.
type TokenHandler struct {
	TokenService *service.TokenService
	Metrics      *metrics.Collector
}

// HandleObtain issues a token pair
//
//	@Summary		Obtain a token pair
//	@Description	Exchanges admin credentials for an access token (5 minutes) and a refresh token (1 day).
//	@Tags			Tokens
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		clientsdk.TokenObtainRequest	true	"Credentials"
//	@Success		200		{object}	clientsdk.TokenPair
//	@Failure		400		{object}	clientsdk.ValidationErrorResponse
//	@Failure		401		{object}	clientsdk.ErrorResponse	"No active account found with the given credentials"
//	@Failure		429		{object}	clientsdk.ErrorResponse
//	@Router			/api/token/ [post].
func (h *TokenHandler) HandleObtain(w http.ResponseWriter, r *http.Request) {
	f, ok := h.read(w, r)
	if !ok {
		return
	}
	username := f.required("username")
	password := f.required("password")
	if !f.valid() {
		writeValidationError(w, f.errs)
		return
	}

	pair, err := h.TokenService.Obtain(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.Metrics.RecordTokenFailure("obtain")
		httpx.WriteError(w, http.StatusUnauthorized, clientsdk.ErrorCodeInvalidGrant,
			"No active account found with the given credentials")
		return
	}
	if err != nil {
		h.serverError(w, r, "obtain", err)
		return
	}

	h.Metrics.RecordTokenIssued("obtain")
	httpx.WriteJSON(w, http.StatusOK, clientsdk.TokenPair{Access: pair.Access, Refresh: pair.Refresh})
}

// HandleRefresh rotates a refresh token
//
//	@Summary		Refresh a token pair
//	@Description	Returns a new access and refresh token. The presented refresh token is blacklisted and cannot be reused.
//	@Tags			Tokens
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		clientsdk.TokenRefreshRequest	true	"Refresh token"
//	@Success		200		{object}	clientsdk.TokenPair
//	@Failure		400		{object}	clientsdk.ValidationErrorResponse
//	@Failure		401		{object}	clientsdk.ErrorResponse	"Token is invalid or expired"
//	@Failure		429		{object}	clientsdk.ErrorResponse
//	@Router			/api/token/refresh/ [post].
func (h *TokenHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	f, ok := h.read(w, r)
	if !ok {
		return
	}
	refresh := f.required("refresh")
	if !f.valid() {
		writeValidationError(w, f.errs)
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), refresh)
	if errors.Is(err, service.ErrInvalidRefresh) {
		h.Metrics.RecordTokenFailure("refresh")
		httpx.WriteError(w, http.StatusUnauthorized, clientsdk.ErrorCodeInvalidToken, tokenNotValid)
		return
	}
	if err != nil {
		h.serverError(w, r, "refresh", err)
		return
	}

	h.Metrics.RecordTokenIssued("refresh")
	httpx.WriteJSON(w, http.StatusOK, clientsdk.TokenPair{Access: pair.Access, Refresh: pair.Refresh})
}

// HandleBlacklist revokes a refresh token
//
//	@Summary		Blacklist a refresh token
//	@Description	Ends the session the refresh token belongs to. Access tokens already issued stay valid until they expire.
//	@Tags			Tokens
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		clientsdk.TokenRefreshRequest	true	"Refresh token"
//	@Success		200		{object}	clientsdk.EmptyResponse
//	@Failure		400		{object}	clientsdk.ValidationErrorResponse
//	@Failure		401		{object}	clientsdk.ErrorResponse
//	@Router			/api/token/blacklist/ [post].
func (h *TokenHandler) HandleBlacklist(w http.ResponseWriter, r *http.Request) {
	f, ok := h.read(w, r)
	if !ok {
		return
	}
	refresh := f.required("refresh")
	if !f.valid() {
		writeValidationError(w, f.errs)
		return
	}

	err := h.TokenService.Blacklist(r.Context(), refresh)
	if errors.Is(err, service.ErrInvalidRefresh) {
		h.Metrics.RecordTokenFailure("blacklist")
		httpx.WriteError(w, http.StatusUnauthorized, clientsdk.ErrorCodeInvalidToken, tokenNotValid)
		return
	}
	if err != nil {
		h.serverError(w, r, "blacklist", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clientsdk.EmptyResponse{})
}

// HandleVerify checks an access token
//
//	@Summary		Verify an access token
//	@Tags			Tokens
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		clientsdk.TokenVerifyRequest	true	"Access token"
//	@Success		200		{object}	clientsdk.EmptyResponse
//	@Failure		400		{object}	clientsdk.ValidationErrorResponse
//	@Failure		401		{object}	clientsdk.ErrorResponse
//	@Router			/api/token/verify/ [post].
func (h *TokenHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	f, ok := h.read(w, r)
	if !ok {
		return
	}
	token := f.required("token")
	if !f.valid() {
		writeValidationError(w, f.errs)
		return
	}

	if _, err := h.TokenService.Verify(token); err != nil {
		slogx.FromContext(r.Context()).Debug("token verify rejected", "error", err)
		h.Metrics.RecordTokenFailure("verify")
		httpx.WriteError(w, http.StatusUnauthorized, clientsdk.ErrorCodeInvalidToken, tokenNotValid)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clientsdk.EmptyResponse{})
}

func (h *TokenHandler) read(w http.ResponseWriter, r *http.Request) (*fieldReader, bool) {
	fields, err := readFields(w, r)
	if err != nil {
		writeMalformedBody(w)
		return nil, false
	}
	return newFieldReader(fields), true
}

func (h *TokenHandler) serverError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	slogx.FromContext(r.Context()).Error("token endpoint failed", "endpoint", endpoint, "error", err)
	httpx.WriteError(w, http.StatusInternalServerError, clientsdk.ErrorCodeServerError,
		"A server error occurred.")
}
