package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/aussiebroadwan/clientdesk/pkg/clientsdk"
	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
	"github.com/aussiebroadwan/clientdesk/pkg/slogx"
)

const invalidInputMessage = "Invalid input."

func writeValidationError(w http.ResponseWriter, details map[string]string) {
	httpx.WriteJSON(w, http.StatusBadRequest, clientsdk.ValidationErrorResponse{
		Code:    clientsdk.ErrorCodeValidation,
		Message: invalidInputMessage,
		Details: details,
	})
}

func writeMalformedBody(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, clientsdk.ErrorCodeInvalidRequest, "Malformed request body.")
}

func writeClientNotFound(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusNotFound, clientsdk.ErrorCodeNotFound, "No Client matches the given query.")
}

// writeServiceError maps client service errors onto responses. Anything
// unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if ve, ok := service.IsValidationError(err); ok {
		writeValidationError(w, ve.Fields)
		return
	}
	if errors.Is(err, service.ErrClientNotFound) {
		writeClientNotFound(w)
		return
	}

	slogx.FromContext(r.Context()).Error("client operation failed", "op", op, "error", err)
	httpx.WriteError(w, http.StatusInternalServerError, clientsdk.ErrorCodeServerError,
		"A server error occurred.")
}
