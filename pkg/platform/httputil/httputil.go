// Package httputil centralizes JSON encoding and error translation for the
// HTTP layer so handlers stay thin.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "kyc-gateway/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the wire shape for all error responses.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError translates a domain error into an HTTP response. Internal errors
// omit the description so infrastructure detail never leaks to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := errorBody{Error: string(code)}
	if code != dErrors.CodeInternal {
		body.ErrorDescription = dErrors.MessageOf(err)
	}
	WriteJSON(w, statusFor(code), body)
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Decode parses the request body into T, writing a bad_request response and
// returning ok=false when the payload is not valid JSON.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(r.Context(), "request decode failed", "error", err)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return req, false
	}
	return req, true
}
