package httputil

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	apperrors "github.com/convoflow/crm-bridge-go/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// FailureResponse is the failure envelope shared by every route.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// DetailedError is implemented by errors that carry structured detail from
// an upstream service.
type DetailedError interface {
	error
	Detail() any
}

// WriteSuccess writes the success envelope: fields plus "success": true.
func WriteSuccess(w http.ResponseWriter, fields map[string]any) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	WriteJSON(w, http.StatusOK, body)
}

// WriteFailure writes err as the failure envelope with the given status.
func WriteFailure(w http.ResponseWriter, status int, err error) {
	message, details := Describe(err)
	WriteJSON(w, status, FailureResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// WriteError writes err with a status derived from its code.
func WriteError(w http.ResponseWriter, err error) {
	WriteFailure(w, StatusFor(err), err)
}

// Describe returns the client-facing message and structured detail for err.
// Errors without structured detail get their message as the detail.
func Describe(err error) (string, any) {
	if err == nil {
		return "unknown error", nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Message, appErr
	}
	var detailed DetailedError
	if errors.As(err, &detailed) {
		return detailed.Error(), detailed.Detail()
	}
	return err.Error(), map[string]any{"message": err.Error()}
}

// ClientIP returns the host part of RemoteAddr, which chi's RealIP has
// already rewritten from proxy headers.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// StatusFor maps an error to an HTTP status code
func StatusFor(err error) int {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	// 400 Bad Request
	case apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest

	// 429 Too Many Requests
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests

	// 502 Bad Gateway
	case apperrors.ErrCodeExternal:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// WriteFault writes an unexpected fault as a 500 failure envelope carrying
// only the message.
func WriteFault(w http.ResponseWriter, err error) {
	message, _ := Describe(err)
	WriteJSON(w, http.StatusInternalServerError, FailureResponse{
		Success: false,
		Error:   message,
	})
}
