package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
	"github.com/jrsteele09/go-video-client/transport"
)

var (
	ErrNetwork        = apperrors.ErrNetwork
	ErrUnauthorized   = apperrors.ErrUnauthorized
	ErrSessionExpired = apperrors.ErrSessionExpired

	// ErrNoRefreshCredential settles a refresh when the store holds no refresh credential
	ErrNoRefreshCredential = apperrors.ErrNoRefreshCredential
	// ErrRefreshRejected settles a refresh the backend refused; the store has been cleared
	ErrRefreshRejected = apperrors.ErrRefreshRejected

	ErrMalformedResponse = apperrors.ErrMalformedResponse
)

// StatusError is a non-2xx business response, carrying the backend's message when present.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// NewStatusError builds a StatusError from a response body of the form {"message": "..."}.
func NewStatusError(resp *transport.Response) *StatusError {
	statusErr := &StatusError{Status: resp.Status}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		statusErr.Message = strings.TrimSpace(body.Message)
	}
	if statusErr.Message == "" {
		statusErr.Message = http.StatusText(resp.Status)
	}
	return statusErr
}
