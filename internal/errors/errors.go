package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the client packages and the development backend
var (
	// Transport errors
	ErrNetwork = errors.New("network error")

	// Session errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")

	// Refresh coordinator errors
	ErrNoRefreshCredential = errors.New("no refresh credential available")
	ErrRefreshRejected     = errors.New("refresh credential rejected")

	// Playback errors
	ErrPlaybackUnavailable = errors.New("playback unavailable")

	// Contract errors, raised when a 2xx response does not carry what the endpoint promises
	ErrMalformedResponse = errors.New("malformed response")

	// Backend errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrNotFound           = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
