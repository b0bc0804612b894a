package credentials

import "errors"

var ErrEmptyAccessToken = errors.New("session has no access token")

// StoreError indicates a credential storage failure.
type StoreError struct {
	Operation string // "save", "clear", "read"
	Key       string
	Cause     error
}

func (e *StoreError) Error() string {
	msg := e.Operation + " credentials"
	if e.Key != "" {
		msg += " (" + e.Key + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
