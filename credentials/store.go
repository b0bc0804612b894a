package credentials

import (
	"context"
	"strings"
)

// Fixed keys under which the two credentials are persisted.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Session is the single logged-in identity held by a Store.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Store is durable key-value persistence for the access and refresh
// credentials. All operations are idempotent. Reading an absent value is
// not an error: ok is false and callers treat that as logged out.
type Store interface {
	Save(ctx context.Context, session Session) error
	Clear(ctx context.Context) error
	ReadAccess(ctx context.Context) (token string, ok bool, err error)
	ReadRefresh(ctx context.Context) (token string, ok bool, err error)
}

// Validate rejects a session without an access credential. A missing
// refresh credential is allowed: the session then simply cannot be refreshed.
func (s Session) Validate() error {
	if strings.TrimSpace(s.AccessToken) == "" {
		return ErrEmptyAccessToken
	}
	return nil
}
