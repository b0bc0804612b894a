package token

import (
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
)

// RevokedTokenCache holds access tokens that were logged out before they
// expired. A token only needs to stay listed until its own expiry.
type RevokedTokenCache interface {
	RevokedChecker
	Revoke(claims *AccessClaims) error
	Cleanup() (removed int)
}

// InMemoryRevokedTokenCache maps a revoked jti to the expiry of its token.
type InMemoryRevokedTokenCache struct {
	lock    sync.RWMutex
	expires map[string]time.Time
}

func NewInMemoryRevokedTokenCache() RevokedTokenCache {
	return &InMemoryRevokedTokenCache{expires: make(map[string]time.Time)}
}

// Revoke lists the token described by claims. Revoking an already expired
// token is a no-op.
func (c *InMemoryRevokedTokenCache) Revoke(claims *AccessClaims) error {
	if claims == nil || strings.TrimSpace(claims.JTI) == "" {
		return fmt.Errorf("%w: access token has no jti", apperrors.ErrInvalidToken)
	}
	if !NowTimeFunc().Before(claims.ExpiresAt) {
		return nil
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	c.expires[claims.JTI] = claims.ExpiresAt
	return nil
}

func (c *InMemoryRevokedTokenCache) IsRevoked(jti string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	_, ok := c.expires[jti]
	return ok
}

// Cleanup forgets tokens that have expired since they were revoked.
func (c *InMemoryRevokedTokenCache) Cleanup() (removed int) {
	now := NowTimeFunc()

	c.lock.Lock()
	defer c.lock.Unlock()
	for jti, exp := range c.expires {
		if !now.Before(exp) {
			delete(c.expires, jti)
			removed++
		}
	}
	return removed
}
