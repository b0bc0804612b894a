package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jrsteele09/go-video-client/internal/config"
	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager handles refresh token creation, validation, and rotation
type Manager struct {
	repo   Repo
	config config.BackendConfig
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, cfg config.BackendConfig) *Manager {
	return &Manager{
		repo:   repo,
		config: cfg,
	}
}

// Create generates a new refresh token and stores it. Any earlier refresh
// token of the same user stops working.
func (m *Manager) Create(userID string) (*string, error) {
	// Delete existing refresh token for this user (single refresh token per user)
	if existingToken, err := m.repo.GetByUserID(userID); err == nil && existingToken != nil {
		if err := m.repo.Delete(existingToken.Token); err != nil {
			return nil, fmt.Errorf("failed to delete existing refresh token: %w", err)
		}
	}

	tokenBytes := make([]byte, m.config.GetRefreshTokenLength()) // Configured length (default: 32 bytes = 256 bits)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	now := NowTimeFunc()
	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:     tokenStr,
		UserID:    userID,
		Iat:       now,
		ExpiresAt: now.Add(m.config.GetRefreshTokenExpiry()),
	}); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &tokenStr, nil
}

// Validate returns the stored metadata of a live refresh token. Unknown
// tokens are ErrInvalidToken; expired ones are deleted and reported as
// ErrTokenExpired.
func (m *Manager) Validate(token string) (*StoredRefreshToken, error) {
	rt, err := m.repo.Get(token)
	if err != nil || rt == nil {
		return nil, apperrors.ErrInvalidToken
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(rt.Token)
		return nil, apperrors.ErrTokenExpired
	}
	return rt, nil
}

// Rotate replaces rt with a freshly generated token for the same user
func (m *Manager) Rotate(rt *StoredRefreshToken) (*string, error) {
	return m.Create(rt.UserID)
}

// Delete removes a refresh token from storage
func (m *Manager) Delete(token string) error {
	return m.repo.Delete(token)
}

// DeleteForUser removes whatever refresh token userID holds
func (m *Manager) DeleteForUser(userID string) error {
	rt, err := m.repo.GetByUserID(userID)
	if err != nil || rt == nil {
		return nil
	}
	return m.repo.Delete(rt.Token)
}

// IsExpired checks if a refresh token has passed its expiry
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return !NowTimeFunc().Before(rt.ExpiresAt)
}
