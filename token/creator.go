package token

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const (
	TypeAccess      = "access"
	SubjectPlayback = "playback"
)

// Creator mints the two kinds of JWT the backend issues: access tokens
// for a user and playback tokens for a single video.
type Creator struct {
	accessSigner   Signer
	playbackSigner Signer
	accessExpiry   time.Duration
	playbackExpiry time.Duration
}

func NewCreator(accessSigner, playbackSigner Signer, accessExpiry, playbackExpiry time.Duration) *Creator {
	return &Creator{
		accessSigner:   accessSigner,
		playbackSigner: playbackSigner,
		accessExpiry:   accessExpiry,
		playbackExpiry: playbackExpiry,
	}
}

func (c *Creator) AccessExpiry() time.Duration {
	return c.accessExpiry
}

func (c *Creator) PlaybackExpiry() time.Duration {
	return c.playbackExpiry
}

// CreateAccessToken creates a bearer token for userID
func (c *Creator) CreateAccessToken(userID string) (*string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"sub":  userID,                         // The user the token was issued to
		"type": TypeAccess,                     // Distinguishes access tokens from playback tokens
		"iat":  now.Unix(),                     // Issued At: the time at which the token was issued
		"exp":  now.Add(c.accessExpiry).Unix(), // Expiry: when the token will expire
		"jti":  uuid.New().String(),            // Unique token ID for revocation
	}
	return c.sign(claims, c.accessSigner)
}

// CreatePlaybackToken creates a short-lived token that only unlocks the stream of videoID
func (c *Creator) CreatePlaybackToken(videoID string) (*string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"sub":      SubjectPlayback,
		"video_id": videoID,
		"iat":      now.Unix(),
		"exp":      now.Add(c.playbackExpiry).Unix(),
		"jti":      uuid.New().String(),
	}
	return c.sign(claims, c.playbackSigner)
}

func (c *Creator) sign(claims jwtlib.MapClaims, signer Signer) (*string, error) {
	signedToken, err := signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return &signedToken, nil
}
