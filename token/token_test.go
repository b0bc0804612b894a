package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
	"github.com/jrsteele09/go-video-client/token"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret   = "1234"
	playbackSecret = "5678"
)

func newFixture() (*token.Creator, *token.Inspector, token.RevokedTokenCache) {
	access := token.NewHMACSigner(accessSecret)
	play := token.NewHMACSigner(playbackSecret)
	revoked := token.NewInMemoryRevokedTokenCache()
	creator := token.NewCreator(access, play, time.Hour, 5*time.Minute)
	return creator, token.NewInspector(access, play, revoked), revoked
}

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = time.Now })
}

func TestAccessTokenRoundTrip(t *testing.T) {
	creator, inspector, _ := newFixture()

	raw, err := creator.CreateAccessToken("user-1")
	require.NoError(t, err)

	claims, err := inspector.InspectAccessToken(*raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.NotEmpty(t, claims.JTI)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestAccessTokenExpires(t *testing.T) {
	creator, inspector, _ := newFixture()
	issuedAt := time.Now()
	withNow(t, issuedAt)

	raw, err := creator.CreateAccessToken("user-1")
	require.NoError(t, err)

	withNow(t, issuedAt.Add(2*time.Hour))
	_, err = inspector.InspectAccessToken(*raw)
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestRevokedAccessTokenIsRejected(t *testing.T) {
	creator, inspector, revoked := newFixture()

	raw, err := creator.CreateAccessToken("user-1")
	require.NoError(t, err)
	claims, err := inspector.InspectAccessToken(*raw)
	require.NoError(t, err)

	require.NoError(t, revoked.Revoke(claims))
	_, err = inspector.InspectAccessToken(*raw)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	other, err := creator.CreateAccessToken("user-1")
	require.NoError(t, err)
	_, err = inspector.InspectAccessToken(*other)
	require.NoError(t, err)
}

func TestRevokeRequiresJTI(t *testing.T) {
	revoked := token.NewInMemoryRevokedTokenCache()
	require.ErrorIs(t, revoked.Revoke(nil), apperrors.ErrInvalidToken)
	require.ErrorIs(t, revoked.Revoke(&token.AccessClaims{Subject: "user-1", ExpiresAt: time.Now().Add(time.Hour)}), apperrors.ErrInvalidToken)
}

func TestRevocationCleanupDropsExpiredEntries(t *testing.T) {
	revoked := token.NewInMemoryRevokedTokenCache()
	now := time.Now()
	withNow(t, now)

	require.NoError(t, revoked.Revoke(&token.AccessClaims{JTI: "short", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, revoked.Revoke(&token.AccessClaims{JTI: "long", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, revoked.Revoke(&token.AccessClaims{JTI: "expired", ExpiresAt: now.Add(-time.Minute)}))
	require.False(t, revoked.IsRevoked("expired"))
	require.Zero(t, revoked.Cleanup())

	withNow(t, now.Add(2*time.Minute))
	require.Equal(t, 1, revoked.Cleanup())
	require.False(t, revoked.IsRevoked("short"))
	require.True(t, revoked.IsRevoked("long"))
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	creator, inspector, _ := newFixture()

	access, err := creator.CreateAccessToken("user-1")
	require.NoError(t, err)
	play, err := creator.CreatePlaybackToken("vid-1")
	require.NoError(t, err)

	_, err = inspector.InspectAccessToken(*play)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	require.ErrorIs(t, inspector.VerifyPlaybackToken(*access, "vid-1"), apperrors.ErrInvalidToken)
}

func TestPlaybackTokenIsBoundToVideo(t *testing.T) {
	creator, inspector, _ := newFixture()

	play, err := creator.CreatePlaybackToken("vid-1")
	require.NoError(t, err)

	require.NoError(t, inspector.VerifyPlaybackToken(*play, "vid-1"))
	require.ErrorIs(t, inspector.VerifyPlaybackToken(*play, "vid-2"), apperrors.ErrInvalidToken)
	require.ErrorIs(t, inspector.VerifyPlaybackToken("", "vid-1"), apperrors.ErrInvalidToken)
	require.ErrorIs(t, inspector.VerifyPlaybackToken("not-a-jwt", "vid-1"), apperrors.ErrInvalidToken)
}

func TestPlaybackTokenExpires(t *testing.T) {
	creator, inspector, _ := newFixture()
	issuedAt := time.Now()
	withNow(t, issuedAt)

	play, err := creator.CreatePlaybackToken("vid-1")
	require.NoError(t, err)

	withNow(t, issuedAt.Add(6*time.Minute))
	require.ErrorIs(t, inspector.VerifyPlaybackToken(*play, "vid-1"), apperrors.ErrTokenExpired)
}

func TestForeignSignatureIsRejected(t *testing.T) {
	_, inspector, _ := newFixture()

	forged, err := token.NewHMACSigner("other").Sign(jwtlib.MapClaims{
		"sub":  "user-1",
		"type": token.TypeAccess,
		"jti":  "x",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = inspector.InspectAccessToken(forged)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestSignerWithoutSecretFails(t *testing.T) {
	_, err := token.NewHMACSigner("").Sign(jwtlib.MapClaims{"sub": "x"})
	require.Error(t, err)
}
