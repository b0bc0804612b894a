package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
)

// AccessClaims are the verified claims of an access token.
type AccessClaims struct {
	Subject   string
	JTI       string
	ExpiresAt time.Time
}

// RevokedChecker is an interface for checking if a token has been revoked
type RevokedChecker interface {
	IsRevoked(jti string) bool
}

// Inspector verifies tokens minted by Creator.
type Inspector struct {
	accessSigner   Signer
	playbackSigner Signer
	revokedChecker RevokedChecker
}

func NewInspector(accessSigner, playbackSigner Signer, revokedChecker RevokedChecker) *Inspector {
	return &Inspector{
		accessSigner:   accessSigner,
		playbackSigner: playbackSigner,
		revokedChecker: revokedChecker,
	}
}

// InspectAccessToken validates signature, expiry, type and revocation.
// Failures are ErrTokenExpired, ErrTokenRevoked or ErrInvalidToken.
func (i *Inspector) InspectAccessToken(rawToken string) (*AccessClaims, error) {
	claims, err := i.parse(rawToken, i.accessSigner)
	if err != nil {
		return nil, err
	}

	if tokenType, _ := claims["type"].(string); tokenType != TypeAccess {
		return nil, fmt.Errorf("%w: not an access token", apperrors.ErrInvalidToken)
	}
	sub, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || jti == "" {
		return nil, fmt.Errorf("%w: missing sub or jti", apperrors.ErrInvalidToken)
	}

	if i.revokedChecker != nil && i.revokedChecker.IsRevoked(jti) {
		return nil, apperrors.ErrTokenRevoked
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp", apperrors.ErrInvalidToken)
	}

	return &AccessClaims{
		Subject:   sub,
		JTI:       jti,
		ExpiresAt: exp.Time,
	}, nil
}

// VerifyPlaybackToken checks that rawToken is a valid, unexpired playback
// token bound to videoID.
func (i *Inspector) VerifyPlaybackToken(rawToken, videoID string) error {
	claims, err := i.parse(rawToken, i.playbackSigner)
	if err != nil {
		return err
	}
	if sub, _ := claims["sub"].(string); sub != SubjectPlayback {
		return fmt.Errorf("%w: not a playback token", apperrors.ErrInvalidToken)
	}
	if bound, _ := claims["video_id"].(string); bound == "" || bound != videoID {
		return fmt.Errorf("%w: token is bound to another video", apperrors.ErrInvalidToken)
	}
	return nil
}

func (i *Inspector) parse(rawToken string, signer Signer) (jwtlib.MapClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, fmt.Errorf("%w: empty token", apperrors.ErrInvalidToken)
	}

	token, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return nil, apperrors.ErrTokenExpired
	case err != nil || !token.Valid:
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: error extracting claims from token", apperrors.ErrInvalidToken)
	}
	return claims, nil
}
