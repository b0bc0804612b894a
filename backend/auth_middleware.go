package backend

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
	"github.com/jrsteele09/go-video-client/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyClaims stores the verified access token claims
	ContextKeyClaims ContextKey = "claims"
)

// RequireAuth is middleware that validates a Bearer access token.
// Every failure is a 401 so that clients know to refresh.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			// Extract Bearer token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeMessage(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeMessage(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				writeMessage(w, http.StatusUnauthorized, "Empty token")
				return
			}

			claims, err := s.inspector.InspectAccessToken(rawToken)
			switch {
			case apperrors.Is(err, apperrors.ErrTokenExpired):
				writeMessage(w, http.StatusUnauthorized, "Token has expired")
				return
			case apperrors.Is(err, apperrors.ErrTokenRevoked):
				writeMessage(w, http.StatusUnauthorized, "Token has been revoked")
				return
			case err != nil:
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

func userIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(ContextKeyUserID).(string)
	return userID
}

func claimsFromContext(ctx context.Context) *token.AccessClaims {
	claims, _ := ctx.Value(ContextKeyClaims).(*token.AccessClaims)
	return claims
}
