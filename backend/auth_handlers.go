package backend

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-video-client/apimodel"
	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
	"github.com/jrsteele09/go-video-client/users"
	"github.com/rs/zerolog/log"
)

// SignupHandler registers a new account. It does not log the user in.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.SignupRequest
		if err := decodeBody(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if err := users.ValidateSignup(req.Name, req.Email, req.Password); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		if existing, err := s.repos.Users.GetByEmail(req.Email); err == nil && existing != nil {
			writeMessage(w, http.StatusBadRequest, "Email already registered")
			return
		}

		user, err := users.New(req.Name, req.Email, req.Password)
		if err != nil {
			logError(r.Method, r.URL.Path, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
		if err := s.repos.Users.Upsert(user); err != nil {
			if apperrors.Is(err, apperrors.ErrEmailRegistered) {
				writeMessage(w, http.StatusBadRequest, "Email already registered")
				return
			}
			logError(r.Method, r.URL.Path, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		log.Info().Str("user_id", user.ID).Msg("user registered")
		writeMessage(w, http.StatusCreated, "User registered successfully")
	}
}

// LoginHandler exchanges email and password for an access and refresh token
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if err := users.ValidateCredentials(req.Email, req.Password); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		user, err := s.repos.Users.GetByEmail(req.Email)
		if err != nil || user == nil || !user.CheckPassword(req.Password) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		accessToken, err := s.tokens.CreateAccessToken(user.ID)
		if err != nil {
			logError(r.Method, r.URL.Path, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to issue tokens")
			return
		}
		refreshToken, err := s.refresh.Create(user.ID)
		if err != nil {
			logError(r.Method, r.URL.Path, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to issue tokens")
			return
		}
		if err := s.repos.Users.SetLastLogin(user.Email); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
		}

		writeJSON(w, http.StatusOK, apimodel.TokenResponse{
			AccessToken:  *accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.tokens.AccessExpiry().Seconds()),
		})
	}
}

// RefreshHandler issues a new access token for a refresh token carried in
// the body. The refresh token is rotated only when configured to.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apimodel.RefreshRequest
		if err := decodeBody(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if strings.TrimSpace(req.RefreshToken) == "" {
			writeMessage(w, http.StatusBadRequest, "refresh_token is required")
			return
		}

		stored, err := s.refresh.Validate(req.RefreshToken)
		if apperrors.Is(err, apperrors.ErrTokenExpired) {
			writeMessage(w, http.StatusUnauthorized, "Refresh token has expired")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		if _, err := s.repos.Users.GetByID(stored.UserID); err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid token payload")
			return
		}

		accessToken, err := s.tokens.CreateAccessToken(stored.UserID)
		if err != nil {
			logError(r.Method, r.URL.Path, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to issue tokens")
			return
		}

		resp := apimodel.TokenResponse{
			AccessToken: *accessToken,
			ExpiresIn:   int(s.tokens.AccessExpiry().Seconds()),
		}
		if s.config.GetRotateRefreshTokens() {
			rotated, err := s.refresh.Rotate(stored)
			if err != nil {
				logError(r.Method, r.URL.Path, err)
				writeMessage(w, http.StatusInternalServerError, "Failed to issue tokens")
				return
			}
			resp.RefreshToken = rotated
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// LogoutHandler revokes the presented access token and the user's refresh token
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.repos.Revoked.Revoke(claimsFromContext(r.Context())); err != nil {
			logError(r.Method, r.URL.Path, err)
		}
		if err := s.refresh.DeleteForUser(userIDFromContext(r.Context())); err != nil {
			logError(r.Method, r.URL.Path, err)
		}
		if removed := s.repos.Revoked.Cleanup(); removed > 0 {
			log.Debug().Int("removed", removed).Msg("dropped expired revocations")
		}

		writeMessage(w, http.StatusOK, "Logged out")
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.repos.Users.GetByID(userIDFromContext(r.Context()))
		if err != nil || user == nil {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, apimodel.Profile{Name: user.Name, Email: user.Email})
	}
}
