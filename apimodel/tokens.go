package apimodel

// TokenResponse is returned by /auth/login and /auth/refresh.
type TokenResponse struct {
	// AccessToken is the short-lived bearer credential.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	// Lifespan: Short-lived (one hour by default on the development backend)
	AccessToken string `json:"access_token,omitempty"`

	// RefreshToken is an opaque, longer-lived credential exchanged for a new access token.
	// Always present on login.
	// Optional on refresh: present only when the backend rotates refresh tokens.
	// When absent the client keeps using the refresh token it already holds.
	RefreshToken *string `json:"refresh_token,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Note: This is a hint; the client never pre-emptively refreshes, it reacts to 401.
	ExpiresIn int `json:"expires_in,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
// The refresh endpoint is public: the refresh token travels in the body, never as a bearer header.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Profile is returned by GET /auth/me.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MessageResponse is the generic backend reply for both errors and acknowledgements.
// Example: {"message": "Invalid credentials"}
type MessageResponse struct {
	Message string `json:"message"`
}
