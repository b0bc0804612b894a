package config

import "time"

type Backend struct {
	EnvVars
}

var _ BackendConfig = Backend{}

func (Backend) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "dev-jwt-secret-change-me")
}

// GetPlaybackTokenSecret falls back to the JWT secret; playback tokens are a
// separate concern but may share key material in development.
func (b Backend) GetPlaybackTokenSecret() string {
	return GetEnv("PLAYBACK_TOKEN_SECRET", b.GetJWTSecret())
}

func (Backend) GetAccessTokenExpiry() time.Duration {
	return time.Duration(GetEnvInt("JWT_ACCESS_TOKEN_EXPIRES", 3600)) * time.Second
}

func (Backend) GetRefreshTokenExpiry() time.Duration {
	return time.Duration(GetEnvInt("JWT_REFRESH_TOKEN_EXPIRES_DAYS", 7)) * 24 * time.Hour
}

func (Backend) GetPlaybackTokenExpiry() time.Duration {
	return time.Duration(GetEnvInt("PLAYBACK_TOKEN_EXPIRES_SECONDS", 300)) * time.Second
}

func (Backend) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func (Backend) GetRotateRefreshTokens() bool {
	return GetEnvBool("ROTATE_REFRESH_TOKENS", false)
}

func (Backend) GetDashboardLimit() int {
	return GetEnvInt("DASHBOARD_LIMIT", 2)
}

// GetLoginRateLimit is the number of login attempts allowed per client
// address per minute; zero disables the limit
func (Backend) GetLoginRateLimit() int {
	return GetEnvInt("LOGIN_RATE_LIMIT", 5)
}
