package config

import "time"

// ClientConfig is everything the client side needs: where the API lives,
// how long a single exchange may take and where credentials are persisted.
type ClientConfig interface {
	GetAPIURL() string
	GetRequestTimeout() time.Duration
	GetRefreshTimeout() time.Duration
	GetCredentialStore() string
	GetCredentialsPath() string
	GetRedisURL() string
	GetRedisPassword() string
	GetRedisPrefix() string
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetAPIPrefix() string
}

// BackendConfig drives the development backend's token policy and catalog.
type BackendConfig interface {
	EnvConfig
	GetJWTSecret() string
	GetPlaybackTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetPlaybackTokenExpiry() time.Duration
	GetRefreshTokenLength() int
	GetRotateRefreshTokens() bool
	GetDashboardLimit() int
	GetLoginRateLimit() int
}

type Config interface {
	ClientConfig
	BackendConfig
}

type mainConfig struct {
	Client
	Backend
}

func New() Config {
	return mainConfig{}
}

func NewClient() ClientConfig {
	return Client{}
}

func NewBackend() BackendConfig {
	return Backend{}
}
