package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	CredentialStoreFile  = "file"
	CredentialStoreRedis = "redis"
)

type Client struct{}

var _ ClientConfig = Client{}

// GetAPIURL returns the API base URL without a trailing slash
func (Client) GetAPIURL() string {
	return strings.TrimRight(GetEnv("VIDEO_API_URL", "http://localhost:5000/api"), "/")
}

func (Client) GetRequestTimeout() time.Duration {
	return GetEnvDuration("VIDCLIENT_REQUEST_TIMEOUT", 30*time.Second)
}

func (Client) GetRefreshTimeout() time.Duration {
	return GetEnvDuration("VIDCLIENT_REFRESH_TIMEOUT", 15*time.Second)
}

func (Client) GetCredentialStore() string {
	switch strings.ToLower(GetEnv("VIDCLIENT_CREDENTIAL_STORE", CredentialStoreFile)) {
	case CredentialStoreRedis:
		return CredentialStoreRedis
	default:
		return CredentialStoreFile
	}
}

func (Client) GetCredentialsPath() string {
	if override := strings.TrimSpace(os.Getenv("VIDCLIENT_CREDENTIALS_PATH")); override != "" {
		return override
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return ".vidclient/credentials.json"
	}
	return filepath.Join(home, ".vidclient", "credentials.json")
}

func (Client) GetRedisURL() string {
	return GetEnv("REDIS_URL", "localhost:6379")
}

func (Client) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Client) GetRedisPrefix() string {
	return GetEnv("VIDCLIENT_REDIS_PREFIX", "vidclient:")
}
