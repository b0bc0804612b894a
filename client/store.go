package client

import (
	"context"

	"github.com/jrsteele09/go-video-client/credentials"
	"github.com/jrsteele09/go-video-client/credentials/redisstore"
	"github.com/jrsteele09/go-video-client/internal/config"
	apperrors "github.com/jrsteele09/go-video-client/internal/errors"
	"github.com/rs/zerolog/log"
)

// OpenStore builds the credential store selected by configuration. The
// returned close func releases any connection the store holds.
func OpenStore(ctx context.Context, cfg config.ClientConfig) (credentials.Store, func() error, error) {
	switch cfg.GetCredentialStore() {
	case config.CredentialStoreRedis:
		store := redisstore.New(redisstore.Options{
			Addr:     cfg.GetRedisURL(),
			Password: cfg.GetRedisPassword(),
			Prefix:   cfg.GetRedisPrefix(),
		})
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, apperrors.Wrapf(err, "connect to redis at %s", cfg.GetRedisURL())
		}
		log.Debug().Str("addr", cfg.GetRedisURL()).Msg("using redis credential store")
		return store, store.Close, nil
	default:
		store := credentials.NewFileStore(cfg.GetCredentialsPath())
		log.Debug().Str("path", store.Path()).Msg("using file credential store")
		return store, func() error { return nil }, nil
	}
}
