package redisstore

import (
	"context"
	"errors"
	"strings"

	"github.com/jrsteele09/go-video-client/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Store persists the session in Redis under two prefixed keys. Credentials
// never expire server side; the backend decides when they are no longer valid.
type Store struct {
	client *redis.Client
	prefix string
}

var _ credentials.Store = (*Store)(nil)

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func New(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewWithClient(client, opts.Prefix)
}

func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Save(ctx context.Context, session credentials.Session) error {
	if err := session.Validate(); err != nil {
		return &credentials.StoreError{Operation: "save", Cause: err}
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(credentials.AccessTokenKey), session.AccessToken, 0)
		if strings.TrimSpace(session.RefreshToken) != "" {
			pipe.Set(ctx, s.key(credentials.RefreshTokenKey), session.RefreshToken, 0)
		} else {
			pipe.Del(ctx, s.key(credentials.RefreshTokenKey))
		}
		return nil
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("prefix", s.prefix).
			Msg("Redis credential save failed")
		return &credentials.StoreError{Operation: "save", Cause: err}
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	err := s.client.Del(ctx, s.key(credentials.AccessTokenKey), s.key(credentials.RefreshTokenKey)).Err()
	if err != nil {
		log.Error().
			Err(err).
			Str("prefix", s.prefix).
			Msg("Redis credential clear failed")
		return &credentials.StoreError{Operation: "clear", Cause: err}
	}
	return nil
}

func (s *Store) ReadAccess(ctx context.Context) (string, bool, error) {
	return s.read(ctx, credentials.AccessTokenKey)
}

func (s *Store) ReadRefresh(ctx context.Context) (string, bool, error) {
	return s.read(ctx, credentials.RefreshTokenKey)
}

// Ping checks if Redis is accessible
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) read(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("key", s.key(key)).
			Msg("Redis credential read failed")
		return "", false, &credentials.StoreError{Operation: "read", Key: key, Cause: err}
	}
	if strings.TrimSpace(val) == "" {
		return "", false, nil
	}
	return val, true, nil
}

func (s *Store) key(name string) string {
	return s.prefix + name
}
