package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amp-labs/amp-fsm/envutil"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of redis.Cmdable the Redis sink uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Redis stores each id as a string key, optionally prefixed.
type Redis struct {
	client RedisClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a Redis sink.
type RedisOption func(*Redis)

// WithKeyPrefix prepends prefix to every key.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// WithTTL expires keys after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// NewRedisSink wraps client.
func NewRedisSink(client RedisClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Redis) key(id string) (string, error) {
	if id == "" {
		return "", ErrEmptyID
	}

	return r.prefix + id, nil
}

func (r *Redis) WriteAll(ctx context.Context, id string, data []byte) error {
	key, err := r.key(id)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}

	return nil
}

func (r *Redis) ReadAll(ctx context.Context, id string) ([]byte, error) {
	key, err := r.key(id)
	if err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}

		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}

	return data, nil
}

// RedisConfig configures ConnectRedis.
type RedisConfig struct {
	ConnectionURL  string        // "redis://:password@localhost:6379/0"
	RetryAttempts  int           // connection attempts before giving up
	RetryInterval  time.Duration // pause between attempts
	ConnectTimeout time.Duration // overall deadline for connecting
	KeyPrefix      string        // prefix for sink keys
}

// LoadRedisConfigFromEnv reads FSM_REDIS_URL (required), FSM_REDIS_RETRY_ATTEMPTS,
// FSM_REDIS_RETRY_INTERVAL, FSM_REDIS_CONNECT_TIMEOUT and FSM_REDIS_KEY_PREFIX.
func LoadRedisConfigFromEnv() (RedisConfig, error) {
	url, err := envutil.String("FSM_REDIS_URL", envutil.NonEmpty()).Value()
	if err != nil {
		return RedisConfig{}, err
	}

	attempts, err := envutil.Int("FSM_REDIS_RETRY_ATTEMPTS", envutil.Default(3)).Value()
	if err != nil {
		return RedisConfig{}, err
	}

	interval, err := envutil.Duration("FSM_REDIS_RETRY_INTERVAL", envutil.Default(5*time.Second)).Value()
	if err != nil {
		return RedisConfig{}, err
	}

	timeout, err := envutil.Duration("FSM_REDIS_CONNECT_TIMEOUT", envutil.Default(30*time.Second)).Value()
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		ConnectionURL:  url,
		RetryAttempts:  attempts,
		RetryInterval:  interval,
		ConnectTimeout: timeout,
		KeyPrefix:      envutil.String("FSM_REDIS_KEY_PREFIX", envutil.Default("fsm:")).ValueOrElse("fsm:"),
	}, nil
}

// ConnectRedis pings the server until it answers, up to cfg.RetryAttempts
// times within cfg.ConnectTimeout.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisURL, err)
	}

	for range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opts)

		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}

		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}
