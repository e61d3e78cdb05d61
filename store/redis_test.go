package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConnRefused = errors.New("connection refused")

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}

	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}

	data, _ := value.([]byte)
	f.values[key] = string(data)
	f.ttls[key] = expiration

	return redis.NewStatusResult("OK", nil)
}

func TestRedisSink(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	client := newFakeRedis()
	sink := NewRedisSink(client, WithKeyPrefix("fsm:"), WithTTL(time.Hour))

	_, err := sink.ReadAll(ctx, "orders")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, sink.WriteAll(ctx, "orders", []byte("S2")))
	assert.Equal(t, "S2", client.values["fsm:orders"])
	assert.Equal(t, time.Hour, client.ttls["fsm:orders"])

	data, err := sink.ReadAll(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, []byte("S2"), data)

	require.ErrorIs(t, sink.WriteAll(ctx, "", nil), ErrEmptyID)
}

func TestRedisSinkPropagatesErrors(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	client.err = errConnRefused
	sink := NewRedisSink(client)

	err := sink.WriteAll(t.Context(), "a", []byte("S0"))
	require.ErrorIs(t, err, errConnRefused)

	_, err = sink.ReadAll(t.Context(), "a")
	require.ErrorIs(t, err, errConnRefused)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestConnectRedisRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := ConnectRedis(t.Context(), RedisConfig{ConnectionURL: "not a url"})
	require.ErrorIs(t, err, ErrFailedToParseRedisURL)
}

//nolint:paralleltest // Test modifies environment variables
func TestLoadRedisConfigFromEnv(t *testing.T) {
	t.Setenv("FSM_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("FSM_REDIS_RETRY_ATTEMPTS", "5")
	t.Setenv("FSM_REDIS_RETRY_INTERVAL", "100ms")

	cfg, err := LoadRedisConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, RedisConfig{
		ConnectionURL:  "redis://localhost:6379/1",
		RetryAttempts:  5,
		RetryInterval:  100 * time.Millisecond,
		ConnectTimeout: 30 * time.Second,
		KeyPrefix:      "fsm:",
	}, cfg)

	t.Setenv("FSM_REDIS_RETRY_ATTEMPTS", "many")

	_, err = LoadRedisConfigFromEnv()
	require.Error(t, err)
}
