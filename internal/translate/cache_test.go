package translate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemoryCache(10)
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Second))
	now = now.Add(2 * time.Second)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheBounded(t *testing.T) {
	c := NewMemoryCache(2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	require.NoError(t, c.Set(ctx, "b", "2", 0))
	require.NoError(t, c.Set(ctx, "c", "3", 0))

	assert.LessOrEqual(t, len(c.entries), 2)
	v, err := c.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestCachedServiceCallsBackendOnce(t *testing.T) {
	svc := &recordingService{out: "What is the capital of France?"}
	cached := NewCachedService(svc, NewMemoryCache(10), time.Hour, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		out, err := cached.Translate(ctx, "फ्रांस की राजधानी क्या है?", "hi", "en")
		require.NoError(t, err)
		assert.Equal(t, "What is the capital of France?", out)
	}
	assert.Len(t, svc.calls, 1)

	_, err := cached.Translate(ctx, "फ्रांस की राजधानी क्या है?", "hi", "fr")
	require.NoError(t, err)
	assert.Len(t, svc.calls, 2)
}

func TestCachedServiceDoesNotCacheErrors(t *testing.T) {
	svc := &recordingService{err: errors.New("down")}
	cached := NewCachedService(svc, NewMemoryCache(10), time.Hour, zerolog.Nop())
	ctx := context.Background()

	_, err := cached.Translate(ctx, "hola", "es", "en")
	require.Error(t, err)

	svc.err = nil
	svc.out = "hello"
	out, err := cached.Translate(ctx, "hola", "es", "en")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (string, error) { return "", errors.New("conn reset") }
func (brokenCache) Set(context.Context, string, string, time.Duration) error {
	return errors.New("conn reset")
}
func (brokenCache) Close() error { return nil }

func TestCachedServiceSurvivesCacheFailures(t *testing.T) {
	svc := &recordingService{out: "hello"}
	cached := NewCachedService(svc, brokenCache{}, time.Hour, zerolog.Nop())

	out, err := cached.Translate(context.Background(), "hola", "es", "en")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
