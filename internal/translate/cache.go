package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pdfqa/internal/domain"
)

// ErrCacheMiss indicates a cache miss.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores translated strings.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// CachedService memoizes a TranslationService. Cache failures are logged and
// otherwise ignored; they never fail a translation.
type CachedService struct {
	next  domain.TranslationService
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewCachedService(next domain.TranslationService, cache Cache, ttl time.Duration, log zerolog.Logger) *CachedService {
	return &CachedService{next: next, cache: cache, ttl: ttl, log: log}
}

func (s *CachedService) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := cacheKey(text, source, target)
	if v, err := s.cache.Get(ctx, key); err == nil {
		return v, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.log.Warn().Err(err).Msg("translation cache read failed")
	}
	out, err := s.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
		s.log.Warn().Err(err).Msg("translation cache write failed")
	}
	return out, nil
}

func cacheKey(text, source, target string) string {
	h := sha256.Sum256([]byte(text))
	return source + ":" + target + ":" + hex.EncodeToString(h[:16])
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is a bounded in-process TTL cache. When full, expired entries
// are dropped first and then the whole cache is reset.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MemoryCache{entries: make(map[string]memoryEntry), maxEntries: maxEntries, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, key)
		return "", ErrCacheMiss
	}
	return e.value, nil
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		now := c.now()
		for k, e := range c.entries {
			if !e.expires.IsZero() && now.After(e.expires) {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= c.maxEntries {
			c.entries = make(map[string]memoryEntry)
		}
	}
	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}
	c.entries[key] = memoryEntry{value: value, expires: expires}
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// RedisCache shares translations between processes through redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// RedisOptions holds redis connection settings.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisCache connects and pings redis.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return newRedisCache(client, opts.Prefix), nil
}

func newRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "pdfqa:tr:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
