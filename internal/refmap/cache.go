package refmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores parsed maps by key. Misses and cache failures both report
// false; a broken cache only costs a re-parse.
type Cache interface {
	Get(ctx context.Context, key string) (*Map, bool)
	Set(ctx context.Context, key string, m *Map)
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]*Map
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]*Map)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Map, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.items[key]
	return m, ok
}

func (c *MemoryCache) Set(_ context.Context, key string, m *Map) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = m
}

// RedisOptions configures a RedisCache connection.
type RedisOptions struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache stores maps as JSON under "refmap:<key>".
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// ConnectRedis dials Redis from a URL, or host and port, and pings it.
func ConnectRedis(opts RedisOptions) (*RedisCache, error) {
	logger := slog.With("component", "redis", "operation", "connect")

	var rdb *redis.Client
	if opts.URL != "" {
		o, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb = redis.NewClient(o)
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%s", opts.Host, opts.Port),
			Password:     opts.Password,
			DB:           opts.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("redis connection established")
	return NewRedisCache(rdb, opts.TTL), nil
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: slog.With("component", "redis")}
}

func redisKey(key string) string { return "refmap:" + key }

func (c *RedisCache) Get(ctx context.Context, key string) (*Map, bool) {
	data, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		c.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return &m, true
}

func (c *RedisCache) Set(ctx context.Context, key string, m *Map) {
	data, err := json.Marshal(m)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, redisKey(key), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Close releases the client.
func (c *RedisCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// CachedAdapter consults Cache before delegating to Adapter. Only successful
// loads are cached.
type CachedAdapter struct {
	Name    string
	Adapter Adapter
	Cache   Cache
}

// Load implements Adapter.
func (a CachedAdapter) Load(ctx context.Context, bodyKey string) (*Map, error) {
	key := a.Name + ":" + BodyKey(bodyKey)
	if m, ok := a.Cache.Get(ctx, key); ok {
		return m, nil
	}
	m, err := a.Adapter.Load(ctx, bodyKey)
	if err != nil {
		return nil, err
	}
	a.Cache.Set(ctx, key, m)
	return m, nil
}
