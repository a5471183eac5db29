// Package offline implements the offline asset cache: versioned caches of
// fetched responses, precached core assets, and per-path serving policies.
package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/parsi-learn/academy/internal/platform/cache"
)

// Cached is one stored response.
type Cached struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body"`
}

// Storage holds named caches of path-keyed responses.
type Storage interface {
	// Names lists the cache names currently present.
	Names(ctx context.Context) ([]string, error)
	// Put stores a response under a cache name and path.
	Put(ctx context.Context, name, path string, res Cached) error
	// Get loads a stored response. The second result is false on a miss.
	Get(ctx context.Context, name, path string) (Cached, bool, error)
	// Drop deletes a whole cache.
	Drop(ctx context.Context, name string) error
}

// Memory is an in-process Storage.
type Memory struct {
	mu     sync.RWMutex
	caches map[string]map[string]Cached
}

// NewMemory returns an empty in-process storage.
func NewMemory() *Memory {
	return &Memory{caches: make(map[string]map[string]Cached)}
}

func (m *Memory) Names(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.caches))
	for n := range m.caches {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) Put(_ context.Context, name, path string, res Cached) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.caches[name]
	if !ok {
		c = make(map[string]Cached)
		m.caches[name] = c
	}
	c[path] = res
	return nil
}

func (m *Memory) Get(_ context.Context, name, path string) (Cached, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.caches[name][path]
	return res, ok, nil
}

func (m *Memory) Drop(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.caches, name)
	return nil
}

// Redis is a Storage backed by the shared Redis client. Each cache is a
// hash keyed by path, and a set tracks the cache names so activation can
// enumerate versions.
type Redis struct {
	client *redis.Client
}

const redisNameSet = "offline:caches"

func redisCacheKey(name string) string { return "offline:cache:" + name }

// NewRedis returns a Redis-backed storage over the platform cache client.
func NewRedis(c *cache.Cache) *Redis {
	return &Redis{client: c.Client}
}

func (r *Redis) Names(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, redisNameSet).Result()
	if err != nil {
		return nil, fmt.Errorf("listing caches: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Redis) Put(ctx context.Context, name, path string, res Cached) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding cached response: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, redisNameSet, name)
	pipe.HSet(ctx, redisCacheKey(name), path, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing %s in cache %s: %w", path, name, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, name, path string) (Cached, bool, error) {
	data, err := r.client.HGet(ctx, redisCacheKey(name), path).Bytes()
	if err == redis.Nil {
		return Cached{}, false, nil
	}
	if err != nil {
		return Cached{}, false, fmt.Errorf("loading %s from cache %s: %w", path, name, err)
	}
	var res Cached
	if err := json.Unmarshal(data, &res); err != nil {
		return Cached{}, false, fmt.Errorf("decoding cached response: %w", err)
	}
	return res, true, nil
}

func (r *Redis) Drop(ctx context.Context, name string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, redisCacheKey(name))
	pipe.SRem(ctx, redisNameSet, name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("dropping cache %s: %w", name, err)
	}
	return nil
}
