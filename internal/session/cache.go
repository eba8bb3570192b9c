package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/jrose1022/SubTrack/internal/models"
	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "subtrack:profile:"

// RedisProfileCache stores profiles as JSON with a TTL.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

func (c *RedisProfileCache) Get(ctx context.Context, authID string) (models.User, bool, error) {
	data, err := c.client.Get(ctx, profileKeyPrefix+authID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return models.User{}, false, err
	}
	return u, true, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, u models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, profileKeyPrefix+u.AuthID, data, c.ttl).Err()
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, authID string) error {
	return c.client.Del(ctx, profileKeyPrefix+authID).Err()
}

type cachedProfile struct {
	user    models.User
	expires time.Time
}

// MemoryProfileCache is the single-process fallback when Redis is not configured.
type MemoryProfileCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cachedProfile
}

func NewMemoryProfileCache(ttl time.Duration) *MemoryProfileCache {
	return &MemoryProfileCache{ttl: ttl, now: time.Now, entries: make(map[string]cachedProfile)}
}

func (c *MemoryProfileCache) Get(ctx context.Context, authID string) (models.User, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[authID]
	if !ok {
		return models.User{}, false, nil
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, authID)
		return models.User{}, false, nil
	}
	return e.user, true, nil
}

func (c *MemoryProfileCache) Set(ctx context.Context, u models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[u.AuthID] = cachedProfile{user: u, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryProfileCache) Invalidate(ctx context.Context, authID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, authID)
	return nil
}

var (
	_ interfaces.ProfileCache = (*RedisProfileCache)(nil)
	_ interfaces.ProfileCache = (*MemoryProfileCache)(nil)
)
