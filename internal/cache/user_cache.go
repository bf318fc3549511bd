package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contacts_api/internal/model"

	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "user:id:"

// DefaultUserTTL bounds how stale a cached user (and therefore its role) can be.
const DefaultUserTTL = 15 * time.Minute

// UserCache is a Redis-backed cache for authenticated users, so the current
// user is not re-read from Postgres on every request.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache constructs a UserCache. A zero ttl falls back to DefaultUserTTL.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

// Get returns the cached user, or (nil, nil) on a cache miss.
func (c *UserCache) Get(ctx context.Context, id int) (*model.User, error) {
	key := fmt.Sprintf("%s%d", userKeyPrefix, id)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user from cache: %w", err)
	}

	user := &model.User{}
	if err := json.Unmarshal(data, user); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten on Set.
		return nil, nil
	}
	return user, nil
}

// Set stores a user with the configured TTL
func (c *UserCache) Set(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user for cache: %w", err)
	}
	key := fmt.Sprintf("%s%d", userKeyPrefix, user.ID)
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate drops a user from the cache, e.g. after a role or token change
func (c *UserCache) Invalidate(ctx context.Context, id int) error {
	key := fmt.Sprintf("%s%d", userKeyPrefix, id)
	return c.client.Del(ctx, key).Err()
}
