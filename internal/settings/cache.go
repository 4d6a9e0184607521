package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Cache is a read-through Redis cache in front of a settings Store. Settings
// are read on every checkout and callback but change only through the admin
// screen, so cached copies are invalidated on save rather than expired
// aggressively.
type Cache struct {
	Store Store
	R     *redis.Client
	TTL   time.Duration
}

func cacheKey(storeID int64) string {
	return fmt.Sprintf("paypoint:settings:%d", storeID)
}

// Load returns the cached settings for the scope, falling back to the
// underlying store (and repopulating the cache) on a miss. Redis errors
// degrade to a direct store read.
func (c *Cache) Load(ctx context.Context, storeID int64) (Settings, error) {
	if c == nil || c.Store == nil {
		return Settings{}, errors.New("settings cache not configured")
	}
	if c.R == nil {
		return c.Store.Load(ctx, storeID)
	}

	if raw, err := c.R.Get(ctx, cacheKey(storeID)).Bytes(); err == nil {
		var cached Settings
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	loaded, err := c.Store.Load(ctx, storeID)
	if err != nil {
		return Settings{}, err
	}
	if raw, err := json.Marshal(loaded); err == nil {
		ttl := c.TTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		_ = c.R.Set(ctx, cacheKey(storeID), raw, ttl).Err()
	}
	return loaded, nil
}

// Save persists through to the store and invalidates both the edited scope
// and the global scope, since non-global scopes inherit from it.
func (c *Cache) Save(ctx context.Context, storeID int64, s Settings, ov Overrides) error {
	if c == nil || c.Store == nil {
		return errors.New("settings cache not configured")
	}
	if err := c.Store.Save(ctx, storeID, s, ov); err != nil {
		return err
	}
	if c.R != nil {
		_ = c.R.Del(ctx, cacheKey(storeID), cacheKey(0)).Err()
	}
	return nil
}

// Overrides delegates to the underlying store; override flags are only read
// by the admin screen and are not worth caching.
func (c *Cache) Overrides(ctx context.Context, storeID int64) (Overrides, error) {
	if c == nil || c.Store == nil {
		return Overrides{}, errors.New("settings cache not configured")
	}
	return c.Store.Overrides(ctx, storeID)
}
