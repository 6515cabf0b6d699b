package redis

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a JSON cache-aside layer over the shared client. Entries are
// non-authoritative projections of database rows; a miss always falls
// through to the database and only found rows are cached.
type Cache struct {
	ttl time.Duration
}

// NewCache creates a cache with a fixed entry TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

// GetJSON loads key into dest. Returns false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := Get(ctx, key)
	if err != nil {
		if IsNil(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// A corrupt entry is treated as a miss; the caller re-warms it.
		_ = Del(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON stores value under key with the cache TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Set(ctx, key, raw, c.ttl)
}

// Invalidate removes the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return Del(ctx, keys...)
}
