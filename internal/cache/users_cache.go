package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/redis/go-redis/v9"
)

const keyUsersList = "users:list"

// UsersCache keeps the full users list in Redis between reads. Writes
// invalidate the key, so a stale list can live at most one TTL.
type UsersCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUsersCache(rdb *redis.Client, ttl time.Duration) *UsersCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &UsersCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list, or nil on a miss.
func (c *UsersCache) GetList(ctx context.Context) ([]user.User, error) {
	b, err := c.rdb.Get(ctx, keyUsersList).Bytes()

	if err == redis.Nil {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var list []user.User

	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}

	return list, nil
}

func (c *UsersCache) SetList(ctx context.Context, list []user.User) error {
	b, err := json.Marshal(list)

	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, keyUsersList, b, c.ttl).Err()
}

// Invalidate drops the cached list after any write to the users table.
func (c *UsersCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyUsersList).Err()
}
