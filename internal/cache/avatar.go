// Package cache holds the Redis-backed byte cache in front of the public
// avatar endpoint. Avatars are immutable between uploads, so cached bytes
// stay correct as long as every mutation invalidates the key.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const avatarTTL = 10 * time.Minute

// AvatarCache stores normalized avatar PNG bytes keyed by user id. A nil
// Redis client disables the cache entirely; every method degrades to a
// no-op and the handler falls through to the database.
type AvatarCache struct {
	rdb *redis.Client
}

func NewAvatarCache(rdb *redis.Client) *AvatarCache { return &AvatarCache{rdb: rdb} }

func key(userID uint64) string { return fmt.Sprintf("avatar:%d", userID) }

// Get returns the cached bytes and whether the key was present. Cache
// errors are treated as misses; the database remains the source of truth.
func (a *AvatarCache) Get(ctx context.Context, userID uint64) ([]byte, bool) {
	if a == nil || a.rdb == nil {
		return nil, false
	}
	b, err := a.rdb.Get(ctx, key(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

// Set stores avatar bytes with a TTL. Failures are ignored.
func (a *AvatarCache) Set(ctx context.Context, userID uint64, pngBytes []byte) {
	if a == nil || a.rdb == nil {
		return
	}
	_ = a.rdb.Set(ctx, key(userID), pngBytes, avatarTTL).Err()
}

// Invalidate drops the cached bytes after an upload, a clear or an
// account deletion.
func (a *AvatarCache) Invalidate(ctx context.Context, userID uint64) {
	if a == nil || a.rdb == nil {
		return
	}
	_ = a.rdb.Del(ctx, key(userID)).Err()
}
