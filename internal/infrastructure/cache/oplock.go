package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpLock serializes long-running outbound operations (PDF generation, email
// send) to at most one in flight per (application, property-group) key.
// Locks self-expire so a crashed caller never wedges an application.
type OpLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOpLock(rdb *redis.Client, ttl time.Duration) *OpLock {
	return &OpLock{rdb: rdb, ttl: ttl}
}

func lockKey(kind, applicationID, groupID string) string {
	k := "op:" + kind + ":" + applicationID
	if groupID != "" {
		k += ":" + groupID
	}
	return k
}

// Acquire returns false when an equivalent operation is already in flight.
func (l *OpLock) Acquire(ctx context.Context, kind, applicationID, groupID string) (bool, error) {
	return l.rdb.SetNX(ctx, lockKey(kind, applicationID, groupID), time.Now().UTC().Format(time.RFC3339Nano), l.ttl).Result()
}

func (l *OpLock) Release(ctx context.Context, kind, applicationID, groupID string) error {
	return l.rdb.Del(ctx, lockKey(kind, applicationID, groupID)).Err()
}
