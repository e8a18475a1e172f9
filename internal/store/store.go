// Package store provides the TTL key-value stores backing override
// tokens and PIN rate-limit records. The in-memory implementation is
// the default for a single instance; the Redis implementation keeps
// rate limits and tokens consistent across instances.
package store

import (
	"context"
	"time"
)

// TTLStore is a key-value store where every entry expires. An expired
// entry is indistinguishable from an absent one, whether or not it has
// been physically purged yet.
type TTLStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns the value and true when the key exists and has not
	// expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
}
