// Package cache is the process-wide key/value cache with per-key TTL used
// for blacklist lookups and user rights. Values are JSON encoded so the
// in-memory and redis drivers store the same bytes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrClosed = errors.New("cache: closed")

// Cache stores JSON-encodable values with a TTL.
type Cache interface {
	// Get decodes the value at key into dst. A missing or expired key
	// returns false with no error.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set stores v under key for ttl. A zero ttl means no expiry.
	Set(ctx context.Context, key string, v any, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
}

// Key helpers. The prefixes match the keys already present in shared
// deployments, so do not change them.
func BlacklistedTokenKey(jti string) string { return "blacklistedToken_" + jti }
func UserRightsKey(userUUID string) string  { return "getUserRights_" + userUUID }

func encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func decode(b []byte, dst any) error {
	return json.Unmarshal(b, dst)
}
