// Package cache stores rendered diagram artifacts keyed by graph content and
// render options.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries under a local directory, for CLI use
//   - [RedisCache]: shared cache for the HTTP server and multiple instances
//
// All backends implement [Cache]. File and Redis caches also implement
// [Clearer] for the "cache clear" command.
//
// # Keys
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the graph content and
// every option that can change the output, so two requests share an entry
// only when they would render identical text. [ScopedKeyer] prefixes keys to
// separate tenants on a shared Redis.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered artifacts stay cached unless configured.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and reports how many were removed.
	Clear(ctx context.Context) (int, error)
}
