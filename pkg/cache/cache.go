// Package cache provides content-addressed caching for computed layouts.
//
// Layout computation is deterministic, so results are cached by a key
// derived from the content hash of the step stream plus the layout options.
// Three backends are provided:
//
//   - FileCache: directory of JSON entries, for CLI usage
//   - RedisCache: shared cache for the layout service
//   - NullCache: disables caching (tests, --no-cache)
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the expiration applied to cached layouts unless a backend
// is configured otherwise.
const DefaultTTL = 24 * time.Hour

// Cache stores opaque byte values under string keys with optional TTL.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey keys a computed layout by the trace content hash and the
	// options that influence the result.
	LayoutKey(traceHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the option fields that change layout output and must
// therefore participate in the cache key.
type LayoutKeyOpts struct {
	// Names is the hash of the agent display-name table; renaming an
	// agent changes labels and thus measured widths.
	Names string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// LayoutKey generates a key of the form "layout:<hash>".
func (k *DefaultKeyer) LayoutKey(traceHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", traceHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces when
// several deployments share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(traceHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(traceHash, opts)
}
