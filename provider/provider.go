// Package provider defines the byte-store abstraction behind tokencount's
// provider-backed cache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation).
//
// Important: the keyspace "memo:<ns>:" is owned by tokencount. Foreign writes under
// that prefix fail wire validation and are deleted on read.
package provider

import (
	"context"
	"errors"
)

// ErrNotStored is returned by stores that had to drop an entry, either by refusing it or
// by evicting it later. Callers treat it as fatal for the run.
var ErrNotStored = errors.New("provider: entry not stored (evicted or rejected)")

// Provider is a minimal byte store.
// Must be safe for concurrent use and must be byte-for-byte transparent.
// Entries are written once per key and must stay readable until Close. A value must be
// visible to every caller once Set returned. A store that cannot keep an entry reports
// ErrNotStored from Set, or from the next Get/Set once it notices.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. May ignore cost if unsupported. A key that is already present
	// keeps its first value. ok=false means the write was not kept.
	Set(ctx context.Context, key string, value []byte, cost int64) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
