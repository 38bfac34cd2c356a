// Package holds gives a caller exclusive, time-boxed ownership of one
// slot key while a booking transaction completes elsewhere. The only
// state machine is Free → Held(token, expiresAt) → Free, on explicit
// release or TTL expiry; re-acquisition before expiry always fails.
package holds

import (
	"context"
	"time"

	"slotengine/models"
)

// Store is the injected hold persistence capability. Implementations must
// make Acquire an atomic set-if-absent with TTL, and Release/Extend atomic
// compare-token-then-mutate operations: a caller can never release or
// extend another caller's hold.
type Store interface {
	// Acquire sets the hold only if the slot key is currently free.
	Acquire(ctx context.Context, slotKey, token string, meta models.SlotHoldMetadata, ttl time.Duration) (bool, error)
	// Release deletes the hold only when the stored token matches.
	Release(ctx context.Context, slotKey, token string) (bool, error)
	// Extend resets the expiry only when the stored token matches.
	Extend(ctx context.Context, slotKey, token string, ttl time.Duration) (bool, error)
	// Get returns the active hold for slotKey, or nil when free/expired.
	Get(ctx context.Context, slotKey string) (*models.SlotHold, error)
	// ScanByLocation lists metadata for all active holds at a location.
	ScanByLocation(ctx context.Context, locationID string) ([]models.SlotHoldMetadata, error)
}
