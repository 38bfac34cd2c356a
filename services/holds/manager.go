package holds

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"slotengine/models"
	"slotengine/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultAcquireAttempts = 3
	defaultRetryDelay      = 100 * time.Millisecond
)

// Manager wraps a Store with token generation, bounded acquisition
// retries, external hold references, and hold-aware slot filtering.
type Manager struct {
	Store Store
	// TTL is the default hold duration.
	TTL time.Duration
	// AcquireAttempts bounds retries on store connectivity errors; an
	// already-held key is never retried.
	AcquireAttempts int
	RetryDelay      time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{
		Store:           store,
		TTL:             ttl,
		AcquireAttempts: defaultAcquireAttempts,
		RetryDelay:      defaultRetryDelay,
	}
}

// Acquire claims exclusive ownership of the slot for the manager's TTL.
// It returns nil (and no error) when the slot is already held by someone
// else, and an error when the store cannot currently guarantee
// exclusivity; callers must not proceed with a booking in either case.
func (m *Manager) Acquire(ctx context.Context, locationID, heldBy string, slot models.AvailabilitySlot) (*models.SlotHold, error) {
	token := uuid.NewString()
	now := time.Now()
	meta := models.SlotHoldMetadata{
		SlotKey:      slot.SlotKey,
		LocationID:   locationID,
		StaffID:      slot.StaffID,
		Start:        slot.Start,
		End:          slot.End,
		ReservedFrom: slot.ReservedFrom,
		ReservedTo:   slot.ReservedTo,
		HeldBy:       heldBy,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.TTL),
	}

	attempts := m.AcquireAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && m.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(m.RetryDelay):
			}
		}
		ok, err := m.Store.Acquire(ctx, slot.SlotKey, token, meta, m.TTL)
		if err != nil {
			lastErr = err
			continue
		}
		if !ok {
			return nil, nil
		}
		return &models.SlotHold{SlotKey: slot.SlotKey, Token: token, ExpiresAt: meta.ExpiresAt}, nil
	}
	return nil, fmt.Errorf("hold store unavailable: %w", lastErr)
}

// Release gives up a hold. It returns false when the token does not match
// the current holder or the hold has already expired.
func (m *Manager) Release(ctx context.Context, slotKey, token string) bool {
	ok, err := m.Store.Release(ctx, slotKey, token)
	if err != nil {
		utils.GetLogger().Warn("hold release failed", zap.String("slotKey", slotKey), zap.Error(err))
		return false
	}
	return ok
}

// Extend resets the hold's expiry to TTL from now, with the same
// ownership check as Release.
func (m *Manager) Extend(ctx context.Context, slotKey, token string) bool {
	ok, err := m.Store.Extend(ctx, slotKey, token, m.TTL)
	if err != nil {
		utils.GetLogger().Warn("hold extend failed", zap.String("slotKey", slotKey), zap.Error(err))
		return false
	}
	return ok
}

// Verify reports whether the caller still owns an unexpired hold.
func (m *Manager) Verify(ctx context.Context, slotKey, token string) bool {
	hold, err := m.Store.Get(ctx, slotKey)
	if err != nil {
		utils.GetLogger().Warn("hold lookup failed", zap.String("slotKey", slotKey), zap.Error(err))
		return false
	}
	return hold != nil && hold.Token == token
}

// holdRef is the external encoding of a hold: the pair a caller needs to
// carry across a multi-step flow without a server-side session.
type holdRef struct {
	SlotKey string `json:"slotKey"`
	Token   string `json:"token"`
}

// EncodeHoldRef packs a slot key and token into an opaque base64url string.
func EncodeHoldRef(slotKey, token string) string {
	data, _ := json.Marshal(holdRef{SlotKey: slotKey, Token: token})
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeHoldRef reverses EncodeHoldRef.
func DecodeHoldRef(ref string) (slotKey, token string, err error) {
	data, err := base64.RawURLEncoding.DecodeString(ref)
	if err != nil {
		return "", "", fmt.Errorf("decoding hold ref: %w", err)
	}
	var r holdRef
	if err := json.Unmarshal(data, &r); err != nil {
		return "", "", fmt.Errorf("decoding hold ref: %w", err)
	}
	if r.SlotKey == "" || r.Token == "" {
		return "", "", fmt.Errorf("decoding hold ref: missing fields")
	}
	return r.SlotKey, r.Token, nil
}

// FilterHeldSlots removes slots conflicting with active holds at the
// location: exact key matches, and any slot whose reserved window overlaps
// a held slot's reserved window for the same staff member (holding one
// representation of a time span makes every derived variant unavailable).
// When the store cannot be read the input is returned unfiltered; holds
// still protect the booking path at acquisition time.
func (m *Manager) FilterHeldSlots(ctx context.Context, locationID string, slots []models.AvailabilitySlot) []models.AvailabilitySlot {
	metas, err := m.Store.ScanByLocation(ctx, locationID)
	if err != nil {
		utils.GetLogger().Warn("hold scan failed, returning unfiltered slots",
			zap.String("locationID", locationID), zap.Error(err))
		return slots
	}
	if len(metas) == 0 {
		return slots
	}

	heldKeys := make(map[string]bool, len(metas))
	for _, meta := range metas {
		heldKeys[meta.SlotKey] = true
	}

	out := slots[:0:0]
	for _, slot := range slots {
		if heldKeys[slot.SlotKey] {
			continue
		}
		conflict := false
		for _, meta := range metas {
			if meta.StaffID != slot.StaffID {
				continue
			}
			held := models.Interval{Start: meta.ReservedFrom, End: meta.ReservedTo}
			if held.Overlaps(models.Interval{Start: slot.ReservedFrom, End: slot.ReservedTo}) {
				conflict = true
				break
			}
		}
		if !conflict {
			out = append(out, slot)
		}
	}
	return out
}
