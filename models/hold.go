package models

import "time"

// SlotHold is an ephemeral exclusive claim on a slot key. Destroyed on
// release or TTL expiry.
type SlotHold struct {
	SlotKey   string    `json:"slotKey"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SlotHoldMetadata is the richer record kept alongside a hold, used to
// detect overlap with other candidate slots for the same staff, not just
// exact key collisions.
type SlotHoldMetadata struct {
	SlotKey      string    `json:"slotKey"`
	LocationID   string    `json:"locationId"`
	StaffID      string    `json:"staffId"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	ReservedFrom time.Time `json:"reservedFrom"`
	ReservedTo   time.Time `json:"reservedTo"`
	HeldBy       string    `json:"heldBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
