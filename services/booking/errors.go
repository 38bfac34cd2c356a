package booking

import "errors"

var (
	// ErrSlotHeld means another booker currently holds the slot.
	ErrSlotHeld = errors.New("slot is currently held by another booking")
	// ErrNoExclusivity means the hold store is unreachable and exclusive
	// ownership cannot be guaranteed; callers must not double-book.
	ErrNoExclusivity = errors.New("cannot guarantee slot exclusivity")
)
