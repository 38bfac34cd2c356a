package booking

import (
	"context"
	"fmt"

	"slotengine/models"
	"slotengine/utils"

	"go.uber.org/zap"
)

// Committer persists a booking in the external system of record. The slot
// engine never stores bookings durably itself.
type Committer interface {
	Commit(ctx context.Context, slot models.AvailabilitySlot) error
}

// FinalizeBooking acquires an exclusive hold on the slot, runs the
// external commit, and releases the hold. A failed commit releases the
// hold immediately; a crashed caller self-heals via TTL expiry.
func (s *AvailabilityService) FinalizeBooking(ctx context.Context, locationID, heldBy string, slot models.AvailabilitySlot, committer Committer) error {
	logger := utils.GetLogger()

	hold, err := s.Holds.Acquire(ctx, locationID, heldBy, slot)
	if err != nil {
		logger.Error("hold acquisition failed",
			zap.String("slotKey", slot.SlotKey), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrNoExclusivity, err)
	}
	if hold == nil {
		return ErrSlotHeld
	}

	if err := committer.Commit(ctx, slot); err != nil {
		if !s.Holds.Release(ctx, hold.SlotKey, hold.Token) {
			logger.Warn("failed to release hold after commit error",
				zap.String("slotKey", hold.SlotKey))
		}
		return fmt.Errorf("committing booking: %w", err)
	}

	if !s.Holds.Release(ctx, hold.SlotKey, hold.Token) {
		// The hold will lapse on its own; the booking is already durable.
		logger.Warn("hold already expired at release", zap.String("slotKey", hold.SlotKey))
	}
	return nil
}
