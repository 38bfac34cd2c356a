package booking

import (
	"context"
	"fmt"
	"sort"

	"slotengine/models"
	"slotengine/services/availability"
	"slotengine/services/holds"
	"slotengine/services/slotcache"
	"slotengine/utils"

	"go.uber.org/zap"
)

// AvailabilityService is the query-side orchestrator: schedule resolution,
// busy indexing, and the engine run behind a read-through cache, with the
// result filtered against active holds before it is returned.
type AvailabilityService struct {
	Cache *slotcache.SlotCache
	Holds *holds.Manager
}

// SlotQuery wraps an engine request with the presentation inputs that
// participate in cache keying.
type SlotQuery struct {
	Request models.AvailabilityRequest
	Mode    string
	// DeviceID and ColorPrecheck are personalization inputs; they never
	// change the computation, only the cache key.
	DeviceID      string
	ColorPrecheck string
	// Smart enables the smart-slot pass when non-nil.
	Smart *models.SmartSlotConfig
}

// GetAvailableSlots computes (or retrieves) the slot list for a query and
// removes slots conflicting with active holds. Hold filtering always runs
// on the freshly read result; holds are never cached.
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, q SlotQuery) ([]models.AvailabilitySlot, error) {
	logger := utils.GetLogger()

	gran := q.Request.SlotGranularityMinutes
	if gran <= 0 {
		gran = availability.DefaultSlotGranularityMin
	}
	var fingerprint string
	if q.Smart != nil {
		fingerprint = q.Smart.Fingerprint()
	}
	key := slotcache.BuildKey(slotcache.KeyParams{
		LocationID:         q.Request.LocationID,
		From:               q.Request.From,
		To:                 q.Request.To,
		Mode:               q.Mode,
		ServiceIDs:         q.Request.ServiceIDs(),
		StaffID:            q.Request.StaffID,
		SlotGranularityMin: gran,
		SmartFingerprint:   fingerprint,
		DeviceID:           q.DeviceID,
		ColorPrecheck:      q.ColorPrecheck,
	})

	slots, hit := s.Cache.Get(ctx, key)
	if !hit {
		var err error
		slots, err = s.computeSlots(q)
		if err != nil {
			return nil, err
		}
		s.Cache.Set(ctx, key, slots)
	} else {
		logger.Debug("slot cache hit", zap.String("key", key), zap.Int("slots", len(slots)))
	}

	if s.Holds != nil {
		slots = s.Holds.FilterHeldSlots(ctx, q.Request.LocationID, slots)
	}
	return slots, nil
}

func (s *AvailabilityService) computeSlots(q SlotQuery) ([]models.AvailabilitySlot, error) {
	uiSlots := availability.ComputeAvailability(q.Request)
	if q.Smart == nil {
		return uiSlots, nil
	}

	cfg := *q.Smart
	if cfg.StepUIMin <= 0 {
		cfg.StepUIMin = q.Request.SlotGranularityMinutes
		if cfg.StepUIMin <= 0 {
			cfg.StepUIMin = availability.DefaultSlotGranularityMin
		}
	}
	fineReq := q.Request
	fineReq.SlotGranularityMinutes = cfg.StepEngineMin
	fineSlots := availability.ComputeAvailability(fineReq)

	smart, err := availability.ComputeSmartSlots(q.Request, uiSlots, fineSlots, cfg)
	if err != nil {
		return nil, fmt.Errorf("smart slot pass failed: %w", err)
	}
	if len(smart) == 0 {
		return uiSlots, nil
	}

	merged := append(uiSlots, smart...)
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Start.Equal(merged[j].Start) {
			return merged[i].StaffID < merged[j].StaffID
		}
		return merged[i].Start.Before(merged[j].Start)
	})
	return merged, nil
}
