package availability

import (
	"fmt"
	"sort"
	"time"

	"slotengine/models"
	"slotengine/utils"

	"go.uber.org/zap"
)

const hourKeyLayout = "2006-01-02T15"

// slotScore measures how much of a free block a slot leaves unusable:
// idle minutes before its reserved start and after its reserved end (the
// configured buffer counts as unusable trailing time), plus how many of
// those idle fragments are too short to host another booking.
type slotScore struct {
	Waste    int
	BadFrags int
}

// ComputeSmartSlots runs the secondary optimization pass: it scores every
// fine-grained candidate against the best grid slot of its staff-free
// block and keeps only off-grid start times that reduce wasted minutes by
// at least the configured threshold or strictly reduce the count of
// unusable fragments, capped per local clock hour. Accepted slots are the
// original candidates flagged IsSmart.
func ComputeSmartSlots(req models.AvailabilityRequest, uiSlots, fineSlots []models.AvailabilitySlot, cfg models.SmartSlotConfig) ([]models.AvailabilitySlot, error) {
	if cfg.StepEngineMin <= 0 || cfg.StepUIMin <= 0 {
		return nil, fmt.Errorf("smart slots: step sizes must be positive (ui=%d engine=%d)", cfg.StepUIMin, cfg.StepEngineMin)
	}
	if cfg.StepUIMin%cfg.StepEngineMin != 0 {
		return nil, fmt.Errorf("smart slots: engine step %d must evenly divide ui step %d", cfg.StepEngineMin, cfg.StepUIMin)
	}
	if len(fineSlots) == 0 {
		return nil, nil
	}

	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			utils.GetLogger().Warn("invalid smart slot timezone, using UTC",
				zap.String("timezone", cfg.Timezone))
		} else {
			loc = l
		}
	}

	qc := buildQueryContext(&req)
	uiByStaff := groupByStaff(uiSlots)
	fineByStaff := groupByStaff(fineSlots)

	var accepted []models.AvailabilitySlot
	for staffID, blocks := range qc.StaffFree {
		fine := fineByStaff[staffID]
		if len(fine) == 0 {
			continue
		}
		ui := uiByStaff[staffID]
		for _, block := range blocks {
			baseline := blockBaseline(ui, block, cfg)
			hourCount := make(map[string]int)
			for _, cand := range fine {
				if !slotInBlock(cand, block) {
					continue
				}
				offset := gridOffsetMinutes(cand.Start, req.From, cfg.StepUIMin)
				if offset == 0 || offset > cfg.MaxGridOffset {
					continue
				}
				score := scoreSlot(cand, block, cfg)
				score.Waste += offset
				if baseline.Waste-score.Waste < cfg.MinWasteSaved && score.BadFrags >= baseline.BadFrags {
					continue
				}
				hourKey := cand.Start.In(loc).Format(hourKeyLayout)
				if cfg.MaxPerHour > 0 && hourCount[hourKey] >= cfg.MaxPerHour {
					continue
				}
				hourCount[hourKey]++
				smart := cand
				smart.IsSmart = true
				accepted = append(accepted, smart)
			}
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		if accepted[i].Start.Equal(accepted[j].Start) {
			return accepted[i].StaffID < accepted[j].StaffID
		}
		return accepted[i].Start.Before(accepted[j].Start)
	})
	return accepted, nil
}

// blockBaseline is the best-scoring grid slot inside the block, or a
// synthetic baseline representing the block's own raw length and
// fragment-badness when no grid slot fits it.
func blockBaseline(ui []models.AvailabilitySlot, block models.Interval, cfg models.SmartSlotConfig) slotScore {
	best := slotScore{Waste: -1}
	for _, s := range ui {
		if !slotInBlock(s, block) {
			continue
		}
		score := scoreSlot(s, block, cfg)
		if best.Waste < 0 || score.Waste < best.Waste ||
			(score.Waste == best.Waste && score.BadFrags < best.BadFrags) {
			best = score
		}
	}
	if best.Waste >= 0 {
		return best
	}
	length := int(block.End.Sub(block.Start).Minutes())
	synthetic := slotScore{Waste: length}
	if length > 0 && length < cfg.MinUsableGapMin {
		synthetic.BadFrags = 1
	}
	return synthetic
}

func scoreSlot(s models.AvailabilitySlot, block models.Interval, cfg models.SmartSlotConfig) slotScore {
	before := int(s.ReservedFrom.Sub(block.Start).Minutes())
	after := int(block.End.Sub(s.ReservedTo).Minutes()) - cfg.BufferMin
	if after < 0 {
		after = 0
	}
	var bad int
	if before > 0 && before < cfg.MinUsableGapMin {
		bad++
	}
	if after > 0 && after < cfg.MinUsableGapMin {
		bad++
	}
	return slotScore{Waste: before + after, BadFrags: bad}
}

func slotInBlock(s models.AvailabilitySlot, block models.Interval) bool {
	return !s.ReservedFrom.Before(block.Start) && !s.ReservedTo.After(block.End)
}

// gridOffsetMinutes is the distance from start to the nearest UI grid
// point, measured from the query window origin.
func gridOffsetMinutes(start, origin time.Time, stepUIMin int) int {
	diff := int(start.Sub(origin).Minutes())
	mod := diff % stepUIMin
	if mod < 0 {
		mod += stepUIMin
	}
	if stepUIMin-mod < mod {
		return stepUIMin - mod
	}
	return mod
}

func groupByStaff(slots []models.AvailabilitySlot) map[string][]models.AvailabilitySlot {
	out := make(map[string][]models.AvailabilitySlot)
	for _, s := range slots {
		out[s.StaffID] = append(out[s.StaffID], s)
	}
	return out
}
