package availability

import (
	"sort"
	"time"

	"slotengine/models"
	"slotengine/utils"

	"go.uber.org/zap"
)

// DefaultSlotGranularityMin is the candidate grid step used when the
// request does not specify one.
const DefaultSlotGranularityMin = 5

// ComputeAvailability walks a time grid over every candidate staff
// member's working intervals and emits a slot for each start time at which
// the full service sequence (buffers, steps, resource requirements) fits.
// Infeasible input (empty window, no services, no staff) yields no slots.
// The computation is stateless and side-effect-free.
func ComputeAvailability(req models.AvailabilityRequest) []models.AvailabilitySlot {
	logger := utils.GetLogger()
	if !req.To.After(req.From) || len(req.Services) == 0 {
		return nil
	}
	plan := buildServicePlan(req.Services)
	if len(plan.Steps) == 0 || plan.Total <= 0 {
		return nil
	}

	gran := req.SlotGranularityMinutes
	if gran <= 0 {
		gran = DefaultSlotGranularityMin
	}
	gridStep := time.Duration(gran) * time.Minute

	qc := buildQueryContext(&req)
	if len(qc.LocationFree) == 0 {
		return nil
	}

	var slots []models.AvailabilitySlot
	for _, st := range req.Staff {
		if req.StaffID != "" && st.ID != req.StaffID {
			continue
		}
		work := qc.StaffWork[st.ID]
		if len(work) == 0 {
			logger.Debug("staff has no working intervals in window",
				zap.String("staffID", st.ID), zap.String("locationID", req.LocationID))
			continue
		}
		for _, block := range work {
			first := AlignToGrid(block.Start, req.From, gridStep)
			latest := block.End.Add(-plan.Total)
			for t := first; !t.After(latest); t = t.Add(gridStep) {
				if slot, ok := evaluateCandidate(&req, plan, qc, st.ID, t); ok {
					slots = append(slots, *slot)
				}
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Start.Equal(slots[j].Start) {
			return slots[i].StaffID < slots[j].StaffID
		}
		return slots[i].Start.Before(slots[j].Start)
	})
	return slots
}

// evaluateCandidate checks whether the full plan fits starting at t for
// the given staff member and, if so, builds the slot with its concrete
// per-step allocations.
func evaluateCandidate(req *models.AvailabilityRequest, plan servicePlan, qc *queryContext, staffID string, t time.Time) (*models.AvailabilitySlot, bool) {
	reservedFrom := t.Add(-plan.PreBuffer)
	if reservedFrom.Before(req.From) {
		return nil, false
	}

	work := qc.StaffWork[staffID]
	free := qc.StaffFree[staffID]

	// Quick containment check for the nominal reserved window before the
	// step walk; the walk re-verifies the actual window, which may extend
	// past t+Total when later services carry pre-buffers.
	nominalEnd := t.Add(plan.Total)
	if !IsRangeWithin(qc.LocationFree, reservedFrom, nominalEnd) ||
		!IsRangeWithin(work, reservedFrom, nominalEnd) {
		return nil, false
	}

	cursor := reservedFrom
	var services []models.ServiceAllocation
	var visibleStart, visibleEnd time.Time

	for i, ps := range plan.Steps {
		if ps.PreBuffer > 0 {
			bufEnd := cursor.Add(ps.PreBuffer)
			if !IsRangeWithin(qc.LocationFree, cursor, bufEnd) ||
				!IsRangeWithin(free, cursor, bufEnd) {
				return nil, false
			}
			cursor = bufEnd
		}

		stepEnd := cursor.Add(ps.Duration)
		if !IsRangeWithin(qc.LocationFree, cursor, stepEnd) {
			return nil, false
		}
		if ps.RequiresStaff && !IsRangeWithin(free, cursor, stepEnd) {
			return nil, false
		}
		if len(ps.AllowedStaff) > 0 && !containsString(ps.AllowedStaff, staffID) {
			return nil, false
		}

		alloc := models.StepAllocation{StepID: ps.StepID, Start: cursor, End: stepEnd}
		taken := make(map[string]bool)
		for _, reqm := range ps.Requirements {
			ids, ok := allocateResources(reqm, cursor, stepEnd, qc, taken)
			if !ok {
				return nil, false
			}
			for _, id := range ids {
				taken[id] = true
			}
			alloc.ResourceIDs = append(alloc.ResourceIDs, ids...)
		}

		if i == 0 {
			visibleStart = cursor
		}
		visibleEnd = stepEnd
		appendStepAllocation(&services, ps.ServiceID, alloc)
		cursor = stepEnd

		if ps.PostBuffer > 0 {
			bufEnd := cursor.Add(ps.PostBuffer)
			if !IsRangeWithin(qc.LocationFree, cursor, bufEnd) ||
				!IsRangeWithin(free, cursor, bufEnd) {
				return nil, false
			}
			cursor = bufEnd
		}
	}

	reservedTo := cursor
	if reservedTo.After(req.To) {
		return nil, false
	}
	if !IsRangeWithin(qc.LocationFree, reservedFrom, reservedTo) ||
		!IsRangeWithin(work, reservedFrom, reservedTo) {
		return nil, false
	}

	slot := &models.AvailabilitySlot{
		StaffID:      staffID,
		Services:     services,
		Start:        visibleStart,
		End:          visibleEnd,
		ReservedFrom: reservedFrom,
		ReservedTo:   reservedTo,
	}
	slot.SlotKey = SlotKey(req.LocationID, staffID, visibleStart, services)
	return slot, true
}

func appendStepAllocation(services *[]models.ServiceAllocation, serviceID string, alloc models.StepAllocation) {
	if n := len(*services); n > 0 && (*services)[n-1].ServiceID == serviceID {
		(*services)[n-1].Steps = append((*services)[n-1].Steps, alloc)
		return
	}
	*services = append(*services, models.ServiceAllocation{
		ServiceID: serviceID,
		Steps:     []models.StepAllocation{alloc},
	})
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
