package availability

import (
	"time"

	"slotengine/models"
)

// allocateResources picks concrete resources for one requirement over the
// step window [start, end). Candidates are the explicit id list (limited
// to resources known in this context) or, with a type fallback, every
// resource of that type, tried in order. The choice is greedy with no
// backtracking across requirements or steps. An unmet optional requirement
// allocates zero resources; an unmet required one rejects the candidate
// start entirely.
func allocateResources(reqm models.ResourceRequirement, start, end time.Time, qc *queryContext, taken map[string]bool) ([]string, bool) {
	quantity := reqm.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	var candidates []string
	if len(reqm.ResourceIDs) > 0 {
		for _, id := range reqm.ResourceIDs {
			if _, known := qc.ResourceFree[id]; known {
				candidates = append(candidates, id)
			}
		}
	} else if reqm.ResourceType != "" {
		for _, res := range qc.Resources {
			if res.Type == reqm.ResourceType {
				candidates = append(candidates, res.ID)
			}
		}
	}

	var picked []string
	for _, id := range candidates {
		if taken[id] {
			continue
		}
		if !IsRangeWithin(qc.ResourceFree[id], start, end) {
			continue
		}
		picked = append(picked, id)
		if len(picked) == quantity {
			return picked, true
		}
	}

	if reqm.Optional {
		return nil, true
	}
	return nil, false
}
