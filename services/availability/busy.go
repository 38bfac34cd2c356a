package availability

import "slotengine/models"

// BusyIndex aggregates time off, blocking exceptions, and existing
// appointment blocks into merged per-owner busy intervals.
type BusyIndex struct {
	Location []models.Interval
	Staff    map[string][]models.Interval
	Resource map[string][]models.Interval
}

// BuildBusyIndex collects busy time from the request's overrides and
// appointment blocks. OPEN exceptions are accepted as input but do not add
// back availability; only BLOCK exceptions remove it.
func BuildBusyIndex(req *models.AvailabilityRequest) BusyIndex {
	idx := BusyIndex{
		Staff:    make(map[string][]models.Interval),
		Resource: make(map[string][]models.Interval),
	}

	for _, ex := range req.Exceptions {
		if ex.Kind != models.ExceptionBlock {
			continue
		}
		iv := models.Interval{Start: ex.Start, End: ex.End}
		switch {
		case ex.StaffID != "":
			idx.Staff[ex.StaffID] = append(idx.Staff[ex.StaffID], iv)
		case ex.ResourceID != "":
			idx.Resource[ex.ResourceID] = append(idx.Resource[ex.ResourceID], iv)
		default:
			idx.Location = append(idx.Location, iv)
		}
	}

	for _, off := range req.TimeOffs {
		iv := models.Interval{Start: off.Start, End: off.End}
		switch {
		case off.StaffID != "":
			idx.Staff[off.StaffID] = append(idx.Staff[off.StaffID], iv)
		case off.ResourceID != "":
			idx.Resource[off.ResourceID] = append(idx.Resource[off.ResourceID], iv)
		default:
			idx.Location = append(idx.Location, iv)
		}
	}

	for _, appt := range req.Appointments {
		iv := models.Interval{Start: appt.Start, End: appt.End}
		if appt.StaffID != "" {
			idx.Staff[appt.StaffID] = append(idx.Staff[appt.StaffID], iv)
		}
		for _, resID := range appt.ResourceIDs {
			idx.Resource[resID] = append(idx.Resource[resID], iv)
		}
	}

	idx.Location = MergeIntervals(idx.Location)
	for id, ivs := range idx.Staff {
		idx.Staff[id] = MergeIntervals(ivs)
	}
	for id, ivs := range idx.Resource {
		idx.Resource[id] = MergeIntervals(ivs)
	}
	return idx
}
