package availability

import "slotengine/models"

// queryContext holds the derived free-interval sets a query works against.
// StaffWork is schedule-level working time (location-free ∩ staff
// schedule); StaffFree additionally subtracts the staff member's busy
// time. Steps that do not require staff presence are checked against
// working time only, so an unstaffed processing step may run while the
// staff member is otherwise occupied.
type queryContext struct {
	LocationFree []models.Interval
	StaffWork    map[string][]models.Interval
	StaffFree    map[string][]models.Interval
	ResourceFree map[string][]models.Interval
	Resources    []models.Resource
}

func buildQueryContext(req *models.AvailabilityRequest) *queryContext {
	locSched := ResolveScheduleIntervals(req.Schedules, models.OwnerLocation, "", req.From, req.To)
	busy := BuildBusyIndex(req)
	locFree := SubtractIntervals(ClampIntervals(locSched, req.From, req.To), busy.Location)

	qc := &queryContext{
		LocationFree: locFree,
		StaffWork:    make(map[string][]models.Interval, len(req.Staff)),
		StaffFree:    make(map[string][]models.Interval, len(req.Staff)),
		ResourceFree: make(map[string][]models.Interval, len(req.Resources)),
		Resources:    req.Resources,
	}

	for _, st := range req.Staff {
		sched := ResolveScheduleIntervals(req.Schedules, models.OwnerStaff, st.ID, req.From, req.To)
		work := locFree
		if len(sched) > 0 {
			// A staff member without a schedule inherits location hours.
			work = IntersectIntervals(locFree, sched)
		}
		qc.StaffWork[st.ID] = work
		qc.StaffFree[st.ID] = SubtractIntervals(work, busy.Staff[st.ID])
	}

	for _, res := range req.Resources {
		sched := ResolveScheduleIntervals(req.Schedules, models.OwnerResource, res.ID, req.From, req.To)
		base := locFree
		if len(sched) > 0 {
			base = IntersectIntervals(locFree, sched)
		}
		qc.ResourceFree[res.ID] = SubtractIntervals(base, busy.Resource[res.ID])
	}

	return qc
}
