package availability

import (
	"time"

	"slotengine/models"
	"slotengine/utils"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ResolveScheduleIntervals expands the schedules matching ownerKind+ownerID
// into concrete opening intervals within [from, to). Rules are evaluated
// per calendar day in the schedule's timezone; a rule inactive or outside
// its effective range contributes nothing. No matching schedule yields an
// empty result (callers apply their own inheritance policy).
func ResolveScheduleIntervals(schedules []models.Schedule, ownerKind models.OwnerKind, ownerID string, from, to time.Time) []models.Interval {
	if !to.After(from) {
		return nil
	}
	var out []models.Interval
	for _, sched := range schedules {
		if sched.OwnerKind != ownerKind || sched.OwnerID != ownerID {
			continue
		}
		out = append(out, expandSchedule(sched, from, to)...)
	}
	return MergeIntervals(out)
}

func expandSchedule(sched models.Schedule, from, to time.Time) []models.Interval {
	loc, err := time.LoadLocation(sched.Timezone)
	if err != nil {
		utils.GetLogger().Warn("invalid schedule timezone, falling back to UTC",
			zap.String("scheduleID", sched.ID), zap.String("timezone", sched.Timezone))
		loc = time.UTC
	}

	var out []models.Interval
	local := from.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	for ; day.Before(to); day = day.AddDate(0, 0, 1) {
		for _, rule := range sched.Rules {
			iv, ok := ruleIntervalForDay(rule, day)
			if !ok {
				continue
			}
			if iv.Start.Before(from) {
				iv.Start = from
			}
			if iv.End.After(to) {
				iv.End = to
			}
			if !iv.IsEmpty() {
				out = append(out, iv)
			}
		}
	}
	return out
}

// ruleIntervalForDay computes the local-midnight-relative interval a rule
// contributes to the given day, if any. day must be a local midnight.
func ruleIntervalForDay(rule models.ScheduleRule, day time.Time) (models.Interval, bool) {
	if !rule.Active || rule.EndMinute <= rule.StartMinute {
		return models.Interval{}, false
	}
	switch rule.Kind {
	case models.RuleWeekly:
		if day.Weekday() != rule.Weekday {
			return models.Interval{}, false
		}
	case models.RuleDate:
		if day.Format(dateLayout) != rule.Date {
			return models.Interval{}, false
		}
	default:
		return models.Interval{}, false
	}
	iv := models.Interval{
		Start: day.Add(time.Duration(rule.StartMinute) * time.Minute),
		End:   day.Add(time.Duration(rule.EndMinute) * time.Minute),
	}
	if rule.EffectiveFrom != nil && !iv.End.After(*rule.EffectiveFrom) {
		return models.Interval{}, false
	}
	if rule.EffectiveTo != nil && !iv.Start.Before(*rule.EffectiveTo) {
		return models.Interval{}, false
	}
	return iv, true
}
