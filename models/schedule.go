package models

import "time"

// OwnerKind identifies whose opening hours a schedule describes.
type OwnerKind string

const (
	OwnerLocation OwnerKind = "LOCATION"
	OwnerStaff    OwnerKind = "STAFF"
	OwnerResource OwnerKind = "RESOURCE"
)

// RuleKind distinguishes recurring weekday rules from single-date rules.
type RuleKind string

const (
	RuleWeekly RuleKind = "WEEKLY"
	RuleDate   RuleKind = "DATE"
)

// ScheduleRule contributes an interval to a calendar day when it is active,
// the day falls within its effective bounds, and the day matches its weekday
// (WEEKLY) or exact date (DATE). Minutes are offsets from local midnight.
type ScheduleRule struct {
	ID            string       `json:"id"`
	Kind          RuleKind     `json:"kind"`
	Weekday       time.Weekday `json:"weekday,omitempty"`
	Date          string       `json:"date,omitempty"` // "2006-01-02" in the schedule's timezone
	StartMinute   int          `json:"startMinute"`
	EndMinute     int          `json:"endMinute"`
	Active        bool         `json:"active"`
	EffectiveFrom *time.Time   `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time   `json:"effectiveTo,omitempty"`
}

// Schedule belongs to exactly one owner. OwnerID is empty when the owner is
// the location itself.
type Schedule struct {
	ID        string         `json:"id"`
	OwnerKind OwnerKind      `json:"ownerKind"`
	OwnerID   string         `json:"ownerId,omitempty"`
	Timezone  string         `json:"timezone"`
	Rules     []ScheduleRule `json:"rules"`
}
