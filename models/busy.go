package models

import "time"

// TimeOff removes availability for a location, optionally narrowed to one
// staff member or one resource. Lifecycle is owned by the external system.
type TimeOff struct {
	ID         string    `json:"id"`
	LocationID string    `json:"locationId"`
	StaffID    string    `json:"staffId,omitempty"`
	ResourceID string    `json:"resourceId,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// ExceptionKind distinguishes blocking overrides from (currently inert)
// reopening overrides.
type ExceptionKind string

const (
	ExceptionBlock ExceptionKind = "BLOCK"
	ExceptionOpen  ExceptionKind = "OPEN"
)

// AvailabilityException is an ad-hoc point-in-time override. Only BLOCK
// exceptions remove availability; OPEN is accepted as input but not applied.
type AvailabilityException struct {
	ID         string        `json:"id"`
	LocationID string        `json:"locationId"`
	StaffID    string        `json:"staffId,omitempty"`
	ResourceID string        `json:"resourceId,omitempty"`
	Kind       ExceptionKind `json:"kind"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
}

// AppointmentBlock is an already-committed or in-flight reservation's time
// window, treated purely as busy time for the staff and resources it names.
type AppointmentBlock struct {
	ID          string    `json:"id"`
	StaffID     string    `json:"staffId,omitempty"`
	ResourceIDs []string  `json:"resourceIds,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}
