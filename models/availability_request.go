package models

import (
	"fmt"
	"time"
)

// AvailabilityRequest is the full input to the availability engine: the
// computation is a pure function over this struct.
type AvailabilityRequest struct {
	LocationID string    `json:"locationId"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`

	Services     []ServiceDefinition     `json:"services"`
	Staff        []StaffMember           `json:"staff"`
	Resources    []Resource              `json:"resources"`
	Schedules    []Schedule              `json:"schedules"`
	TimeOffs     []TimeOff               `json:"timeOffs,omitempty"`
	Exceptions   []AvailabilityException `json:"exceptions,omitempty"`
	Appointments []AppointmentBlock      `json:"appointments,omitempty"`

	// StaffID restricts candidates to one staff member when set.
	StaffID string `json:"staffId,omitempty"`
	// SlotGranularityMinutes is the candidate grid step; 0 means the default (5).
	SlotGranularityMinutes int `json:"slotGranularityMinutes,omitempty"`
}

// ServiceIDs returns the requested service ids in request order.
func (r AvailabilityRequest) ServiceIDs() []string {
	ids := make([]string, 0, len(r.Services))
	for _, svc := range r.Services {
		ids = append(ids, svc.ID)
	}
	return ids
}

// SmartSlotConfig tunes the smart-slot optimizer pass. StepEngineMin must
// evenly divide StepUIMin.
type SmartSlotConfig struct {
	StepUIMin       int    `json:"stepUiMin"`
	StepEngineMin   int    `json:"stepEngineMin"`
	BufferMin       int    `json:"bufferMin"`
	MinUsableGapMin int    `json:"minUsableGapMin"`
	MaxPerHour      int    `json:"maxPerHour"`
	MinWasteSaved   int    `json:"minWasteSavedMin"`
	MaxGridOffset   int    `json:"maxGridOffsetMin"`
	Timezone        string `json:"timezone,omitempty"`
}

// Fingerprint returns a canonical string for cache keying: any differing
// knob produces a different fingerprint.
func (c SmartSlotConfig) Fingerprint() string {
	return fmt.Sprintf("%d:%d:%d:%d:%d:%d:%d:%s",
		c.StepUIMin, c.StepEngineMin, c.BufferMin, c.MinUsableGapMin,
		c.MaxPerHour, c.MinWasteSaved, c.MaxGridOffset, c.Timezone)
}
