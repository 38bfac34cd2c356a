package models

import "time"

// StepAllocation is one concretely scheduled service step with any
// resources allocated to it.
type StepAllocation struct {
	StepID      string    `json:"stepId"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	ResourceIDs []string  `json:"resourceIds,omitempty"`
}

// ServiceAllocation groups a service's step allocations in order.
type ServiceAllocation struct {
	ServiceID string           `json:"serviceId"`
	Steps     []StepAllocation `json:"steps"`
}

// AvailabilitySlot is the engine's output unit. Start/End are the
// customer-visible window (first step start to last step end, excluding
// buffers); ReservedFrom/ReservedTo are the full window including buffers
// and must be kept free. Slots are produced fresh per query, never mutated.
type AvailabilitySlot struct {
	StaffID      string              `json:"staffId"`
	Services     []ServiceAllocation `json:"services"`
	Start        time.Time           `json:"start"`
	End          time.Time           `json:"end"`
	ReservedFrom time.Time           `json:"reservedFrom"`
	ReservedTo   time.Time           `json:"reservedTo"`
	SlotKey      string              `json:"slotKey"`
	IsSmart      bool                `json:"isSmart,omitempty"`
}
