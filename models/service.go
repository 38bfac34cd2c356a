package models

// ResourceRequirement names the resources a step needs: either explicit
// resource ids or a resource-type fallback, with a required quantity.
// Optional requirements are skipped when they cannot be met.
type ResourceRequirement struct {
	ResourceIDs  []string `json:"resourceIds,omitempty"`
	ResourceType string   `json:"resourceType,omitempty"`
	Quantity     int      `json:"quantity"`
	Optional     bool     `json:"optional,omitempty"`
}

// ServiceStep is one stage of a service. Some steps (e.g. chemical
// processing time) do not require the staff member to be present.
type ServiceStep struct {
	ID              string                `json:"id"`
	Name            string                `json:"name,omitempty"`
	DurationMinutes int                   `json:"durationMinutes"`
	RequiresStaff   bool                  `json:"requiresStaff"`
	AllowedStaffIDs []string              `json:"allowedStaffIds,omitempty"`
	Resources       []ResourceRequirement `json:"resources,omitempty"`
}

// ServiceDefinition belongs to a location and carries optional pre/post
// buffers around its ordered steps.
type ServiceDefinition struct {
	ID              string        `json:"id"`
	LocationID      string        `json:"locationId"`
	Name            string        `json:"name,omitempty"`
	BufferBeforeMin int           `json:"bufferBeforeMin,omitempty"`
	BufferAfterMin  int           `json:"bufferAfterMin,omitempty"`
	Steps           []ServiceStep `json:"steps"`
}

// StaffMember is identity plus owning location.
type StaffMember struct {
	ID         string `json:"id"`
	LocationID string `json:"locationId"`
	Name       string `json:"name,omitempty"`
}

// Resource carries a type and capacity. Capacity is informational here:
// allocation treats each resource id as a single unit.
type Resource struct {
	ID         string `json:"id"`
	LocationID string `json:"locationId"`
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
	Capacity   int    `json:"capacity,omitempty"`
}
