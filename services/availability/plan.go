package availability

import (
	"time"

	"slotengine/models"
)

// planStep is one flattened step of the requested service sequence, with
// its surrounding buffers attached: PreBuffer on a service's first step,
// PostBuffer on its last.
type planStep struct {
	ServiceID     string
	StepID        string
	Duration      time.Duration
	RequiresStaff bool
	AllowedStaff  []string
	Requirements  []models.ResourceRequirement
	PreBuffer     time.Duration
	PostBuffer    time.Duration
}

// servicePlan is the flattened multi-service sequence. Total covers step
// durations plus post-buffers and bounds the latest possible start;
// PreBuffer is the first service's pre-buffer, which extends the reserved
// window before the visible start.
type servicePlan struct {
	Steps     []planStep
	PreBuffer time.Duration
	Total     time.Duration
}

func buildServicePlan(services []models.ServiceDefinition) servicePlan {
	var plan servicePlan
	for svcIdx, svc := range services {
		for stepIdx, step := range svc.Steps {
			ps := planStep{
				ServiceID:     svc.ID,
				StepID:        step.ID,
				Duration:      time.Duration(step.DurationMinutes) * time.Minute,
				RequiresStaff: step.RequiresStaff,
				AllowedStaff:  step.AllowedStaffIDs,
				Requirements:  step.Resources,
			}
			if stepIdx == 0 {
				ps.PreBuffer = time.Duration(svc.BufferBeforeMin) * time.Minute
			}
			if stepIdx == len(svc.Steps)-1 {
				ps.PostBuffer = time.Duration(svc.BufferAfterMin) * time.Minute
			}
			plan.Steps = append(plan.Steps, ps)
			plan.Total += ps.Duration + ps.PostBuffer
		}
		if svcIdx == 0 && len(svc.Steps) > 0 {
			plan.PreBuffer = time.Duration(svc.BufferBeforeMin) * time.Minute
		}
	}
	return plan
}
