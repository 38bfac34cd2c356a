package availability

import (
	"testing"
	"time"

	"slotengine/models"
)

func locationSchedule() models.Schedule {
	return models.Schedule{
		ID:        "loc-hours",
		OwnerKind: models.OwnerLocation,
		Timezone:  "UTC",
		Rules:     []models.ScheduleRule{weeklyRule(time.Monday, 540, 1020)}, // 09:00-17:00
	}
}

func baseRequest() models.AvailabilityRequest {
	return models.AvailabilityRequest{
		LocationID: "loc1",
		From:       at(testDay, 9, 0),
		To:         at(testDay, 17, 0),
		Staff:      []models.StaffMember{{ID: "anna", LocationID: "loc1"}},
		Schedules:  []models.Schedule{locationSchedule()},
	}
}

func singleStepService(durationMin, bufBefore, bufAfter int) models.ServiceDefinition {
	return models.ServiceDefinition{
		ID:              "svc1",
		LocationID:      "loc1",
		BufferBeforeMin: bufBefore,
		BufferAfterMin:  bufAfter,
		Steps: []models.ServiceStep{
			{ID: "svc1-step1", DurationMinutes: durationMin, RequiresStaff: true},
		},
	}
}

func TestComputeAvailability_BufferedFirstSlot(t *testing.T) {
	req := baseRequest()
	req.Services = []models.ServiceDefinition{singleStepService(45, 15, 10)}

	slots := ComputeAvailability(req)
	if len(slots) == 0 {
		t.Fatal("expected slots")
	}
	first := slots[0]
	if !first.Start.Equal(at(testDay, 9, 15)) {
		t.Fatalf("expected first visible start 09:15, got %v", first.Start)
	}
	if !first.ReservedFrom.Equal(at(testDay, 9, 0)) {
		t.Fatalf("expected reservedFrom 09:00, got %v", first.ReservedFrom)
	}
	if !first.ReservedTo.Equal(at(testDay, 10, 10)) {
		t.Fatalf("expected reservedTo 10:10, got %v", first.ReservedTo)
	}
}

func TestComputeAvailability_ReservedWindowsInsideQueryWindow(t *testing.T) {
	req := baseRequest()
	req.Services = []models.ServiceDefinition{singleStepService(60, 10, 10)}
	req.Appointments = []models.AppointmentBlock{
		{ID: "b1", StaffID: "anna", Start: at(testDay, 12, 0), End: at(testDay, 13, 0)},
	}

	slots := ComputeAvailability(req)
	if len(slots) == 0 {
		t.Fatal("expected slots")
	}
	busy := models.Interval{Start: at(testDay, 12, 0), End: at(testDay, 13, 0)}
	for _, s := range slots {
		if s.ReservedFrom.Before(req.From) || s.ReservedTo.After(req.To) {
			t.Fatalf("slot %v reserved window escapes query window", s.Start)
		}
		reserved := models.Interval{Start: s.ReservedFrom, End: s.ReservedTo}
		if reserved.Overlaps(busy) {
			t.Fatalf("slot at %v overlaps the staff booking", s.Start)
		}
	}
}

func TestComputeAvailability_UnstaffedStepSurvivesStaffBusyGap(t *testing.T) {
	req := baseRequest()
	req.Services = []models.ServiceDefinition{{
		ID:         "color",
		LocationID: "loc1",
		Steps: []models.ServiceStep{
			{ID: "apply", DurationMinutes: 20, RequiresStaff: true},
			{ID: "process", DurationMinutes: 30, RequiresStaff: false},
			{ID: "rinse", DurationMinutes: 20, RequiresStaff: true},
		},
	}}
	// Staff is busy for 10 minutes inside the processing step of the
	// 09:00 candidate.
	req.Appointments = []models.AppointmentBlock{
		{ID: "b1", StaffID: "anna", Start: at(testDay, 9, 25), End: at(testDay, 9, 35)},
	}

	slots := ComputeAvailability(req)
	var found bool
	for _, s := range slots {
		if s.Start.Equal(at(testDay, 9, 0)) {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected the 09:00 slot: a staff-busy gap under an unstaffed step must not reject it")
	}

	// A fully staffed service of the same shape must lose that candidate.
	req.Services[0].Steps[1].RequiresStaff = true
	slots = ComputeAvailability(req)
	for _, s := range slots {
		if s.Start.Equal(at(testDay, 9, 0)) {
			t.Fatal("staffed processing step must reject the 09:00 candidate")
		}
	}
}

func TestComputeAvailability_InterchangeableResourceFallback(t *testing.T) {
	req := baseRequest()
	req.Resources = []models.Resource{
		{ID: "chair1", LocationID: "loc1", Type: "chair"},
		{ID: "chair2", LocationID: "loc1", Type: "chair"},
	}
	req.Services = []models.ServiceDefinition{{
		ID:         "svc1",
		LocationID: "loc1",
		Steps: []models.ServiceStep{{
			ID:              "svc1-step1",
			DurationMinutes: 30,
			RequiresStaff:   true,
			Resources: []models.ResourceRequirement{
				{ResourceIDs: []string{"chair1", "chair2"}, Quantity: 1},
			},
		}},
	}}
	// chair1 is booked over the first candidate window.
	req.Appointments = []models.AppointmentBlock{
		{ID: "b1", ResourceIDs: []string{"chair1"}, Start: at(testDay, 9, 0), End: at(testDay, 9, 30)},
	}

	slots := ComputeAvailability(req)
	if len(slots) == 0 {
		t.Fatal("expected slots")
	}
	first := slots[0]
	if !first.Start.Equal(at(testDay, 9, 0)) {
		t.Fatalf("expected first slot at 09:00, got %v", first.Start)
	}
	alloc := first.Services[0].Steps[0]
	if len(alloc.ResourceIDs) != 1 || alloc.ResourceIDs[0] != "chair2" {
		t.Fatalf("expected chair2 allocated, got %v", alloc.ResourceIDs)
	}
}

func TestComputeAvailability_RequiredResourceMissingRejects(t *testing.T) {
	req := baseRequest()
	req.Resources = []models.Resource{{ID: "basin1", LocationID: "loc1", Type: "basin"}}
	req.Services = []models.ServiceDefinition{{
		ID:         "svc1",
		LocationID: "loc1",
		Steps: []models.ServiceStep{{
			ID:              "svc1-step1",
			DurationMinutes: 30,
			RequiresStaff:   true,
			Resources: []models.ResourceRequirement{
				{ResourceType: "basin", Quantity: 2},
			},
		}},
	}}
	if slots := ComputeAvailability(req); len(slots) != 0 {
		t.Fatalf("a required quantity that cannot be met must reject every candidate, got %d slots", len(slots))
	}

	// The same shortfall on an optional requirement allocates zero and keeps the slot.
	req.Services[0].Steps[0].Resources[0].Optional = true
	slots := ComputeAvailability(req)
	if len(slots) == 0 {
		t.Fatal("optional requirement shortfall must not reject candidates")
	}
	if got := slots[0].Services[0].Steps[0].ResourceIDs; len(got) != 0 {
		t.Fatalf("optional shortfall must allocate zero resources, got %v", got)
	}
}

func TestComputeAvailability_BlockExceptionRemovesSlots(t *testing.T) {
	req := baseRequest()
	req.Services = []models.ServiceDefinition{singleStepService(60, 0, 0)}
	req.Exceptions = []models.AvailabilityException{{
		ID:         "ex1",
		LocationID: "loc1",
		Kind:       models.ExceptionBlock,
		Start:      at(testDay, 12, 0),
		End:        at(testDay, 13, 0),
	}}

	slots := ComputeAvailability(req)
	if len(slots) == 0 {
		t.Fatal("expected slots")
	}
	blocked := models.Interval{Start: at(testDay, 12, 0), End: at(testDay, 13, 0)}
	var at11, at13 bool
	for _, s := range slots {
		reserved := models.Interval{Start: s.ReservedFrom, End: s.ReservedTo}
		if reserved.Overlaps(blocked) {
			t.Fatalf("slot at %v overlaps the BLOCK exception", s.Start)
		}
		if s.Start.Equal(at(testDay, 11, 0)) {
			at11 = true
		}
		if s.Start.Equal(at(testDay, 13, 0)) {
			at13 = true
		}
	}
	if !at11 || !at13 {
		t.Fatalf("expected slots flush against the block (11:00=%v, 13:00=%v)", at11, at13)
	}
}

func TestComputeAvailability_OpenExceptionIsInert(t *testing.T) {
	req := baseRequest()
	req.Services = []models.ServiceDefinition{singleStepService(60, 0, 0)}
	base := ComputeAvailability(req)

	req.Exceptions = []models.AvailabilityException{{
		ID:         "ex1",
		LocationID: "loc1",
		Kind:       models.ExceptionOpen,
		Start:      at(testDay, 7, 0),
		End:        at(testDay, 9, 0),
	}}
	withOpen := ComputeAvailability(req)
	if len(withOpen) != len(base) {
		t.Fatalf("OPEN exceptions must not change availability: %d vs %d", len(withOpen), len(base))
	}
}

func TestComputeAvailability_StaffFilterAndAllowList(t *testing.T) {
	req := baseRequest()
	req.Staff = []models.StaffMember{
		{ID: "anna", LocationID: "loc1"},
		{ID: "ben", LocationID: "loc1"},
	}
	req.Services = []models.ServiceDefinition{singleStepService(30, 0, 0)}

	req.StaffID = "ben"
	for _, s := range ComputeAvailability(req) {
		if s.StaffID != "ben" {
			t.Fatalf("staff filter violated: got slot for %s", s.StaffID)
		}
	}

	req.StaffID = ""
	req.Services[0].Steps[0].AllowedStaffIDs = []string{"anna"}
	for _, s := range ComputeAvailability(req) {
		if s.StaffID != "anna" {
			t.Fatalf("allow-list violated: got slot for %s", s.StaffID)
		}
	}
}

func TestComputeAvailability_InfeasibleInput(t *testing.T) {
	req := baseRequest()
	req.Services = []models.ServiceDefinition{singleStepService(30, 0, 0)}
	req.To = req.From
	if got := ComputeAvailability(req); len(got) != 0 {
		t.Fatalf("empty window must yield no slots, got %d", len(got))
	}

	req = baseRequest()
	if got := ComputeAvailability(req); len(got) != 0 {
		t.Fatalf("no services must yield no slots, got %d", len(got))
	}
}

func TestComputeAvailability_SlotKeyReflectsAllocation(t *testing.T) {
	a := SlotKey("loc1", "anna", at(testDay, 9, 0), []models.ServiceAllocation{{
		ServiceID: "svc1",
		Steps: []models.StepAllocation{{
			StepID: "s1", Start: at(testDay, 9, 0), End: at(testDay, 9, 30), ResourceIDs: []string{"chair1"},
		}},
	}})
	b := SlotKey("loc1", "anna", at(testDay, 9, 0), []models.ServiceAllocation{{
		ServiceID: "svc1",
		Steps: []models.StepAllocation{{
			StepID: "s1", Start: at(testDay, 9, 0), End: at(testDay, 9, 30), ResourceIDs: []string{"chair2"},
		}},
	}})
	if a == b {
		t.Fatal("allocations differing only in resource choice must produce different keys")
	}
	if a != SlotKey("loc1", "anna", at(testDay, 9, 0), []models.ServiceAllocation{{
		ServiceID: "svc1",
		Steps: []models.StepAllocation{{
			StepID: "s1", Start: at(testDay, 9, 0), End: at(testDay, 9, 30), ResourceIDs: []string{"chair1"},
		}},
	}}) {
		t.Fatal("slot keys must be deterministic")
	}
}
