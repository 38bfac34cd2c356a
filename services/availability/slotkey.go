package availability

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"slotengine/models"

	"github.com/cespare/xxhash/v2"
)

// SlotKey derives a deterministic key from the location, staff member,
// start time, and the full per-step allocation. Two allocations that
// differ only in which interchangeable resource was chosen get different
// keys.
func SlotKey(locationID, staffID string, start time.Time, services []models.ServiceAllocation) string {
	h := xxhash.New()
	writeField(h, locationID)
	writeField(h, staffID)
	writeField(h, strconv.FormatInt(start.UnixMilli(), 10))
	for _, svc := range services {
		writeField(h, svc.ServiceID)
		for _, step := range svc.Steps {
			writeField(h, step.StepID)
			writeField(h, strconv.FormatInt(step.Start.UnixMilli(), 10))
			writeField(h, strconv.FormatInt(step.End.UnixMilli(), 10))
			for _, resID := range step.ResourceIDs {
				writeField(h, resID)
			}
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func writeField(w io.Writer, s string) {
	io.WriteString(w, s)
	io.WriteString(w, "|")
}
