package holds

import (
	"context"
	"testing"
	"time"

	"slotengine/models"
)

var holdDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func holdAt(h, m int) time.Time {
	return holdDay.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func testSlot(key, staffID string, startH, startM int, durMin int) models.AvailabilitySlot {
	start := holdAt(startH, startM)
	return models.AvailabilitySlot{
		StaffID:      staffID,
		SlotKey:      key,
		Start:        start,
		End:          start.Add(time.Duration(durMin) * time.Minute),
		ReservedFrom: start,
		ReservedTo:   start.Add(time.Duration(durMin) * time.Minute),
	}
}

func newTestManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	mgr := NewManager(store, 5*time.Minute)
	mgr.RetryDelay = 0
	return mgr, store
}

func TestManager_AcquireIsExclusive(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()
	slot := testSlot("key1", "anna", 10, 0, 60)

	hold, err := mgr.Acquire(ctx, "loc1", "dev1", slot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hold == nil {
		t.Fatal("expected a hold on a free slot")
	}
	if hold.Token == "" {
		t.Fatal("expected an opaque token")
	}

	second, err := mgr.Acquire(ctx, "loc1", "dev2", slot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != nil {
		t.Fatal("re-acquisition before expiry must fail")
	}
}

func TestManager_ReleaseChecksOwnership(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()
	slot := testSlot("key1", "anna", 10, 0, 60)

	hold, err := mgr.Acquire(ctx, "loc1", "dev1", slot)
	if err != nil || hold == nil {
		t.Fatalf("acquire failed: hold=%v err=%v", hold, err)
	}

	if mgr.Release(ctx, slot.SlotKey, "wrong-token") {
		t.Fatal("release with mismatched token must fail")
	}
	if !mgr.Verify(ctx, slot.SlotKey, hold.Token) {
		t.Fatal("failed foreign release must leave the hold intact")
	}

	if !mgr.Release(ctx, slot.SlotKey, hold.Token) {
		t.Fatal("owner release must succeed")
	}
	if mgr.Verify(ctx, slot.SlotKey, hold.Token) {
		t.Fatal("released hold must be gone")
	}

	again, err := mgr.Acquire(ctx, "loc1", "dev2", slot)
	if err != nil || again == nil {
		t.Fatalf("slot must be acquirable after release: hold=%v err=%v", again, err)
	}
}

func TestManager_TTLExpiryFreesSlot(t *testing.T) {
	ctx := context.Background()
	mgr, store := newTestManager()
	slot := testSlot("key1", "anna", 10, 0, 60)

	now := holdAt(9, 0)
	store.now = func() time.Time { return now }

	first, err := mgr.Acquire(ctx, "loc1", "dev1", slot)
	if err != nil || first == nil {
		t.Fatalf("acquire failed: hold=%v err=%v", first, err)
	}

	now = now.Add(6 * time.Minute) // past the 5 minute TTL

	second, err := mgr.Acquire(ctx, "loc1", "dev2", slot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second == nil {
		t.Fatal("expired hold must be reacquirable")
	}
	if second.Token == first.Token {
		t.Fatal("reacquisition must mint a fresh token")
	}
}

func TestManager_ExtendResetsExpiry(t *testing.T) {
	ctx := context.Background()
	mgr, store := newTestManager()
	slot := testSlot("key1", "anna", 10, 0, 60)

	now := holdAt(9, 0)
	store.now = func() time.Time { return now }

	hold, err := mgr.Acquire(ctx, "loc1", "dev1", slot)
	if err != nil || hold == nil {
		t.Fatalf("acquire failed: hold=%v err=%v", hold, err)
	}

	if mgr.Extend(ctx, slot.SlotKey, "wrong-token") {
		t.Fatal("extend with mismatched token must fail")
	}

	now = now.Add(4 * time.Minute)
	if !mgr.Extend(ctx, slot.SlotKey, hold.Token) {
		t.Fatal("owner extend must succeed")
	}

	now = now.Add(4 * time.Minute) // past the original expiry, inside the extension
	if !mgr.Verify(ctx, slot.SlotKey, hold.Token) {
		t.Fatal("extended hold must still be live past its original expiry")
	}
}

func TestHoldRef_RoundTrip(t *testing.T) {
	ref := EncodeHoldRef("key1", "tok-123")
	slotKey, token, err := DecodeHoldRef(ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slotKey != "key1" || token != "tok-123" {
		t.Fatalf("round trip mismatch: %q %q", slotKey, token)
	}
	if _, _, err := DecodeHoldRef("not-base64!!"); err == nil {
		t.Fatal("expected error for malformed ref")
	}
	if _, _, err := DecodeHoldRef(""); err == nil {
		t.Fatal("expected error for empty ref")
	}
}

func TestManager_FilterHeldSlots(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	held := testSlot("held-key", "anna", 10, 0, 60)
	if hold, err := mgr.Acquire(ctx, "loc1", "dev1", held); err != nil || hold == nil {
		t.Fatalf("acquire failed: hold=%v err=%v", hold, err)
	}

	exact := held
	overlapSameStaff := testSlot("variant-key", "anna", 10, 30, 60)
	adjacentSameStaff := testSlot("adjacent-key", "anna", 11, 0, 60)
	overlapOtherStaff := testSlot("other-staff-key", "ben", 10, 30, 60)

	got := mgr.FilterHeldSlots(ctx, "loc1", []models.AvailabilitySlot{
		exact, overlapSameStaff, adjacentSameStaff, overlapOtherStaff,
	})

	want := map[string]bool{"adjacent-key": true, "other-staff-key": true}
	if len(got) != len(want) {
		t.Fatalf("expected %d surviving slots, got %d: %v", len(want), len(got), got)
	}
	for _, s := range got {
		if !want[s.SlotKey] {
			t.Fatalf("slot %s should have been filtered", s.SlotKey)
		}
	}
}

func TestManager_FilterHeldSlots_OtherLocationUnaffected(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	held := testSlot("held-key", "anna", 10, 0, 60)
	if hold, err := mgr.Acquire(ctx, "loc1", "dev1", held); err != nil || hold == nil {
		t.Fatalf("acquire failed: hold=%v err=%v", hold, err)
	}

	slots := []models.AvailabilitySlot{testSlot("held-key", "anna", 10, 0, 60)}
	got := mgr.FilterHeldSlots(ctx, "loc2", slots)
	if len(got) != 1 {
		t.Fatalf("holds at another location must not filter, got %d slots", len(got))
	}
}
