package holds

import (
	"context"
	"sync"
	"time"

	"slotengine/models"
)

type memoryHold struct {
	token     string
	meta      models.SlotHoldMetadata
	expiresAt time.Time
}

// MemoryStore is the single-process fallback for environments without a
// shared store. It preserves the same ownership-check semantics but only
// protects one process. Expiry is cooperative: every read path checks
// expiresAt, so no background sweeper is needed.
type MemoryStore struct {
	mu    sync.Mutex
	holds map[string]memoryHold
	// now is swappable for tests.
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		holds: make(map[string]memoryHold),
		now:   time.Now,
	}
}

// activeLocked returns the live hold for slotKey, pruning it when expired.
func (s *MemoryStore) activeLocked(slotKey string) (memoryHold, bool) {
	h, ok := s.holds[slotKey]
	if !ok {
		return memoryHold{}, false
	}
	if !h.expiresAt.After(s.now()) {
		delete(s.holds, slotKey)
		return memoryHold{}, false
	}
	return h, true
}

func (s *MemoryStore) Acquire(_ context.Context, slotKey, token string, meta models.SlotHoldMetadata, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.activeLocked(slotKey); held {
		return false, nil
	}
	s.holds[slotKey] = memoryHold{token: token, meta: meta, expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, slotKey, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, held := s.activeLocked(slotKey)
	if !held || h.token != token {
		return false, nil
	}
	delete(s.holds, slotKey)
	return true, nil
}

func (s *MemoryStore) Extend(_ context.Context, slotKey, token string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, held := s.activeLocked(slotKey)
	if !held || h.token != token {
		return false, nil
	}
	h.expiresAt = s.now().Add(ttl)
	s.holds[slotKey] = h
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, slotKey string) (*models.SlotHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, held := s.activeLocked(slotKey)
	if !held {
		return nil, nil
	}
	return &models.SlotHold{SlotKey: slotKey, Token: h.token, ExpiresAt: h.expiresAt}, nil
}

func (s *MemoryStore) ScanByLocation(_ context.Context, locationID string) ([]models.SlotHoldMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var metas []models.SlotHoldMetadata
	for key, h := range s.holds {
		if !h.expiresAt.After(now) {
			delete(s.holds, key)
			continue
		}
		if h.meta.LocationID == locationID {
			meta := h.meta
			meta.ExpiresAt = h.expiresAt
			metas = append(metas, meta)
		}
	}
	return metas, nil
}
