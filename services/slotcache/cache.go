// Package slotcache is a read-through cache for computed availability
// slot lists. It is purely an optimization: every backing-store error
// degrades to a miss or no-op, never a failure.
package slotcache

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"slotengine/models"
	"slotengine/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "slots:"

// KeyParams are the inputs that canonically identify an availability
// query. Any differing field produces a different cache key.
type KeyParams struct {
	LocationID         string
	From               time.Time
	To                 time.Time
	Mode               string
	ServiceIDs         []string
	StaffID            string
	SlotGranularityMin int
	SmartFingerprint   string
	DeviceID           string
	ColorPrecheck      string
}

// BuildKey builds the canonical cache key. The service id list is sorted
// so the key is invariant under reordering.
func BuildKey(p KeyParams) string {
	ids := append([]string(nil), p.ServiceIDs...)
	sort.Strings(ids)
	parts := []string{
		p.LocationID,
		p.From.UTC().Format(time.RFC3339),
		p.To.UTC().Format(time.RFC3339),
		p.Mode,
		strings.Join(ids, ","),
		p.StaffID,
		strconv.Itoa(p.SlotGranularityMin),
		p.SmartFingerprint,
		p.DeviceID,
		p.ColorPrecheck,
	}
	return keyPrefix + strings.Join(parts, "|")
}

// SlotCache wraps a Redis client with a TTL. A zero TTL or nil client
// disables caching entirely.
type SlotCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewSlotCache builds a cache over the shared cache client with the TTL
// from configuration.
func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{Client: client, TTL: ttl}
}

// Get returns the cached slot list for key, or a miss. Entries are JSON
// with dates serialized as RFC3339.
func (c *SlotCache) Get(ctx context.Context, key string) ([]models.AvailabilitySlot, bool) {
	if c == nil || c.Client == nil || c.TTL <= 0 {
		return nil, false
	}
	data, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("slot cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var slots []models.AvailabilitySlot
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		utils.GetLogger().Warn("slot cache entry corrupt, ignoring", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return slots, true
}

// Set stores the slot list under key with the configured TTL. Errors are
// logged and swallowed.
func (c *SlotCache) Set(ctx context.Context, key string, slots []models.AvailabilitySlot) {
	if c == nil || c.Client == nil || c.TTL <= 0 {
		return
	}
	data, err := json.Marshal(slots)
	if err != nil {
		utils.GetLogger().Warn("failed to marshal slot cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.Client.Set(ctx, key, data, c.TTL).Err(); err != nil {
		utils.GetLogger().Warn("slot cache write failed", zap.String("key", key), zap.Error(err))
	}
}
