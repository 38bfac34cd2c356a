package holds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slotengine/models"
	"slotengine/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	holdKeyPrefix = "hold:"
	metaKeyPrefix = "holdmeta:"
)

// releaseScript deletes the hold and its metadata only when the stored
// token matches; the check and the delete are a single server-side step.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  redis.call("DEL", KEYS[1], KEYS[2])
  return 1
end
return 0
`)

// extendScript resets the TTL on the hold and its metadata only when the
// stored token matches.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
  redis.call("PEXPIRE", KEYS[2], ARGV[2])
  return 1
end
return 0
`)

// RedisStore is the shared-store hold implementation: true mutual
// exclusion across processes.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func holdKey(slotKey string) string {
	return holdKeyPrefix + slotKey
}

func metaKey(locationID, slotKey string) string {
	return metaKeyPrefix + locationID + ":" + slotKey
}

func (s *RedisStore) Acquire(ctx context.Context, slotKey, token string, meta models.SlotHoldMetadata, ttl time.Duration) (bool, error) {
	ok, err := s.Client.SetNX(ctx, holdKey(slotKey), token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquiring hold %s: %w", slotKey, err)
	}
	if !ok {
		return false, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return true, fmt.Errorf("marshaling hold metadata: %w", err)
	}
	if err := s.Client.Set(ctx, metaKey(meta.LocationID, slotKey), data, ttl).Err(); err != nil {
		// The hold itself succeeded; metadata is advisory (overlap filtering).
		utils.GetLogger().Warn("failed to store hold metadata",
			zap.String("slotKey", slotKey), zap.Error(err))
	}
	return true, nil
}

func (s *RedisStore) Release(ctx context.Context, slotKey, token string) (bool, error) {
	meta, err := s.metaKeyForSlot(ctx, slotKey)
	if err != nil {
		return false, err
	}
	res, err := releaseScript.Run(ctx, s.Client, []string{holdKey(slotKey), meta}, token).Int()
	if err != nil {
		return false, fmt.Errorf("releasing hold %s: %w", slotKey, err)
	}
	return res == 1, nil
}

func (s *RedisStore) Extend(ctx context.Context, slotKey, token string, ttl time.Duration) (bool, error) {
	meta, err := s.metaKeyForSlot(ctx, slotKey)
	if err != nil {
		return false, err
	}
	res, err := extendScript.Run(ctx, s.Client, []string{holdKey(slotKey), meta}, token, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("extending hold %s: %w", slotKey, err)
	}
	return res == 1, nil
}

func (s *RedisStore) Get(ctx context.Context, slotKey string) (*models.SlotHold, error) {
	token, err := s.Client.Get(ctx, holdKey(slotKey)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading hold %s: %w", slotKey, err)
	}
	ttl, err := s.Client.PTTL(ctx, holdKey(slotKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading hold ttl %s: %w", slotKey, err)
	}
	hold := &models.SlotHold{SlotKey: slotKey, Token: token}
	if ttl > 0 {
		hold.ExpiresAt = time.Now().Add(ttl)
	}
	return hold, nil
}

func (s *RedisStore) ScanByLocation(ctx context.Context, locationID string) ([]models.SlotHoldMetadata, error) {
	pattern := metaKeyPrefix + locationID + ":*"
	var metas []models.SlotHoldMetadata
	var cursor uint64
	for {
		keys, next, err := s.Client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning holds for location %s: %w", locationID, err)
		}
		for _, key := range keys {
			data, err := s.Client.Get(ctx, key).Result()
			if err != nil {
				// Expired between scan and read.
				continue
			}
			var meta models.SlotHoldMetadata
			if err := json.Unmarshal([]byte(data), &meta); err != nil {
				utils.GetLogger().Warn("skipping corrupt hold metadata", zap.String("key", key), zap.Error(err))
				continue
			}
			metas = append(metas, meta)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return metas, nil
}

// metaKeyForSlot finds the metadata key for a held slot without knowing
// its location. Metadata keys embed the location id so ScanByLocation can
// match on a prefix; release/extend must look the key up the long way.
func (s *RedisStore) metaKeyForSlot(ctx context.Context, slotKey string) (string, error) {
	pattern := metaKeyPrefix + "*:" + slotKey
	var cursor uint64
	for {
		keys, next, err := s.Client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return "", fmt.Errorf("locating hold metadata for %s: %w", slotKey, err)
		}
		if len(keys) > 0 {
			return keys[0], nil
		}
		cursor = next
		if cursor == 0 {
			// No metadata (e.g. the write was lost); scripts tolerate a
			// missing second key.
			return metaKeyPrefix + ":" + slotKey, nil
		}
	}
}
