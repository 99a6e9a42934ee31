package availability

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"gatherly/models"
	"gatherly/utils"
)

// ResultCache stores dual-recommendation results in Redis and tracks, per
// event and per user, which cache keys a mutation must drop. All methods are
// no-ops on a nil cache so the engine runs uncached in tests.
type ResultCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewResultCache wraps a Redis client with the given result TTL.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{Client: client, TTL: ttl}
}

func dualKey(eventID, candidateUserID string) string {
	return "dualrec:" + eventID + ":" + candidateUserID
}

func eventKeySet(eventID string) string {
	return "dualrec:event:" + eventID
}

func userKeySet(userID string) string {
	return "dualrec:user:" + userID
}

// GetDual returns a cached recommendation, or (nil, false) on any miss or
// cache error.
func (c *ResultCache) GetDual(ctx context.Context, eventID, candidateUserID string) (*models.DualRecommendation, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}
	raw, err := c.Client.Get(ctx, dualKey(eventID, candidateUserID)).Bytes()
	if err != nil {
		return nil, false
	}
	var rec models.DualRecommendation
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

// PutDual caches a recommendation and registers its key under the event and
// every affected user, so later invalidations can find it. Cache write
// failures are logged and otherwise ignored.
func (c *ResultCache) PutDual(ctx context.Context, rec *models.DualRecommendation, userIDs []string) {
	if c == nil || c.Client == nil {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	key := dualKey(rec.EventID, rec.CandidateUserID)
	pipe := c.Client.TxPipeline()
	pipe.Set(ctx, key, raw, c.TTL)
	pipe.SAdd(ctx, eventKeySet(rec.EventID), key)
	pipe.Expire(ctx, eventKeySet(rec.EventID), c.TTL)
	for _, userID := range userIDs {
		pipe.SAdd(ctx, userKeySet(userID), key)
		pipe.Expire(ctx, userKeySet(userID), c.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		utils.GetLogger().Warn("failed to cache recommendation",
			zap.String("eventID", rec.EventID), zap.Error(err))
	}
}

// InvalidateEvent drops every cached result computed for the event.
func (c *ResultCache) InvalidateEvent(ctx context.Context, eventID string) error {
	return c.invalidateSet(ctx, eventKeySet(eventID))
}

// InvalidateUser drops every cached result whose roster included the user.
func (c *ResultCache) InvalidateUser(ctx context.Context, userID string) error {
	return c.invalidateSet(ctx, userKeySet(userID))
}

func (c *ResultCache) invalidateSet(ctx context.Context, setKey string) error {
	if c == nil || c.Client == nil {
		return nil
	}
	keys, err := c.Client.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}
	keys = append(keys, setKey)
	return c.Client.Del(ctx, keys...).Err()
}
