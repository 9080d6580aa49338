package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"agriguard/internal/model"
)

// HistoryCache keeps each user's recent scan page in Redis. A short-lived
// dirty marker is set when a scan is enqueued for persistence; while it
// lives, reads bypass the cache so the async write cannot serve stale
// history.
type HistoryCache struct {
	client         *redisv9.Client
	historyTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewHistoryCache(client *redisv9.Client, historyTTL, dirtyMarkerTTL time.Duration) *HistoryCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &HistoryCache{
		client:         client,
		historyTTL:     historyTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *HistoryCache) GetHistory(ctx context.Context, userID uint) ([]model.Scan, bool, error) {
	key := c.historyKey(userID)
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var scans []model.Scan
	if err := json.Unmarshal([]byte(raw), &scans); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return scans, true, nil
}

func (c *HistoryCache) SetHistory(ctx context.Context, userID uint, scans []model.Scan) error {
	key := c.historyKey(userID)
	payload, err := json.Marshal(scans)
	if err != nil {
		return fmt.Errorf("marshal history cache failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) DeleteHistory(ctx context.Context, userID uint) error {
	key := c.historyKey(userID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) MarkDirty(ctx context.Context, userID uint) error {
	key := c.dirtyKey(userID)
	if err := c.client.Set(ctx, key, "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) IsDirty(ctx context.Context, userID uint) (bool, error) {
	key := c.dirtyKey(userID)
	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *HistoryCache) historyKey(userID uint) string {
	return fmt.Sprintf("scan:history:%d", userID)
}

func (c *HistoryCache) dirtyKey(userID uint) string {
	return fmt.Sprintf("scan:history:dirty:%d", userID)
}
