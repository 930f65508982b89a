package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"medilexica/internal/model"
)

// SessionListCache keeps the per-owner session listing in Redis. A short
// lived dirty marker set on every save suppresses cache fills while a write
// may still be in flight.
type SessionListCache struct {
	client         *redisv9.Client
	listTTL        time.Duration
	dirtyMarkerTTL time.Duration
}

func NewSessionListCache(client *redisv9.Client, listTTL, dirtyMarkerTTL time.Duration) *SessionListCache {
	if listTTL <= 0 {
		listTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &SessionListCache{
		client:         client,
		listTTL:        listTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *SessionListCache) GetSessions(ctx context.Context, userID uint) ([]model.ChatSessionSummary, bool, error) {
	raw, err := c.client.Get(ctx, c.listKey(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get session list failed: %w", err)
	}

	var sessions []model.ChatSessionSummary
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached session list failed: %w", err)
	}
	return sessions, true, nil
}

func (c *SessionListCache) SetSessions(ctx context.Context, userID uint, sessions []model.ChatSessionSummary) error {
	payload, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("marshal session list failed: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(userID), payload, c.listTTL).Err(); err != nil {
		return fmt.Errorf("redis set session list failed: %w", err)
	}
	return nil
}

func (c *SessionListCache) Invalidate(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.listKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete session list failed: %w", err)
	}
	return nil
}

func (c *SessionListCache) MarkDirty(ctx context.Context, userID uint) error {
	if err := c.client.Set(ctx, c.dirtyKey(userID), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *SessionListCache) IsDirty(ctx context.Context, userID uint) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *SessionListCache) listKey(userID uint) string {
	return fmt.Sprintf("chat:sessions:%d", userID)
}

func (c *SessionListCache) dirtyKey(userID uint) string {
	return fmt.Sprintf("chat:sessions:dirty:%d", userID)
}
