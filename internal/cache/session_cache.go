package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"kidassess/internal/session"
)

const sessionViewTTL = 30 * time.Minute

// SessionCache keeps the latest view snapshot of each live session, refreshed
// on every transition. It is an observability surface: dashboards and crash
// recovery read from here without touching the in-memory runners.
type SessionCache interface {
	Set(ctx context.Context, view session.View) error
	Get(ctx context.Context, sessionID string) (*session.View, error)
	Delete(ctx context.Context, sessionID string) error
}

type sessionCache struct {
	client *redis.Client
}

func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
	}
}

func (c *sessionCache) Set(ctx context.Context, view session.View) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "assess:session:"+view.SessionID, data, sessionViewTTL).Err()
}

func (c *sessionCache) Get(ctx context.Context, sessionID string) (*session.View, error) {
	data, err := c.client.Get(ctx, "assess:session:"+sessionID).Result()
	if err != nil {
		return nil, err
	}
	var view session.View
	err = json.Unmarshal([]byte(data), &view)
	return &view, err
}

func (c *sessionCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, "assess:session:"+sessionID).Err()
}
