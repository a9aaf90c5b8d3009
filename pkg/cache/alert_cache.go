package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// AlertStateTTL bounds how long a sweeper's alert set survives without a
	// refresh. A stale set only causes alerts to be raised again.
	AlertStateTTL = 24 * time.Hour

	// AlertFeedLength is the number of raised alerts kept in the feed.
	AlertFeedLength = 200

	alertKeyPrefix = "inventory:alerts"
)

// CachedAlert is the denormalized alert stored in Redis.
type CachedAlert struct {
	Type       string    `json:"type"`
	ItemID     uuid.UUID `json:"item_id"`
	ItemName   string    `json:"item_name"`
	BatchID    uuid.UUID `json:"batch_id"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	DaysLeft   *int      `json:"days_left,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// AlertCache stores the sweeper's last alert set and a bounded feed of
// raised alerts.
// Key format: "inventory:alerts:{scope}:state" and "inventory:alerts:{scope}:feed"
type AlertCache struct {
	client *RedisClient
	scope  string
}

// NewAlertCache returns an AlertCache. scope separates deployments sharing
// one Redis, typically the service name.
func NewAlertCache(r *RedisClient, scope string) *AlertCache {
	return &AlertCache{client: r, scope: scope}
}

// GetState returns the stored alert set, or an empty set when none exists.
func (c *AlertCache) GetState(ctx context.Context) ([]CachedAlert, error) {
	raw, err := c.client.Client().Get(ctx, c.key("state")).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get alert state: %w", err)
	}
	var alerts []CachedAlert
	if err := json.Unmarshal(raw, &alerts); err != nil {
		return nil, fmt.Errorf("cache parse alert state: %w", err)
	}
	return alerts, nil
}

// SetState replaces the stored alert set.
func (c *AlertCache) SetState(ctx context.Context, alerts []CachedAlert) error {
	if alerts == nil {
		alerts = []CachedAlert{}
	}
	raw, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("cache encode alert state: %w", err)
	}
	if err := c.client.Client().Set(ctx, c.key("state"), raw, AlertStateTTL).Err(); err != nil {
		return fmt.Errorf("cache set alert state: %w", err)
	}
	return nil
}

// PushFeed prepends an alert to the feed and trims it to AlertFeedLength.
// Uses a pipeline so the push and trim are sent together.
func (c *AlertCache) PushFeed(ctx context.Context, a CachedAlert) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("cache encode alert: %w", err)
	}
	key := c.key("feed")
	pipe := c.client.Client().Pipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, AlertFeedLength-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache push alert feed: %w", err)
	}
	return nil
}

// Feed returns up to n of the most recent raised alerts, newest first.
func (c *AlertCache) Feed(ctx context.Context, n int64) ([]CachedAlert, error) {
	if n <= 0 || n > AlertFeedLength {
		n = AlertFeedLength
	}
	vals, err := c.client.Client().LRange(ctx, c.key("feed"), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("cache read alert feed: %w", err)
	}
	out := make([]CachedAlert, 0, len(vals))
	for _, v := range vals {
		var a CachedAlert
		if err := json.Unmarshal([]byte(v), &a); err != nil {
			return nil, fmt.Errorf("cache parse alert: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// key builds "inventory:alerts:{scope}:{kind}".
func (c *AlertCache) key(kind string) string {
	return fmt.Sprintf("%s:%s:%s", alertKeyPrefix, c.scope, kind)
}
