// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// calendar.go provides a Valkey-backed cache of calendar month views. The
// JSON of a user's occurrences for one month is kept until a plan or
// confirm touches that month, or the TTL expires.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"outfitguru/internal/models"
)

const (
	// calendarKeyPrefix is the Valkey key prefix for cached months.
	calendarKeyPrefix = "calendar:"

	// DefaultCalendarTTL is how long a month view stays cached.
	DefaultCalendarTTL = 10 * time.Minute

	// calendarEntity tags invalidation log entries.
	calendarEntity = "calendar_month"
)

// InvalidationLogger records cache invalidations.
type InvalidationLogger interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, scope, action string)
}

// CalendarCache manages month view caching in Valkey.
type CalendarCache struct {
	client *redis.Client
	ttl    time.Duration
	log    InvalidationLogger
}

// NewCalendarCache creates a month cache backed by the given Valkey
// client. log may be nil.
func NewCalendarCache(client *redis.Client, ttl time.Duration, log InvalidationLogger) *CalendarCache {
	if ttl == 0 {
		ttl = DefaultCalendarTTL
	}
	return &CalendarCache{client: client, ttl: ttl, log: log}
}

// MonthKey returns the cache key suffix for a user's month, e.g.
// "<user>:2026-03".
func MonthKey(userID uuid.UUID, year int, month time.Month) string {
	return fmt.Sprintf("%s:%s", userID, monthScope(year, month))
}

func monthScope(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// GetMonth returns the cached occurrences of a month. Any Valkey or decode
// error is treated as a miss.
func (c *CalendarCache) GetMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]models.Occurrence, bool) {
	key := MonthKey(userID, year, month)
	val, err := c.client.Get(ctx, calendarKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("calendar cache get error", "key", key, "error", err)
		return nil, false
	}

	var items []models.Occurrence
	if err := json.Unmarshal(val, &items); err != nil {
		slog.Warn("calendar cache decode error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("calendar cache hit", "key", key)
	return items, true
}

// SetMonth stores a month's occurrences with the configured TTL.
func (c *CalendarCache) SetMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month, items []models.Occurrence) {
	if items == nil {
		items = []models.Occurrence{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		slog.Warn("calendar cache encode error", "user_id", userID, "error", err)
		return
	}
	key := MonthKey(userID, year, month)
	if err := c.client.Set(ctx, calendarKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		slog.Warn("calendar cache set error", "key", key, "error", err)
	}
}

// InvalidateMonth removes one cached month. action names the write that
// made it stale.
func (c *CalendarCache) InvalidateMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month, action string) {
	key := MonthKey(userID, year, month)
	if err := c.client.Del(ctx, calendarKeyPrefix+key).Err(); err != nil {
		slog.Warn("calendar cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("calendar cache invalidated", "key", key, "action", action)
	if c.log != nil {
		c.log.Log(ctx, calendarEntity, userID, monthScope(year, month), action)
	}
}

// InvalidateUser removes every cached month of a user. Used when a change
// can surface in any month, such as feedback on an embedded outfit.
func (c *CalendarCache) InvalidateUser(ctx context.Context, userID uuid.UUID, action string) {
	var (
		cursor  uint64
		deleted int
	)
	pattern := calendarKeyPrefix + userID.String() + ":*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("calendar cache scan error", "user_id", userID, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("calendar cache bulk delete error", "user_id", userID, "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("calendar cache cleared for user", "user_id", userID, "deleted", deleted)
		if c.log != nil {
			c.log.Log(ctx, calendarEntity, userID, "*", action)
		}
	}
}
