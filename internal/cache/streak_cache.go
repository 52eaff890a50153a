// Package cache хранит готовые стрики в Redis с явным TTL.
// Ключ включает дату «сегодня», поэтому смена дня сама делает старые записи ненужными.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/redis/go-redis/v9"

	"glowkids.ru/activity-engine/internal/features/activity"
)

// StreakCache реализует activity.StreakCache поверх Redis.
// Записи только истекают по TTL: движок читает события и никогда их не меняет.
type StreakCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ activity.StreakCache = (*StreakCache)(nil)

// NewStreakCache создаёт кэш стриков.
func NewStreakCache(client redis.Cmdable, ttl time.Duration) *StreakCache {
	return &StreakCache{client: client, ttl: ttl}
}

// Key возвращает ключ записи: streak:<subject>:<YYYY-MM-DD>.
func Key(subjectID string, day civil.Date) string {
	return fmt.Sprintf("streak:%s:%s", subjectID, day.String())
}

// Get возвращает стрик из кэша или nil, nil при промахе.
func (c *StreakCache) Get(ctx context.Context, subjectID string, day civil.Date) (*activity.StreakResult, error) {
	data, err := c.client.Get(ctx, Key(subjectID, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var result activity.StreakResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("битая запись кэша: %w", err)
	}
	return &result, nil
}

// Set сохраняет стрик на время TTL.
func (c *StreakCache) Set(ctx context.Context, subjectID string, day civil.Date, result activity.StreakResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, Key(subjectID, day), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// NewClient создаёт клиента Redis и проверяет соединение.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis недоступен (%s): %w", addr, err)
	}
	return client, nil
}
