package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 処理済みイベントを覚えておく期間（プロバイダの再送期間より長め）
const DefaultDedupTTL = 72 * time.Hour

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

func dedupKey(eventID string) string {
	return fmt.Sprintf("dedup:webhook:%s", eventID)
}

// webhookイベントIDの処理済みフラグをRedisに置く
type RedisWebhookDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisWebhookDeduper(rdb *redis.Client, ttl time.Duration) *RedisWebhookDeduper {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &RedisWebhookDeduper{rdb: rdb, ttl: ttl}
}

func (d *RedisWebhookDeduper) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, dedupKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (d *RedisWebhookDeduper) MarkDone(ctx context.Context, eventID string) error {
	if err := d.rdb.Set(ctx, dedupKey(eventID), "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// REDIS_ADDRが無いとき用。常に未処理扱い（DBのledgerで判定する）。
type NoopWebhookDeduper struct{}

func (NoopWebhookDeduper) Seen(ctx context.Context, eventID string) (bool, error) { return false, nil }
func (NoopWebhookDeduper) MarkDone(ctx context.Context, eventID string) error     { return nil }
