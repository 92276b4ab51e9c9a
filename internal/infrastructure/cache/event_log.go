// Package cache keeps short-lived processing markers in redis.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/application"
	"github.com/DanielPopoola/gst-checkout/internal/config"
	"github.com/redis/go-redis/v9"
)

const webhookOperation = "webhook-event"

var (
	_ application.EventLog = (*RedisEventLog)(nil)
	_ application.EventLog = NopEventLog{}
)

// RedisEventLog records processed webhook event ids with a TTL.
type RedisEventLog struct {
	client      *redis.Client
	serviceName string
	ttl         time.Duration
}

func NewRedisEventLog(cfg config.CacheConfig, serviceName string) *RedisEventLog {
	return &RedisEventLog{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		serviceName: serviceName,
		ttl:         cfg.EventTTL,
	}
}

func (r *RedisEventLog) Seen(ctx context.Context, eventID string) (bool, error) {
	_, err := r.client.Get(ctx, r.generateKey(eventID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisEventLog) Remember(ctx context.Context, eventID string) error {
	return r.client.Set(ctx, r.generateKey(eventID), time.Now().UTC().Format(time.RFC3339), r.ttl).Err()
}

// Ping checks that redis is reachable.
func (r *RedisEventLog) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisEventLog) Close() error {
	return r.client.Close()
}

func (r *RedisEventLog) generateKey(eventID string) string {
	return fmt.Sprintf("%s:%s:%s", r.serviceName, webhookOperation, eventID)
}

// NopEventLog never remembers anything. Redelivered events fall through to the
// idempotent ledger transitions.
type NopEventLog struct{}

func (NopEventLog) Seen(context.Context, string) (bool, error) { return false, nil }

func (NopEventLog) Remember(context.Context, string) error { return nil }
