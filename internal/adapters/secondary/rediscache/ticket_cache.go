// Package rediscache implements the vendor ticket detail cache on Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

const keyPrefix = "ticket:detail:"

// TicketCache stores serialized ticket snapshots under a TTL.
type TicketCache struct {
	client *redis.Client
}

var _ ports.TicketCache = (*TicketCache)(nil)

// NewTicketCache connects to Redis and verifies the connection.
func NewTicketCache(addr, password string, db int) (*TicketCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &TicketCache{client: client}, nil
}

// GetDetail returns the cached snapshot for a ticket, or (nil, nil) on a miss.
func (c *TicketCache) GetDetail(ctx context.Context, ticketID string) (*domain.TicketDetail, error) {
	payload, err := c.client.Get(ctx, keyPrefix+ticketID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ticket cache: %w", err)
	}

	var detail domain.TicketDetail
	if err := json.Unmarshal(payload, &detail); err != nil {
		// A corrupt entry behaves like a miss; the next write replaces it.
		return nil, nil
	}
	return &detail, nil
}

// SetDetail stores a snapshot under the given TTL.
func (c *TicketCache) SetDetail(ctx context.Context, detail *domain.TicketDetail, ttl time.Duration) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to serialize ticket detail: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+detail.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write ticket cache: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection, for readiness probes.
func (c *TicketCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *TicketCache) Close() error {
	return c.client.Close()
}
