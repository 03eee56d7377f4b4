package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/task-tracker-api/internal/cache"
)

const denylistKeyPrefix = "auth:revoked:"

// Denylist records revoked token IDs until the tokens would have expired anyway
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisDenylist shares revocations across instances
type RedisDenylist struct {
	client  *redis.Client
	timeout time.Duration
	now     func() time.Time
}

// NewRedisDenylist creates a denylist backed by the given client
func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{
		client:  client,
		timeout: 3 * time.Second,
		now:     time.Now,
	}
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.client.Set(ctx, denylistKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	n, err := d.client.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// Ping reports whether Redis is reachable
func (d *RedisDenylist) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.client.Ping(ctx).Err()
}

// MemoryDenylist keeps revocations in process memory. Used when Redis is not configured.
type MemoryDenylist struct {
	revoked *cache.TTLCache[string, struct{}]
	now     func() time.Time
}

// NewMemoryDenylist creates an empty in-process denylist
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		revoked: cache.NewTTLCache[string, struct{}](),
		now:     time.Now,
	}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	d.revoked.PurgeExpired()
	d.revoked.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return d.revoked.Has(tokenID), nil
}
