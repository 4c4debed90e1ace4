package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/config"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/kpi"
)

const (
	kpiCardsKeyPrefix = "kpi:cards"
	kpiScanBatchSize  = 100
)

// KPICache caches the computed dashboard cards per filter and period. Cards
// only change when a new snapshot is published, so every publish invalidates
// the whole prefix.
type KPICache interface {
	GetCards(ctx context.Context, filter domain.Filter, period kpi.Period) (map[string]kpi.Card, bool, error)
	SetCards(ctx context.Context, filter domain.Filter, period kpi.Period, cards map[string]kpi.Card) error
	InvalidateAll(ctx context.Context) error
}

type redisKPICache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopKPICache struct{}

func NewKPICache(cfg config.CacheConfig) (KPICache, error) {
	if !cfg.Enabled {
		return &noopKPICache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisKPICache{client: client, ttl: ttl}, nil
}

func NewNoopKPICache() KPICache {
	return &noopKPICache{}
}

func (c *redisKPICache) GetCards(ctx context.Context, filter domain.Filter, period kpi.Period) (map[string]kpi.Card, bool, error) {
	key := buildCardsKey(filter, period)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var cards map[string]kpi.Card
	if err := json.Unmarshal(payload, &cards); err != nil {
		return nil, false, fmt.Errorf("decode kpi cards cache: %w", err)
	}

	return cards, true, nil
}

func (c *redisKPICache) SetCards(ctx context.Context, filter domain.Filter, period kpi.Period, cards map[string]kpi.Card) error {
	key := buildCardsKey(filter, period)
	payload, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("encode kpi cards cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisKPICache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, kpiCardsKeyPrefix, kpiScanBatchSize)
}

func (n *noopKPICache) GetCards(ctx context.Context, filter domain.Filter, period kpi.Period) (map[string]kpi.Card, bool, error) {
	return nil, false, nil
}

func (n *noopKPICache) SetCards(ctx context.Context, filter domain.Filter, period kpi.Period, cards map[string]kpi.Card) error {
	return nil
}

func (n *noopKPICache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildCardsKey(filter domain.Filter, period kpi.Period) string {
	return fmt.Sprintf("%s:%s", kpiCardsKeyPrefix, cardsHash(filter, period))
}

// cardsHash derives a stable key from the filter and period. Filter slices
// are hashed as-is; handlers normalize and sort parameters before filtering,
// so equal selections produce equal keys.
func cardsHash(filter domain.Filter, period kpi.Period) string {
	payload, err := json.Marshal(struct {
		Filter domain.Filter `json:"filter"`
		Period kpi.Period    `json:"period"`
	}{filter, period})
	if err != nil {
		return "default"
	}
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])
}
