package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	fxRatesKeyPrefix = "fx:rates"
	defaultFXTTL     = 10 * time.Minute
)

// FXRatesCache caches FX quotes per base+symbols pair so repeated calculator
// runs don't hammer the rates provider.
type FXRatesCache interface {
	GetRates(ctx context.Context, base string, symbols []string) (*domain.FXRates, bool, error)
	SetRates(ctx context.Context, base string, symbols []string, rates *domain.FXRates) error
}

type redisFXCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopFXCache struct{}

// NewRedisFXCache wraps an existing redis client with the FX TTL.
func NewRedisFXCache(client *redis.Client, ttlSeconds int) FXRatesCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultFXTTL
	}
	return &redisFXCache{client: client, ttl: ttl}
}

func NewNoopFXCache() FXRatesCache {
	return &noopFXCache{}
}

func (c *redisFXCache) GetRates(ctx context.Context, base string, symbols []string) (*domain.FXRates, bool, error) {
	key := buildFXRatesKey(base, symbols)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var rates domain.FXRates
	if err := json.Unmarshal(payload, &rates); err != nil {
		return nil, false, fmt.Errorf("decode fx rates cache: %w", err)
	}

	return &rates, true, nil
}

func (c *redisFXCache) SetRates(ctx context.Context, base string, symbols []string, rates *domain.FXRates) error {
	key := buildFXRatesKey(base, symbols)
	payload, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("encode fx rates cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *noopFXCache) GetRates(context.Context, string, []string) (*domain.FXRates, bool, error) {
	return nil, false, nil
}

func (c *noopFXCache) SetRates(context.Context, string, []string, *domain.FXRates) error {
	return nil
}

func buildFXRatesKey(base string, symbols []string) string {
	return fmt.Sprintf("%s:%s:%s", fxRatesKeyPrefix, strings.ToUpper(base), strings.ToUpper(strings.Join(symbols, ",")))
}
