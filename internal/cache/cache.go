package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kasaapp/kasa/internal/models"
)

const calculationTTL = 10 * time.Minute

// CalculationCache caches yearly calculation rows in Redis. A nil client
// disables caching; every method is a no-op then.
type CalculationCache struct {
	client *redis.Client
}

// NewCalculationCache creates a cache backed by the given Redis client,
// which may be nil.
func NewCalculationCache(client *redis.Client) *CalculationCache {
	return &CalculationCache{client: client}
}

func calculationKey(year int) string {
	return fmt.Sprintf("kasa:calculation:%d", year)
}

// Get returns the cached calculation for a year, or (nil, nil) on a miss.
func (c *CalculationCache) Get(ctx context.Context, year int) (*models.YearlyCalculation, error) {
	if c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, calculationKey(year)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var calc models.YearlyCalculation
	if err := json.Unmarshal(data, &calc); err != nil {
		return nil, err
	}
	return &calc, nil
}

// Set stores a calculation row for its year
func (c *CalculationCache) Set(ctx context.Context, calc *models.YearlyCalculation) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(calc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, calculationKey(calc.Year), data, calculationTTL).Err()
}

// Invalidate drops the cached calculation for a year
func (c *CalculationCache) Invalidate(ctx context.Context, year int) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, calculationKey(year)).Err()
}
