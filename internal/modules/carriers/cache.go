package carriers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rates-and-booking/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	activeCarriersKey = "carriers:active"
	cacheTTL          = 5 * time.Minute
)

// cache holds the active rate-card list in Redis for a few minutes so a burst
// of comparisons does not hit Postgres per request. A nil client disables
// caching entirely; every method degrades to a miss.
type cache struct {
	rdb *redis.Client
}

func (c *cache) getActive(ctx context.Context) ([]models.CarrierConfig, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, activeCarriersKey).Bytes()
	if err != nil {
		return nil, false
	}
	var configs []models.CarrierConfig
	if err := json.Unmarshal(raw, &configs); err != nil {
		return nil, false
	}
	return configs, true
}

func (c *cache) setActive(ctx context.Context, configs []models.CarrierConfig) error {
	if c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(configs)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, activeCarriersKey, raw, cacheTTL).Err()
}

func (c *cache) invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	err := c.rdb.Del(ctx, activeCarriersKey).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
