package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"toilet-finder/logger"
	"toilet-finder/metrics"
	"toilet-finder/models"

	"github.com/redis/go-redis/v9"
)

// CachedRouter memoizes routes in Redis keyed by rounded endpoints.
// Cache failures never fail a route: they are logged and the wrapped
// router is used directly.
type CachedRouter struct {
	next        Router
	redisClient *redis.Client
	ttl         time.Duration
}

func NewCachedRouter(next Router, redisClient *redis.Client, ttl time.Duration) *CachedRouter {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedRouter{next: next, redisClient: redisClient, ttl: ttl}
}

// routeCacheKey rounds to 5 decimals (about 1 m), finer than any fix.
func routeCacheKey(from, to models.Coordinate) string {
	return fmt.Sprintf("route:%.5f,%.5f:%.5f,%.5f", from.Lat, from.Lng, to.Lat, to.Lng)
}

func (c *CachedRouter) Route(ctx context.Context, from, to models.Coordinate) (models.Route, error) {
	key := routeCacheKey(from, to)

	cached, err := c.redisClient.Get(ctx, key).Result()
	switch {
	case err == nil:
		var route models.Route
		if err := json.Unmarshal([]byte(cached), &route); err == nil {
			metrics.RouteCacheHitsTotal.Inc()
			route.From, route.To = from, to
			return route, nil
		}
		logger.L().Warn("route_cache_decode_error", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		logger.L().Warn("route_cache_get_error", "key", key, "err", err)
	}
	metrics.RouteCacheMissesTotal.Inc()

	route, err := c.next.Route(ctx, from, to)
	if err != nil {
		return models.Route{}, err
	}

	payload, err := json.Marshal(route)
	if err != nil {
		logger.L().Warn("route_cache_encode_error", "key", key, "err", err)
		return route, nil
	}
	if err := c.redisClient.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.L().Warn("route_cache_set_error", "key", key, "err", err)
	}

	return route, nil
}
