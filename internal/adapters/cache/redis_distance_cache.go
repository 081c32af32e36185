package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"route-refiner/internal/platform/obs"
	"route-refiner/internal/ports"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ ports.DistanceCache = (*RedisDistanceCache)(nil)

// RedisDistanceCache keeps one hash per origin: field = destination,
// value = "meters,seconds". The hash expires ttl after its last write.
type RedisDistanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDistanceCache(rdb *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb, ttl: ttl}
}

// NewRedisDistanceCacheFromURL connects using a redis:// URL.
func NewRedisDistanceCacheFromURL(url string, ttl time.Duration) (*RedisDistanceCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis distance cache: parse url: %w", err)
	}
	return NewRedisDistanceCache(redis.NewClient(opt), ttl), nil
}

func (c *RedisDistanceCache) Close() error { return c.rdb.Close() }

func (c *RedisDistanceCache) key(origin string) string { return "distance:" + origin }

// Fetch cached distances for one origin and multiple destinations.
func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.redis.GetMany")(&err)

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	vals, err := c.rdb.HMGet(ctx, c.key(origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: hmget %q: %w", origin, err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		r, err := decodeDistance(s)
		if err != nil {
			log.Printf("distance cache: dropping entry origin=%q dest=%q: %v", origin, uniq[i], err)
			continue
		}
		out[uniq[i]] = r
	}

	return out, nil
}

// Store many cached distance results for a single origin.
func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance.redis.PutMany")(&err)

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	fields := make([]any, 0, 2*len(results))
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert distance cache: empty destination key")
		}
		fields = append(fields, dest, encodeDistance(r))
	}

	key := c.key(origin)
	_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, fields...)
		if c.ttl > 0 {
			p.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert distance cache origin=%q: %w", origin, err)
	}

	return nil
}

func encodeDistance(r ports.DistanceResult) string {
	return strconv.Itoa(r.DistanceMeters) + "," + strconv.Itoa(r.DurationSeconds)
}

func decodeDistance(s string) (ports.DistanceResult, error) {
	m, sec, ok := strings.Cut(s, ",")
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("malformed value %q", s)
	}
	meters, err := strconv.Atoi(m)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("meters: %w", err)
	}
	seconds, err := strconv.Atoi(sec)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("seconds: %w", err)
	}
	return ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}, nil
}
