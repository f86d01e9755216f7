package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheEntry is the JSON shape stored in Redis for a resolved calendar.
type cacheEntry struct {
	Weekend  []int    `json:"weekend"`
	Holidays []string `json:"holidays"`
}

// RedisCache caches resolved named holiday calendars, fronting a slower
// backing store (typically PostgresStore) with a TTL.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache builds a cache against addr. ttl <= 0 means entries never
// expire.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		prefix: "dexpr:calendar:",
	}
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

func (c *RedisCache) key(name string) string {
	return c.prefix + name
}

// Get returns the cached calendar for name, or (nil, false) on a cache miss.
func (c *RedisCache) Get(ctx context.Context, name string) (*HolidayCalendar, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(name)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("calendar cache: get %s: %w", name, err)
	}
	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("calendar cache: decode %s: %w", name, err)
	}
	holidays := make([]time.Time, 0, len(entry.Holidays))
	for _, s := range entry.Holidays {
		h, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, false, fmt.Errorf("calendar cache: decode %s: bad holiday date %q: %w", name, s, err)
		}
		holidays = append(holidays, h)
	}
	return NewHolidayCalendar(entry.Weekend, holidays), true, nil
}

// Set stores cal under name, overwriting any previous entry.
func (c *RedisCache) Set(ctx context.Context, name string, cal *HolidayCalendar) error {
	entry := cacheEntry{}
	for wd := range cal.weekends {
		entry.Weekend = append(entry.Weekend, wd)
	}
	for key := range cal.holidays {
		entry.Holidays = append(entry.Holidays, key)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("calendar cache: encode %s: %w", name, err)
	}
	if err := c.rdb.Set(ctx, c.key(name), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("calendar cache: set %s: %w", name, err)
	}
	return nil
}
