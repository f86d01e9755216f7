package main

import (
	"context"
	"time"

	"github.com/meenmo/dexpr/calendar"
	"github.com/meenmo/dexpr/internal/applog"
	"github.com/meenmo/dexpr/internal/config"
)

// resolveCalendar implements the cache -> database -> file -> built-in
// weekend fallback chain dexprctl's --calendar-* flags describe. A cache read
// failure is logged and skipped; a database or file failure is returned as an
// error. When none of the backends are configured it returns a
// WeekendCalendar over the configured DefaultWeekend (Saturday/Sunday unless
// changed).
func resolveCalendar(ctx context.Context) (calendar.Calendar, error) {
	log := applog.Log()
	cfg := config.Get()

	var redisCache *calendar.RedisCache
	if calendarCache != "" {
		redisCache = calendar.NewRedisCache(calendarCache, time.Duration(cfg.CalendarCacheTTLSeconds)*time.Second)
		defer redisCache.Close()

		cal, hit, err := redisCache.Get(ctx, calendarName)
		if err != nil {
			log.WithError(err).Warn("calendar cache read failed")
		} else if hit {
			log.WithField("name", calendarName).Debug("calendar cache hit")
			return cal, nil
		}
	}

	if calendarDB != "" {
		store, err := calendar.OpenPostgresStore(calendarDB)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		cal, err := store.Load(calendarName)
		if err != nil {
			return nil, err
		}
		log.WithField("name", calendarName).Debug("calendar loaded from database")
		if redisCache != nil {
			if err := redisCache.Set(ctx, calendarName, cal); err != nil {
				log.WithError(err).Warn("calendar cache write failed")
			}
		}
		return cal, nil
	}

	if calendarFile != "" {
		cal, err := calendar.LoadHolidayCalendarYAML(calendarFile)
		if err != nil {
			return nil, err
		}
		log.WithField("file", calendarFile).Debug("calendar loaded from file")
		if redisCache != nil {
			if err := redisCache.Set(ctx, calendarName, cal); err != nil {
				log.WithError(err).Warn("calendar cache write failed")
			}
		}
		return cal, nil
	}

	log.Debug("no calendar source configured, using weekend-only calendar")
	return calendar.NewWeekendCalendar(cfg.DefaultWeekend...), nil
}
