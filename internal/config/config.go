// Package config holds dexprctl's process-wide settings, following the
// same package-level Config/DefaultConfig/Get/Set shape used throughout the
// finance tooling this CLI was extracted from.
package config

// Config holds the settings dexprctl's calendar and scheduling commands
// read at startup.
type Config struct {
	// DefaultWeekend is the weekday set (0=Mon..6=Sun) treated as non
	// business days when no holiday calendar is supplied.
	DefaultWeekend []int

	// CalendarCacheTTLSeconds is how long a Redis-backed calendar cache
	// entry stays valid before a reload from Postgres/YAML.
	CalendarCacheTTLSeconds int

	// MaxScheduleLength caps the number of periods a schedule command will
	// emit, guarding against runaway cadence/window combinations.
	MaxScheduleLength int
}

// DefaultConfig is the Saturday/Sunday weekend, 24h cache, 2400-period cap.
var DefaultConfig = Config{
	DefaultWeekend:          []int{5, 6},
	CalendarCacheTTLSeconds: 86400,
	MaxScheduleLength:       2400,
}

var cfg = DefaultConfig

// Set replaces the active configuration.
func Set(c Config) { cfg = c }

// Get returns the active configuration.
func Get() Config { return cfg }
