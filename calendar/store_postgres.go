package calendar

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore persists named holiday calendars in Postgres: one row per
// (calendar name, weekend weekday) and one row per (calendar name, holiday
// date). Schema is created lazily by EnsureSchema; callers own the *sql.DB
// lifecycle.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgresStore opens a Postgres connection pool from dsn. Callers
// should call EnsureSchema once before first use.
func OpenPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("calendar: open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("calendar: ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the calendar tables if they do not already exist.
func (s *PostgresStore) EnsureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS dexpr_calendar_weekend (
			calendar_name TEXT NOT NULL,
			weekday       SMALLINT NOT NULL,
			PRIMARY KEY (calendar_name, weekday)
		)`,
		`CREATE TABLE IF NOT EXISTS dexpr_calendar_holiday (
			calendar_name TEXT NOT NULL,
			holiday_date  DATE NOT NULL,
			PRIMARY KEY (calendar_name, holiday_date)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("calendar: ensure schema: %w", err)
		}
	}
	return nil
}

// Save upserts name's weekend set and holiday list, replacing whatever was
// previously stored under that name.
func (s *PostgresStore) Save(name string, cal *HolidayCalendar) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("calendar: save %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM dexpr_calendar_weekend WHERE calendar_name = $1`, name); err != nil {
		return fmt.Errorf("calendar: save %s: %w", name, err)
	}
	if _, err := tx.Exec(`DELETE FROM dexpr_calendar_holiday WHERE calendar_name = $1`, name); err != nil {
		return fmt.Errorf("calendar: save %s: %w", name, err)
	}
	for wd := range cal.weekends {
		if _, err := tx.Exec(
			`INSERT INTO dexpr_calendar_weekend (calendar_name, weekday) VALUES ($1, $2)`,
			name, wd,
		); err != nil {
			return fmt.Errorf("calendar: save %s: %w", name, err)
		}
	}
	for key := range cal.holidays {
		if _, err := tx.Exec(
			`INSERT INTO dexpr_calendar_holiday (calendar_name, holiday_date) VALUES ($1, $2)`,
			name, key,
		); err != nil {
			return fmt.Errorf("calendar: save %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// Load reconstructs the named holiday calendar. It returns sql.ErrNoRows if
// no rows are stored under that name at all.
func (s *PostgresStore) Load(name string) (*HolidayCalendar, error) {
	var weekends []int
	wrows, err := s.db.Query(`SELECT weekday FROM dexpr_calendar_weekend WHERE calendar_name = $1`, name)
	if err != nil {
		return nil, fmt.Errorf("calendar: load %s: %w", name, err)
	}
	defer wrows.Close()
	for wrows.Next() {
		var wd int
		if err := wrows.Scan(&wd); err != nil {
			return nil, fmt.Errorf("calendar: load %s: %w", name, err)
		}
		weekends = append(weekends, wd)
	}

	var holidays []time.Time
	hrows, err := s.db.Query(`SELECT holiday_date FROM dexpr_calendar_holiday WHERE calendar_name = $1`, name)
	if err != nil {
		return nil, fmt.Errorf("calendar: load %s: %w", name, err)
	}
	defer hrows.Close()
	for hrows.Next() {
		var h time.Time
		if err := hrows.Scan(&h); err != nil {
			return nil, fmt.Errorf("calendar: load %s: %w", name, err)
		}
		holidays = append(holidays, h)
	}

	if len(weekends) == 0 && len(holidays) == 0 {
		return nil, sql.ErrNoRows
	}
	return NewHolidayCalendar(weekends, holidays), nil
}
