package calendar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlCalendarFile is the on-disk shape of a holiday-calendar file: a
// weekend weekday set (0..6, Monday=0) and a flat list of ISO-8601 holiday
// dates.
type yamlCalendarFile struct {
	Weekend  []int    `yaml:"weekend"`
	Holidays []string `yaml:"holidays"`
}

// LoadHolidayCalendarYAML reads a named holiday calendar from a YAML file.
// An absent or empty "weekend" key defaults to {Sat, Sun}.
func LoadHolidayCalendarYAML(path string) (*HolidayCalendar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("calendar: read %s: %w", path, err)
	}
	var f yamlCalendarFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("calendar: parse %s: %w", path, err)
	}

	holidays := make([]time.Time, 0, len(f.Holidays))
	for _, s := range f.Holidays {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("calendar: %s: bad holiday date %q: %w", path, s, err)
		}
		holidays = append(holidays, d)
	}
	return NewHolidayCalendar(f.Weekend, holidays), nil
}

// SaveHolidayCalendarYAML writes cal out in the format LoadHolidayCalendarYAML
// reads, with the weekend set and the ISO-8601 holiday dates each sorted
// ascending.
func SaveHolidayCalendarYAML(path string, cal *HolidayCalendar) error {
	f := yamlCalendarFile{}
	for wd := range cal.weekends {
		f.Weekend = append(f.Weekend, wd)
	}
	for key := range cal.holidays {
		f.Holidays = append(f.Holidays, key)
	}
	sortInts(f.Weekend)
	sortStrings(f.Holidays)

	raw, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("calendar: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("calendar: write %s: %w", path, err)
	}
	return nil
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
