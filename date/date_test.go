package date_test

import (
	"testing"
	"time"

	"github.com/meenmo/dexpr/date"
)

func TestWeekday(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"2024-01-01", 0}, // Monday
		{"2024-01-05", 4}, // Friday
		{"2024-01-06", 5}, // Saturday
		{"2024-01-07", 6}, // Sunday
	}
	for _, c := range cases {
		d, err := date.Parse(c.s)
		if err != nil {
			t.Fatalf("parse %s: %v", c.s, err)
		}
		if got := date.Weekday(d); got != c.want {
			t.Errorf("Weekday(%s) = %d, want %d", c.s, got, c.want)
		}
	}
}

func TestAddMonthsClampedEndOfMonth(t *testing.T) {
	d, _ := date.Parse("2023-01-31")
	got := date.AddMonthsClamped(d, 1)
	want, _ := date.Parse("2023-02-28")
	if !got.Equal(want) {
		t.Errorf("AddMonthsClamped(2023-01-31, 1) = %s, want %s", date.Format(got), date.Format(want))
	}
}

func TestAddMonthsClampedLeapYear(t *testing.T) {
	d, _ := date.Parse("2023-01-31")
	got := date.AddMonthsClamped(d, 13)
	want, _ := date.Parse("2024-02-29")
	if !got.Equal(want) {
		t.Errorf("AddMonthsClamped(2023-01-31, 13) = %s, want %s", date.Format(got), date.Format(want))
	}
}

func TestAddMonthsClampedNoClampNeeded(t *testing.T) {
	d, _ := date.Parse("2023-11-30")
	got := date.AddMonthsClamped(d, 1)
	want, _ := date.Parse("2023-12-30")
	if !got.Equal(want) {
		t.Errorf("AddMonthsClamped(2023-11-30, 1) = %s, want %s", date.Format(got), date.Format(want))
	}
}

func TestNextMonday(t *testing.T) {
	mon, _ := date.Parse("2024-01-01")
	if got := date.NextMonday(mon); !got.Equal(mon) {
		t.Errorf("NextMonday(Monday) = %s, want unchanged", date.Format(got))
	}
	wed, _ := date.Parse("2024-01-03")
	want, _ := date.Parse("2024-01-08")
	if got := date.NextMonday(wed); !got.Equal(want) {
		t.Errorf("NextMonday(Wed) = %s, want %s", date.Format(got), date.Format(want))
	}
}

func TestSentinels(t *testing.T) {
	if !date.IsSentinelLow(date.Min) {
		t.Error("IsSentinelLow(Min) = false")
	}
	if !date.IsSentinelHigh(date.Max) {
		t.Error("IsSentinelHigh(Max) = false")
	}
	mid := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if date.IsSentinelLow(mid) || date.IsSentinelHigh(mid) {
		t.Error("ordinary date misidentified as sentinel")
	}
}
