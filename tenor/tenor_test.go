package tenor_test

import (
	"errors"
	"testing"
	"time"

	"github.com/meenmo/dexpr/errs"
	"github.com/meenmo/dexpr/tenor"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func TestParseValidRoundTrips(t *testing.T) {
	valid := []string{
		"2y3m1w6d", "3m", "1w", "6d", "2y", "2b", "0d", "20000y", "-2y", "-2b",
	}
	for _, s := range valid {
		tn, err := tenor.Parse(s)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", s, err)
			continue
		}
		if got := tn.String(); got != s {
			t.Errorf("Parse(%q).String() = %q, want %q", s, got, s)
		}
		tn2, err := tenor.Parse(tn.String())
		if err != nil {
			t.Errorf("round-trip Parse(%q) failed: %v", tn.String(), err)
			continue
		}
		if tn2 != tn {
			t.Errorf("round-trip mismatch: %+v != %+v", tn2, tn)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	invalid := []string{"2d2b", "2 d", "2", "d", "1yd"}
	for _, s := range invalid {
		if _, err := tenor.Parse(s); err == nil {
			t.Errorf("Parse(%q) expected error, got none", s)
		}
	}
}

func TestParseTenorConflict(t *testing.T) {
	_, err := tenor.Parse("2d2b")
	if !errors.Is(err, errs.ErrTenorConflict) {
		t.Errorf("Parse(2d2b) error = %v, want ErrTenorConflict", err)
	}
}

func TestAddToMonthEndClamping(t *testing.T) {
	cases := []struct {
		tenorText string
		start     string
		want      string
	}{
		{"1y1m", "2023-01-31", "2024-02-29"},
		{"1y1m1w", "2023-01-31", "2024-03-07"},
		{"1w23d", "2023-01-31", "2023-03-02"},
		{"1m", "2023-12-31", "2024-01-31"},
		{"1m", "2023-11-30", "2023-12-30"},
	}
	for _, c := range cases {
		tn, err := tenor.Parse(c.tenorText)
		if err != nil {
			t.Fatalf("parse %s: %v", c.tenorText, err)
		}
		got, err := tn.AddTo(mustDate(t, c.start), nil)
		if err != nil {
			t.Fatalf("AddTo(%s, %s): %v", c.tenorText, c.start, err)
		}
		want := mustDate(t, c.want)
		if !got.Equal(want) {
			t.Errorf("Tenor(%s).AddTo(%s) = %s, want %s", c.tenorText, c.start, got.Format("2006-01-02"), c.want)
		}
	}
}

func TestSubFromIsNegatedAddTo(t *testing.T) {
	cases := []struct {
		tenorText string
		start     string
		want      string
	}{
		{"1y1m", "2023-01-31", "2021-12-31"},
		{"1y1m1w", "2023-01-31", "2021-12-24"},
		{"1w23d", "2023-01-31", "2023-01-01"},
		{"1m", "2023-12-31", "2023-11-30"},
		{"1m", "2024-01-30", "2023-12-30"},
	}
	for _, c := range cases {
		tn, err := tenor.Parse(c.tenorText)
		if err != nil {
			t.Fatalf("parse %s: %v", c.tenorText, err)
		}
		got, err := tn.SubFrom(mustDate(t, c.start), nil)
		if err != nil {
			t.Fatalf("SubFrom(%s, %s): %v", c.tenorText, c.start, err)
		}
		want := mustDate(t, c.want)
		if !got.Equal(want) {
			t.Errorf("Tenor(%s).SubFrom(%s) = %s, want %s", c.tenorText, c.start, got.Format("2006-01-02"), c.want)
		}
	}
}

func TestBusinessTenorNeedsCalendar(t *testing.T) {
	tn, _ := tenor.Parse("2b")
	_, err := tn.AddTo(mustDate(t, "2024-01-01"), nil)
	if !errors.Is(err, errs.ErrNeedsCalendar) {
		t.Errorf("AddTo with b-tenor and nil calendar error = %v, want ErrNeedsCalendar", err)
	}
}

func TestNegate(t *testing.T) {
	tn := tenor.MustParse("2y3m")
	neg := tn.Negate()
	if !neg.IsNegative() {
		t.Error("Negate() did not flip sign")
	}
	if neg.Negate() != tn {
		t.Error("double negate should return to original")
	}
}

func TestZeroDayVsZeroBusinessDistinct(t *testing.T) {
	zeroDay := tenor.MustParse("0d")
	zeroBiz := tenor.MustParse("0b")
	if zeroDay == zeroBiz {
		t.Error("0d and 0b must not compare equal")
	}
	if !zeroDay.IsZero() {
		t.Error("0d should be the additive identity")
	}
	if zeroBiz.IsZero() {
		t.Error("0b should not be considered the additive identity")
	}
}
