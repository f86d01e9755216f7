package dexpr_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/meenmo/dexpr/dexpr"
	"github.com/meenmo/dexpr/calendar"
	"github.com/meenmo/dexpr/tenor"
)

func dates(ss ...string) []time.Time {
	out := make([]time.Time, len(ss))
	for i, s := range ss {
		out[i] = dexpr.MustD(s)
	}
	return out
}

func windowBetween(lo, hi string) dexpr.Window {
	w := dexpr.DefaultWindow()
	w.Start = dexpr.MustD(lo)
	w.End = dexpr.MustD(hi)
	return w
}

func assertDates(t *testing.T, got []time.Time, want []time.Time) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", formatAll(got), formatAll(want))
	}
}

func formatAll(ds []time.Time) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Format("2006-01-02")
	}
	return out
}

// Scenario 1: '2024-01-01' <= days <= '2024-01-05' -> Jan 01..05.
func TestScenarioDaysBetween(t *testing.T) {
	e := dexpr.Between(dexpr.E(dexpr.Days), dexpr.D("2024-01-01"), dexpr.D("2024-01-05"))
	got, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, dates("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"))
}

// Scenario 2: '2024-01-01' < days[::2] <= '2024-01-05' -> 01-03, 01-05.
func TestScenarioDaysStrideSlice(t *testing.T) {
	sliced := dexpr.E(dexpr.Days).Slice(dexpr.SliceSpec{Step: 2})
	e := dexpr.E(dexpr.BeforeOrOn(sliced.Node, dexpr.D("2024-01-05").Node))
	e = dexpr.E(dexpr.After(e.Node, dexpr.D("2024-01-01").Node))
	got, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, dates("2024-01-03", "2024-01-05"))
}

// Scenario 3: '2024-01-01' <= weeks <= '2024-02-01' -> every Monday.
func TestScenarioWeeksBetween(t *testing.T) {
	e := dexpr.Between(dexpr.E(dexpr.Weeks), dexpr.D("2024-01-01"), dexpr.D("2024-02-01"))
	got, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, dates("2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"))
}

// Scenario 4: '2024-01-03' <= weeks.fri | '2024-01-15' <= '2024-02-01'.
func TestScenarioWeeksFriJoinConst(t *testing.T) {
	fri := dexpr.E(dexpr.Weeks).Fri()
	joined := fri.Join(dexpr.D("2024-01-15"))
	e := dexpr.Between(joined, dexpr.D("2024-01-03"), dexpr.D("2024-02-01"))
	got, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, dates("2024-01-05", "2024-01-12", "2024-01-15", "2024-01-19", "2024-01-26"))
}

// Scenario 5: '2024-01-03' <= months.weeks[-2] <= '2024-02-28' -> second-to-last Monday of each month.
func TestScenarioMonthsWeeksNegIndex(t *testing.T) {
	m := dexpr.NewMonths()
	sub := m.Weeks().Index(-2)
	e := dexpr.Between(sub, dexpr.D("2024-01-03"), dexpr.D("2024-02-28"))
	got, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, dates("2024-01-22", "2024-02-19"))
}

// Scenario 6: third Friday of April each year, via explicit Weeks-then-Fri
// composition (Go replaces the source's implicit attribute delegation with
// explicit method order: .Weeks().Fri().Index(n) for "nth Friday of the
// period", vs .Weeks().Index(n).Fri() for "Friday of the nth week").
func TestScenarioThirdFridayOfApril(t *testing.T) {
	y := dexpr.NewYears()
	thirdFriApr := y.Apr().Weeks().Fri().Index(2)
	e := dexpr.E(dexpr.Before(dexpr.AfterOrOn(thirdFriApr.Node, dexpr.D("2020-01-03").Node), dexpr.D("2023-12-31").Node))
	got, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, dates("2020-04-17", "2021-04-16", "2022-04-15", "2023-04-21"))
}

func ukEnglandBankHolidaysAroundEaster() []time.Time {
	return dates(
		"2020-04-10", "2020-04-13",
		"2021-04-02", "2021-04-05",
		"2022-04-15", "2022-04-18",
		"2023-04-07", "2023-04-10",
	)
}

// Scenario 7: roll_fwd(years.apr.fri[2]).over(UK-ENG holidays) intersected
// with [2020-01-03, 2023-12-31). Good Friday 2022 (Apr 15) is itself the
// third Friday of April that year, rolling forward past Easter Monday to
// Apr 19.
func TestScenarioRollFwdWithHolidayCalendar(t *testing.T) {
	y := dexpr.NewYears()
	thirdFriApr := y.Apr().Weeks().Fri().Index(2)
	cal := calendar.NewHolidayCalendar([]int{5, 6}, ukEnglandBankHolidaysAroundEaster())
	rolled := thirdFriApr.RollFwd().Over(cal)
	e := dexpr.E(dexpr.Before(dexpr.AfterOrOn(rolled.Node, dexpr.D("2020-01-03").Node), dexpr.D("2023-12-31").Node))
	got, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, dates("2020-04-17", "2021-04-16", "2022-04-19", "2023-04-21"))
}

func TestRollBwdWithHolidayCalendar(t *testing.T) {
	y := dexpr.NewYears()
	thirdFriApr := y.Apr().Weeks().Fri().Index(2)
	cal := calendar.NewHolidayCalendar([]int{5, 6}, ukEnglandBankHolidaysAroundEaster())
	rolled := thirdFriApr.RollBwd().Over(cal)
	e := dexpr.E(dexpr.Before(dexpr.AfterOrOn(rolled.Node, dexpr.D("2020-01-03").Node), dexpr.D("2023-12-31").Node))
	got, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, dates("2020-04-17", "2021-04-16", "2022-04-14", "2023-04-21"))
}

// --- Universal invariants (§8) ---

func TestInvariantStrictlyAscending(t *testing.T) {
	exprs := []dexpr.Expr{
		dexpr.Between(dexpr.E(dexpr.Days), dexpr.D("2024-01-01"), dexpr.D("2024-03-01")),
		dexpr.Between(dexpr.E(dexpr.Weeks), dexpr.D("2024-01-01"), dexpr.D("2024-06-01")),
		dexpr.Between(dexpr.NewMonths().Expr, dexpr.D("2020-01-01"), dexpr.D("2025-01-01")),
	}
	for i, e := range exprs {
		got, err := e.Evaluate(dexpr.DefaultWindow())
		if err != nil {
			t.Fatalf("expr %d: %v", i, err)
		}
		for j := 1; j < len(got); j++ {
			if !got[j].After(got[j-1]) {
				t.Errorf("expr %d: not strictly ascending at %d: %v <= %v", i, j, got[j], got[j-1])
			}
		}
	}
}

func TestInvariantMeetIdempotent(t *testing.T) {
	w := windowBetween("2024-01-01", "2024-03-01")
	g := dexpr.Between(dexpr.E(dexpr.Days), dexpr.D("2024-01-01"), dexpr.D("2024-03-01"))
	meet := g.Meet(g)
	got, err := meet.Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	want, err := g.Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, want)
}

func TestInvariantJoinIdempotent(t *testing.T) {
	w := windowBetween("2024-01-01", "2024-03-01")
	g := dexpr.Between(dexpr.E(dexpr.Weeks), dexpr.D("2024-01-01"), dexpr.D("2024-03-01"))
	join := g.Join(g)
	got, err := join.Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	want, err := g.Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, want)
}

func TestInvariantDiffSelfIsEmpty(t *testing.T) {
	w := windowBetween("2024-01-01", "2024-03-01")
	g := dexpr.Between(dexpr.E(dexpr.Days), dexpr.D("2024-01-01"), dexpr.D("2024-03-01"))
	diff := g.Diff(g)
	got, err := diff.Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Diff(g, g) not empty: %v", formatAll(got))
	}
}

func TestInvariantJoinCommutative(t *testing.T) {
	w := windowBetween("2024-01-01", "2024-03-01")
	a := dexpr.Between(dexpr.E(dexpr.Weeks), dexpr.D("2024-01-01"), dexpr.D("2024-03-01"))
	b := dexpr.Between(dexpr.E(dexpr.Weeks).Fri(), dexpr.D("2024-01-01"), dexpr.D("2024-03-01"))
	ab, err := a.Join(b).Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := b.Join(a).Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, ab, ba)
}

func TestInvariantMeetCommutative(t *testing.T) {
	w := windowBetween("2024-01-01", "2024-06-01")
	a := dexpr.Between(dexpr.E(dexpr.Days), dexpr.D("2024-01-01"), dexpr.D("2024-06-01"))
	b := dexpr.Between(dexpr.E(dexpr.Weeks), dexpr.D("2024-01-01"), dexpr.D("2024-06-01"))
	ab, err := a.Meet(b).Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := b.Meet(a).Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, ab, ba)
}

func TestInvariantShiftInverse(t *testing.T) {
	w := windowBetween("2024-01-01", "2024-06-01")
	g := dexpr.Between(dexpr.E(dexpr.Days), dexpr.D("2024-01-01"), dexpr.D("2024-06-01"))
	shifted := g.Shift(tenor.MustParse("3d")).ShiftBack(tenor.MustParse("3d"))
	got, err := shifted.Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	want, err := g.Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, want)
}

func TestInvariantMonthEndClamping(t *testing.T) {
	e := dexpr.E(dexpr.Const(dexpr.MustD("2023-01-31"))).Shift(tenor.MustParse("1m"))
	got, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, dates("2023-02-28"))
}

func TestInvariantSliceComposability(t *testing.T) {
	w := windowBetween("2024-01-01", "2024-01-31")
	g := dexpr.E(dexpr.Days)
	outer := g.Slice(dexpr.SliceSpec{Start: intPtr(2), Stop: intPtr(10)})
	nested := outer.Slice(dexpr.SliceSpec{Start: intPtr(1), Stop: intPtr(4)})
	got, err := nested.Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	flat := g.Slice(dexpr.SliceSpec{Start: intPtr(3), Stop: intPtr(6)})
	want, err := flat.Evaluate(w)
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, want)
}

func intPtr(i int) *int { return &i }

func TestUnboundedWindowFails(t *testing.T) {
	_, err := dexpr.E(dexpr.Days).Evaluate(dexpr.DefaultWindow())
	if err == nil {
		t.Error("expected UnboundedWindow error")
	}
}

func TestBusinessDaysRequiresCalendar(t *testing.T) {
	e := dexpr.Between(dexpr.E(dexpr.Days).BusinessDays(), dexpr.D("2024-01-01"), dexpr.D("2024-01-31"))
	_, err := e.Evaluate(dexpr.DefaultWindow())
	if err == nil {
		t.Error("expected NeedsCalendar error")
	}
}

func TestBusinessDaysOverWeekendCalendar(t *testing.T) {
	cal := calendar.NewWeekendCalendar(5, 6)
	e := dexpr.Between(dexpr.E(dexpr.Days).BusinessDays().Over(cal), dexpr.D("2024-01-01"), dexpr.D("2024-01-07"))
	got, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	assertDates(t, got, dates("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"))
}

func TestIllegalSubSequenceOnDayCadence(t *testing.T) {
	_, err := dexpr.SubSequence(dexpr.Days, dexpr.Weeks)
	if err == nil {
		t.Error("expected ErrIllegalSubsequence for day-cadence outer")
	}
}

func TestNegativeIndexOnUnboundedFails(t *testing.T) {
	e := dexpr.E(dexpr.After(dexpr.Days, dexpr.D("2024-01-01").Node)).Index(-1)
	_, err := e.Evaluate(dexpr.DefaultWindow())
	if err == nil {
		t.Error("expected NegativeIndexUnbounded error")
	}
}
