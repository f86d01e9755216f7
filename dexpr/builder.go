package dexpr

import (
	"time"

	"github.com/meenmo/dexpr/calendar"
	"github.com/meenmo/dexpr/date"
	"github.com/meenmo/dexpr/tenor"
)

// Expr is the fluent wrapper the builder API exposes over a Node: every
// method returns a new Expr, never mutating the receiver, matching §4.4's
// "ergonomic construction via arithmetic and comparison combinators".
type Expr struct{ Node Node }

// E wraps an existing Node for fluent chaining.
func E(n Node) Expr { return Expr{Node: n} }

// D parses an ISO-8601 literal into a Const expression, per §6 "conversion
// is eager at builder time". Panics on malformed input; use ParseD for a
// checked variant.
func D(s string) Expr {
	t, err := date.Parse(s)
	if err != nil {
		panic(err)
	}
	return E(Const(t))
}

// ParseD is the checked variant of D.
func ParseD(s string) (Expr, error) {
	t, err := date.Parse(s)
	if err != nil {
		return Expr{}, err
	}
	return E(Const(t)), nil
}

// Dates builds a Seq expression from ISO-8601 literals, in the given order.
func Dates(ss ...string) Expr {
	ds := make([]time.Time, len(ss))
	for i, s := range ss {
		ds[i] = MustD(s)
	}
	return E(Seq(ds))
}

// MustD parses s or panics.
func MustD(s string) time.Time {
	t, err := date.Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Join is the sorted, deduplicated set-union of e and other.
func (e Expr) Join(other Expr) Expr { return E(Join(e.Node, other.Node)) }

// Meet is the sorted set-intersection of e and other.
func (e Expr) Meet(other Expr) Expr { return E(Meet(e.Node, other.Node)) }

// Diff is the sorted set-difference e \ other.
func (e Expr) Diff(other Expr) Expr { return E(Diff(e.Node, other.Node)) }

// After clamps e to dates strictly after other's first date.
func (e Expr) After(other Expr) Expr { return E(After(e.Node, other.Node)) }

// AfterOrOn clamps e to dates on or after other's first date.
func (e Expr) AfterOrOn(other Expr) Expr { return E(AfterOrOn(e.Node, other.Node)) }

// Before clamps e to dates strictly before other's first date.
func (e Expr) Before(other Expr) Expr { return E(Before(e.Node, other.Node)) }

// BeforeOrOn clamps e to dates on or before other's first date.
func (e Expr) BeforeOrOn(other Expr) Expr { return E(BeforeOrOn(e.Node, other.Node)) }

// Between is the chained-comparison idiom `lo <= e <= hi`, normalized to
// AfterOrOn(BeforeOrOn(e, hi), lo) regardless of which bound callers reason
// about first. Per §4.4 and §9, the engine never mutates e to realize this;
// Between always produces the same canonical shape.
func Between(e Expr, lo, hi Expr) Expr {
	return E(AfterOrOn(BeforeOrOn(e.Node, hi.Node), lo.Node))
}

// Shift translates e by t (AddTenor for non-negative t, SubTenor for a
// negated t are the same construction — AddTenor with t already carries the
// sign).
func (e Expr) Shift(t tenor.Tenor) Expr { return E(AddTenor(e.Node, t)) }

// ShiftBack translates e by -t.
func (e Expr) ShiftBack(t tenor.Tenor) Expr { return E(SubTenor(e.Node, t)) }

// Index takes the i-th element of e's output; when e is itself a
// sub-sequence (e.g. NewMonths().Weeks()), it takes the i-th element of each
// period instead.
func (e Expr) Index(i int) Expr { return E(Slice(e.Node, Index(i))) }

// Slice takes the half-open range s of e's output.
func (e Expr) Slice(s SliceSpec) Expr { return E(Slice(e.Node, s)) }

// Weekdays filters e to non-weekend dates.
func (e Expr) Weekdays() Expr { return E(Weekdays(e.Node)) }

// Weekends filters e to weekend dates.
func (e Expr) Weekends() Expr { return E(Weekends(e.Node)) }

// BusinessDays filters e to calendar business days.
func (e Expr) BusinessDays() Expr { return E(BusinessDays(e.Node)) }

// RollFwd rolls every element of e forward to the nearest business day.
func (e Expr) RollFwd() Expr { return E(RollFwd(e.Node)) }

// RollBwd rolls every element of e backward to the nearest business day.
func (e Expr) RollBwd() Expr { return E(RollBwd(e.Node)) }

// Over binds cal as the calendar for e's subtree, regardless of whatever
// calendar the eventual evaluation window carries. Grounds
// `business_days.over(cal)` / `roll_fwd(g).over(cal)` from §4.4.
func (e Expr) Over(cal calendar.Calendar) Expr { return E(&calendarOverrideNode{g: e.Node, cal: cal}) }

type calendarOverrideNode struct {
	g   Node
	cal calendar.Calendar
}

func (n *calendarOverrideNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *calendarOverrideNode) Open(w Window) (Cursor, error) {
	w.Calendar = n.cal
	return n.g.Open(w)
}

// namedDayShift is the shared implementation behind Mon..Sun: AddTenor(e, Nd).
func (e Expr) namedDayShift(n int) Expr {
	if n == 0 {
		return e
	}
	return E(AddTenor(e.Node, tenor.Tenor{Days: n}))
}

// Mon, Tue, Wed, Thu, Fri, Sat, Sun are AddTenor(e, Nd) for N=0..6, the
// named-weekday shorthand on a week-stepped expression (e.g. Weeks).
func (e Expr) Mon() Expr { return e.namedDayShift(0) }
func (e Expr) Tue() Expr { return e.namedDayShift(1) }
func (e Expr) Wed() Expr { return e.namedDayShift(2) }
func (e Expr) Thu() Expr { return e.namedDayShift(3) }
func (e Expr) Fri() Expr { return e.namedDayShift(4) }
func (e Expr) Sat() Expr { return e.namedDayShift(5) }
func (e Expr) Sun() Expr { return e.namedDayShift(6) }

// Months restricts e to its outer period's months, e.g. NewYears().Months()
// yields the first of every month inside each year. Requires e's cadence
// to be coarser than a day (panics with ErrIllegalSubsequence otherwise).
func (e Expr) Months() Expr { return E(MustSubSequence(e.Node, Months)) }

// Weeks restricts e to its outer period's Mondays.
func (e Expr) Weeks() Expr { return E(MustSubSequence(e.Node, Weeks)) }

// Days restricts e to its outer period's days.
func (e Expr) Days() Expr { return E(MustSubSequence(e.Node, Days)) }

// WeekdaysOf restricts e to its outer period's weekdays.
func (e Expr) WeekdaysOf() Expr { return E(MustSubSequence(e.Node, Weekdays(Days))) }

// WeekendsOf restricts e to its outer period's weekend days.
func (e Expr) WeekendsOf() Expr { return E(MustSubSequence(e.Node, Weekends(Days))) }

// Month is the n-th month (1-based, January=1) of each outer period e
// denotes: e.Months().Index(n-1). years.Month(4) is "April of each year".
func (e Expr) Month(n int) Expr { return e.Months().Index(n - 1) }

func (e Expr) Jan() Expr { return e.Month(1) }
func (e Expr) Feb() Expr { return e.Month(2) }
func (e Expr) Mar() Expr { return e.Month(3) }
func (e Expr) Apr() Expr { return e.Month(4) }
func (e Expr) May() Expr { return e.Month(5) }
func (e Expr) Jun() Expr { return e.Month(6) }
func (e Expr) Jul() Expr { return e.Month(7) }
func (e Expr) Aug() Expr { return e.Month(8) }
func (e Expr) Sep() Expr { return e.Month(9) }
func (e Expr) Oct() Expr { return e.Month(10) }
func (e Expr) Nov() Expr { return e.Month(11) }
func (e Expr) Dec() Expr { return e.Month(12) }

// MonthsExpr wraps the canonical Months leaf, adding .End — an accessor
// defined on the leaf itself rather than on arbitrary chained expressions,
// matching MonthsDateGenerator.end in the source this is grounded on.
type MonthsExpr struct{ Expr }

// NewMonths returns the canonical Months leaf with its builder sugar.
func NewMonths() MonthsExpr { return MonthsExpr{E(Months)} }

// End is the last day of each month: shift(-1d) of the next month's start.
func (MonthsExpr) End() Expr { return E(SubTenor(Months, tenor.OneDay)) }

// YearsExpr wraps the canonical Years leaf, adding .End.
type YearsExpr struct{ Expr }

// NewYears returns the canonical Years leaf with its builder sugar.
func NewYears() YearsExpr { return YearsExpr{E(Years)} }

// End is the last day of each year: shift(-1d) of the next year's start.
func (YearsExpr) End() Expr { return E(SubTenor(Years, tenor.OneDay)) }

// Evaluate materializes e against w. Iterators are restartable: calling
// Evaluate again re-opens the tree from scratch.
func (e Expr) Evaluate(w Window) ([]time.Time, error) { return drain(e.Node, w) }

// Open begins lazy pull-based evaluation of e against w.
func (e Expr) Open(w Window) (Cursor, error) { return e.Node.Open(w) }
