// Package dexpr implements the composable date-expression engine: a closed
// tagged union of generator/combinator nodes (Node), a pull-based lazy
// evaluator (Cursor), and a fluent builder surface (builder.go) for
// composing them. An expression tree is a pure, immutable value; opening it
// against a Window produces a lazy, strictly ascending sequence of dates, and
// Evaluate drains that sequence into a slice. Tenor and calendar.Calendar are consulted only at evaluation time.
package dexpr

import (
	"time"

	"github.com/meenmo/dexpr/calendar"
	"github.com/meenmo/dexpr/date"
	"github.com/meenmo/dexpr/errs"
	"github.com/meenmo/dexpr/tenor"
)

// Node is one variant of the expression tree. Implementations are immutable
// values; Open never mutates n or its children.
type Node interface {
	// Open begins evaluation of n under w, returning a cursor that yields
	// one date at a time. Open may fail fast (e.g. UnboundedWindow,
	// NeedsCalendar) before any date is produced.
	Open(w Window) (Cursor, error)

	// Cadence reports the node's natural step, if it has one. Leaves that
	// are periodic (Days, Weeks, Months, Years) and nodes that pass
	// through a single child's cadence report ok=true; set combinators
	// (Join, Meet, Diff) and Const/Seq report ok=false.
	Cadence() (tenor.Tenor, bool)
}

// Cursor produces dates one at a time. Next returns (zero, false, nil) once
// exhausted, or (zero, false, err) if evaluation fails; a cursor must not be
// called again after returning an error or after ok=false.
type Cursor interface {
	Next() (time.Time, bool, error)
}

// Window is the 5-tuple evaluation is parameterized by. Start/End and
// After/Before are two independent clamps: Start/End is typically
// user-facing, After/Before is propagated internally by combinators
// (AddTenor/SubTenor window expansion, SubSequence period restriction).
// Calendar defaults to a weekend-only {Sat, Sun} calendar when nil.
type Window struct {
	Start, End, After, Before time.Time
	Calendar                  calendar.Calendar
}

// DefaultWindow returns the fully-open window: both clamps at their
// sentinels, no calendar.
func DefaultWindow() Window {
	return Window{Start: date.Min, End: date.Max, After: date.Min, Before: date.Max}
}

// effectiveLo resolves Start/After to the single lower bound a leaf should
// scan from: Start wins unless it is still the open sentinel.
func effectiveLo(w Window) time.Time {
	if w.Start.Equal(date.Min) {
		return w.After
	}
	return w.Start
}

// effectiveHi is the dual of effectiveLo for End/Before.
func effectiveHi(w Window) time.Time {
	if w.End.Equal(date.Max) {
		return w.Before
	}
	return w.End
}

// isBounded reports whether both sides of w are closed, the syntactic
// finiteness test Slice uses to permit negative indices.
func isBounded(w Window) bool {
	return !effectiveLo(w).Equal(date.Min) && !effectiveHi(w).Equal(date.Max)
}

func weekendSet(w Window) map[int]bool {
	if w.Calendar != nil {
		return w.Calendar.WeekendDays()
	}
	return calendar.DefaultWeekend
}

func effectiveCalendar(w Window) calendar.Calendar {
	if w.Calendar != nil {
		return w.Calendar
	}
	return calendar.NewWeekendCalendar()
}

// withLo returns w with its lower bound pinned to v on both channels, so
// effectiveLo(w) == v regardless of which channel a downstream node reads.
func withLo(w Window, v time.Time) Window {
	w.Start, w.After = v, v
	return w
}

// withHi is the dual of withLo for the upper bound.
func withHi(w Window, v time.Time) Window {
	w.End, w.Before = v, v
	return w
}

// boundsCursor steps the closed range [lo, hi] using a step function,
// the shared machinery behind the Days/Weeks/Months/Years leaves.
type boundsCursor struct {
	cur, hi time.Time
	done    bool
	step    func(time.Time) time.Time
}

func (c *boundsCursor) Next() (time.Time, bool, error) {
	if c.done || c.cur.After(c.hi) {
		return time.Time{}, false, nil
	}
	d := c.cur
	c.cur = c.step(c.cur)
	return d, true, nil
}

// constNode yields a single fixed date, per spec.md §3 Const(d).
type constNode struct{ d time.Time }

// Const builds the singleton generator {d}.
func Const(d time.Time) Node { return &constNode{d: date.Normalize(d)} }

func (n *constNode) Cadence() (tenor.Tenor, bool) { return tenor.Tenor{}, false }

func (n *constNode) Open(Window) (Cursor, error) {
	return &constCursor{d: n.d, pending: true}, nil
}

type constCursor struct {
	d       time.Time
	pending bool
}

func (c *constCursor) Next() (time.Time, bool, error) {
	if !c.pending {
		return time.Time{}, false, nil
	}
	c.pending = false
	return c.d, true, nil
}

// seqNode yields a caller-ordered finite sequence verbatim; the engine
// trusts the caller and never re-sorts or dedupes Seq's own output.
type seqNode struct{ ds []time.Time }

// Seq builds the finite ordered sequence ds, taken as given.
func Seq(ds []time.Time) Node {
	out := make([]time.Time, len(ds))
	for i, d := range ds {
		out[i] = date.Normalize(d)
	}
	return &seqNode{ds: out}
}

func (n *seqNode) Cadence() (tenor.Tenor, bool) { return tenor.Tenor{}, false }

func (n *seqNode) Open(Window) (Cursor, error) {
	return &seqCursor{ds: n.ds}, nil
}

type seqCursor struct {
	ds []time.Time
	i  int
}

func (c *seqCursor) Next() (time.Time, bool, error) {
	if c.i >= len(c.ds) {
		return time.Time{}, false, nil
	}
	d := c.ds[c.i]
	c.i++
	return d, true, nil
}

// daysNode yields every calendar day in the window.
type daysNode struct{}

// Days is the canonical every-day leaf; cadence 1d.
var Days Node = &daysNode{}

func (n *daysNode) Cadence() (tenor.Tenor, bool) { return tenor.OneDay, true }

func (n *daysNode) Open(w Window) (Cursor, error) {
	lo, hi := effectiveLo(w), effectiveHi(w)
	if lo.Equal(date.Min) && hi.Equal(date.Max) {
		return nil, errs.ErrUnboundedWindow
	}
	return &boundsCursor{cur: lo, hi: hi, step: func(d time.Time) time.Time { return d.AddDate(0, 0, 1) }}, nil
}

// weeksNode yields every ISO Monday in the window, stepped 7 days from the
// first Monday >= lo.
type weeksNode struct{}

// Weeks is the canonical weekly leaf (Mondays); cadence 1w.
var Weeks Node = &weeksNode{}

func (n *weeksNode) Cadence() (tenor.Tenor, bool) { return tenor.OneWeek, true }

func ceilToMonday(d time.Time) time.Time {
	if wd := date.Weekday(d); wd != 0 {
		return d.AddDate(0, 0, 7-wd)
	}
	return d
}

func (n *weeksNode) Open(w Window) (Cursor, error) {
	lo, hi := effectiveLo(w), effectiveHi(w)
	if lo.Equal(date.Min) && hi.Equal(date.Max) {
		return nil, errs.ErrUnboundedWindow
	}
	monday := ceilToMonday(lo)
	return &boundsCursor{cur: monday, hi: hi, step: func(d time.Time) time.Time { return d.AddDate(0, 0, 7) }}, nil
}

// monthsNode yields the first day of every month in the window.
type monthsNode struct{}

// Months is the canonical monthly leaf (1st-of-month); cadence 1m.
var Months Node = &monthsNode{}

func (n *monthsNode) Cadence() (tenor.Tenor, bool) { return tenor.OneMonth, true }

func (n *monthsNode) Open(w Window) (Cursor, error) {
	lo, hi := effectiveLo(w), effectiveHi(w)
	if lo.Equal(date.Min) && hi.Equal(date.Max) {
		return nil, errs.ErrUnboundedWindow
	}
	first := date.FirstOfMonth(lo)
	return &boundsCursor{cur: first, hi: hi, step: date.FirstOfNextMonth}, nil
}

// yearsNode yields Jan 1 of every year in the window.
type yearsNode struct{}

// Years is the canonical yearly leaf (Jan-1); cadence 1y.
var Years Node = &yearsNode{}

func (n *yearsNode) Cadence() (tenor.Tenor, bool) { return tenor.OneYear, true }

func (n *yearsNode) Open(w Window) (Cursor, error) {
	lo, hi := effectiveLo(w), effectiveHi(w)
	if lo.Equal(date.Min) && hi.Equal(date.Max) {
		return nil, errs.ErrUnboundedWindow
	}
	first := date.FirstOfYear(lo)
	return &boundsCursor{cur: first, hi: hi, step: func(d time.Time) time.Time {
		return time.Date(d.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	}}, nil
}

// firstDate pulls the single date a comparison target denotes. Per
// spec.md §7, a comparison target must be a singleton generator — one
// that yields exactly one date under w — so this peeks a second element and
// raises ErrComparisonOnStream if either none or more than one is produced.
func firstDate(d Node, w Window) (time.Time, error) {
	cur, err := d.Open(w)
	if err != nil {
		return time.Time{}, err
	}
	got, ok, err := cur.Next()
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, errs.ErrComparisonOnStream
	}
	_, ok, err = cur.Next()
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return time.Time{}, errs.ErrComparisonOnStream
	}
	return got, nil
}
