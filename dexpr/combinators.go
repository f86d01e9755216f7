package dexpr

import (
	"time"

	"github.com/meenmo/dexpr/date"
	"github.com/meenmo/dexpr/errs"
	"github.com/meenmo/dexpr/tenor"
)

// filterCursor yields only child values satisfying pred.
type filterCursor struct {
	child Cursor
	pred  func(time.Time) bool
}

func (c *filterCursor) Next() (time.Time, bool, error) {
	for {
		d, ok, err := c.child.Next()
		if err != nil || !ok {
			return time.Time{}, false, err
		}
		if c.pred(d) {
			return d, true, nil
		}
	}
}

// mapCursor transforms every child value through f.
type mapCursor struct {
	child Cursor
	f     func(time.Time) (time.Time, error)
}

func (c *mapCursor) Next() (time.Time, bool, error) {
	d, ok, err := c.child.Next()
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	out, err := c.f(d)
	if err != nil {
		return time.Time{}, false, err
	}
	return out, true, nil
}

// weekdaysNode filters its child to dates outside the calendar's weekend set.
type weekdaysNode struct{ g Node }

// Weekdays filters g to non-weekend dates under the evaluation calendar.
func Weekdays(g Node) Node { return &weekdaysNode{g: g} }

func (n *weekdaysNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *weekdaysNode) Open(w Window) (Cursor, error) {
	child, err := n.g.Open(w)
	if err != nil {
		return nil, err
	}
	we := weekendSet(w)
	return &filterCursor{child: child, pred: func(d time.Time) bool { return !we[date.Weekday(d)] }}, nil
}

// weekendsNode filters its child to the calendar's weekend dates.
type weekendsNode struct{ g Node }

// Weekends filters g to weekend dates under the evaluation calendar.
func Weekends(g Node) Node { return &weekendsNode{g: g} }

func (n *weekendsNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *weekendsNode) Open(w Window) (Cursor, error) {
	child, err := n.g.Open(w)
	if err != nil {
		return nil, err
	}
	we := weekendSet(w)
	return &filterCursor{child: child, pred: func(d time.Time) bool { return we[date.Weekday(d)] }}, nil
}

// businessDaysNode filters its child to calendar business days.
type businessDaysNode struct{ g Node }

// BusinessDays filters g to business days. Requires a calendar at
// evaluation time.
func BusinessDays(g Node) Node { return &businessDaysNode{g: g} }

func (n *businessDaysNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *businessDaysNode) Open(w Window) (Cursor, error) {
	if w.Calendar == nil {
		return nil, errs.ErrNeedsCalendar
	}
	child, err := n.g.Open(w)
	if err != nil {
		return nil, err
	}
	cal := w.Calendar
	return &filterCursor{child: child, pred: cal.IsBusinessDay}, nil
}

// addTenorNode translates every child element by +t.
type addTenorNode struct {
	g Node
	t tenor.Tenor
}

// AddTenor translates every element of g by t.
func AddTenor(g Node, t tenor.Tenor) Node { return &addTenorNode{g: g, t: t} }

func (n *addTenorNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

// Open widens the bound the shift could pull elements in from: for
// non-negative t the lower bound moves earlier by t (sub_from), for
// negative t the upper bound moves later by the same amount (sub_from of
// the upper bound, t's own sign already accounts for the direction).
func (n *addTenorNode) Open(w Window) (Cursor, error) {
	inner := w
	if !n.t.IsNegative() {
		if lo := effectiveLo(w); !lo.Equal(date.Min) {
			shifted, err := n.t.SubFrom(lo, effectiveCalendar(w))
			if err != nil {
				return nil, err
			}
			inner = withLo(inner, shifted)
		}
	} else {
		if hi := effectiveHi(w); !hi.Equal(date.Max) {
			shifted, err := n.t.SubFrom(hi, effectiveCalendar(w))
			if err != nil {
				return nil, err
			}
			inner = withHi(inner, shifted)
		}
	}
	child, err := n.g.Open(inner)
	if err != nil {
		return nil, err
	}
	cal := effectiveCalendar(w)
	return &mapCursor{child: child, f: func(d time.Time) (time.Time, error) { return n.t.AddTo(d, cal) }}, nil
}

// subTenorNode translates every child element by -t.
type subTenorNode struct {
	g Node
	t tenor.Tenor
}

// SubTenor translates every element of g by -t.
func SubTenor(g Node, t tenor.Tenor) Node { return &subTenorNode{g: g, t: t} }

func (n *subTenorNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

// Open widens the bound the shift could pull elements in from: for
// non-negative t the upper bound moves later by t (add_to), for negative t
// the lower bound moves earlier by the same amount (add_to of the lower
// bound, t's own sign already accounts for the direction).
func (n *subTenorNode) Open(w Window) (Cursor, error) {
	inner := w
	if !n.t.IsNegative() {
		if hi := effectiveHi(w); !hi.Equal(date.Max) {
			shifted, err := n.t.AddTo(hi, effectiveCalendar(w))
			if err != nil {
				return nil, err
			}
			inner = withHi(inner, shifted)
		}
	} else {
		if lo := effectiveLo(w); !lo.Equal(date.Min) {
			shifted, err := n.t.AddTo(lo, effectiveCalendar(w))
			if err != nil {
				return nil, err
			}
			inner = withLo(inner, shifted)
		}
	}
	child, err := n.g.Open(inner)
	if err != nil {
		return nil, err
	}
	cal := effectiveCalendar(w)
	return &mapCursor{child: child, f: func(d time.Time) (time.Time, error) { return n.t.SubFrom(d, cal) }}, nil
}

// afterNode clamps g to dates strictly after D's first date.
type afterNode struct {
	g, d Node
}

// After yields g's dates strictly greater than d's first date.
func After(g, d Node) Node { return &afterNode{g: g, d: d} }

func (n *afterNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *afterNode) Open(w Window) (Cursor, error) {
	bound, err := firstDate(n.d, w)
	if err != nil {
		return nil, err
	}
	inner := w
	inner.After = bound
	child, err := n.g.Open(inner)
	if err != nil {
		return nil, err
	}
	return &filterCursor{child: child, pred: func(d time.Time) bool { return d.After(bound) }}, nil
}

// afterOrOnNode clamps g to dates greater than or equal to D's first date.
type afterOrOnNode struct {
	g, d Node
}

// AfterOrOn yields g's dates greater than or equal to d's first date.
func AfterOrOn(g, d Node) Node { return &afterOrOnNode{g: g, d: d} }

func (n *afterOrOnNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *afterOrOnNode) Open(w Window) (Cursor, error) {
	bound, err := firstDate(n.d, w)
	if err != nil {
		return nil, err
	}
	inner := w
	inner.After = bound
	child, err := n.g.Open(inner)
	if err != nil {
		return nil, err
	}
	return &filterCursor{child: child, pred: func(d time.Time) bool { return !d.Before(bound) }}, nil
}

// beforeNode clamps g to dates strictly before D's first date.
type beforeNode struct {
	g, d Node
}

// Before yields g's dates strictly less than d's first date.
func Before(g, d Node) Node { return &beforeNode{g: g, d: d} }

func (n *beforeNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *beforeNode) Open(w Window) (Cursor, error) {
	bound, err := firstDate(n.d, w)
	if err != nil {
		return nil, err
	}
	inner := w
	inner.Before = bound
	child, err := n.g.Open(inner)
	if err != nil {
		return nil, err
	}
	return &filterCursor{child: child, pred: func(d time.Time) bool { return d.Before(bound) }}, nil
}

// beforeOrOnNode clamps g to dates less than or equal to D's first date.
type beforeOrOnNode struct {
	g, d Node
}

// BeforeOrOn yields g's dates less than or equal to d's first date.
func BeforeOrOn(g, d Node) Node { return &beforeOrOnNode{g: g, d: d} }

func (n *beforeOrOnNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *beforeOrOnNode) Open(w Window) (Cursor, error) {
	bound, err := firstDate(n.d, w)
	if err != nil {
		return nil, err
	}
	inner := w
	inner.Before = bound
	child, err := n.g.Open(inner)
	if err != nil {
		return nil, err
	}
	return &filterCursor{child: child, pred: func(d time.Time) bool { return !d.After(bound) }}, nil
}

// joinCursor merges two ascending streams, deduplicating equal heads.
type joinCursor struct {
	a, b           Cursor
	da, db         time.Time
	okA, okB       bool
	primed         bool
}

func (c *joinCursor) prime() error {
	if c.primed {
		return nil
	}
	c.primed = true
	var err error
	c.da, c.okA, err = c.a.Next()
	if err != nil {
		return err
	}
	c.db, c.okB, err = c.b.Next()
	return err
}

func (c *joinCursor) Next() (time.Time, bool, error) {
	if err := c.prime(); err != nil {
		return time.Time{}, false, err
	}
	switch {
	case !c.okA && !c.okB:
		return time.Time{}, false, nil
	case !c.okA:
		d := c.db
		var err error
		c.db, c.okB, err = c.b.Next()
		return d, true, err
	case !c.okB:
		d := c.da
		var err error
		c.da, c.okA, err = c.a.Next()
		return d, true, err
	case c.da.Equal(c.db):
		d := c.da
		var err error
		c.da, c.okA, err = c.a.Next()
		if err != nil {
			return time.Time{}, false, err
		}
		c.db, c.okB, err = c.b.Next()
		return d, true, err
	case c.da.Before(c.db):
		d := c.da
		var err error
		c.da, c.okA, err = c.a.Next()
		return d, true, err
	default:
		d := c.db
		var err error
		c.db, c.okB, err = c.b.Next()
		return d, true, err
	}
}

// joinNode is the sorted, deduplicating set-union of two generators.
type joinNode struct{ a, b Node }

// Join is the sorted set-union of a and b, deduplicated.
func Join(a, b Node) Node { return &joinNode{a: a, b: b} }

func (n *joinNode) Cadence() (tenor.Tenor, bool) { return tenor.Tenor{}, false }

func (n *joinNode) Open(w Window) (Cursor, error) {
	ca, err := n.a.Open(w)
	if err != nil {
		return nil, err
	}
	cb, err := n.b.Open(w)
	if err != nil {
		return nil, err
	}
	return &joinCursor{a: ca, b: cb}, nil
}

// meetCursor advances the smaller head, emitting on equality.
type meetCursor struct {
	a, b     Cursor
	da, db   time.Time
	okA, okB bool
	primed   bool
}

func (c *meetCursor) prime() error {
	if c.primed {
		return nil
	}
	c.primed = true
	var err error
	c.da, c.okA, err = c.a.Next()
	if err != nil {
		return err
	}
	c.db, c.okB, err = c.b.Next()
	return err
}

func (c *meetCursor) Next() (time.Time, bool, error) {
	if err := c.prime(); err != nil {
		return time.Time{}, false, err
	}
	for c.okA && c.okB {
		switch {
		case c.da.Equal(c.db):
			d := c.da
			var err error
			c.da, c.okA, err = c.a.Next()
			if err != nil {
				return time.Time{}, false, err
			}
			c.db, c.okB, err = c.b.Next()
			if err != nil {
				return time.Time{}, false, err
			}
			return d, true, nil
		case c.da.Before(c.db):
			var err error
			c.da, c.okA, err = c.a.Next()
			if err != nil {
				return time.Time{}, false, err
			}
		default:
			var err error
			c.db, c.okB, err = c.b.Next()
			if err != nil {
				return time.Time{}, false, err
			}
		}
	}
	return time.Time{}, false, nil
}

// meetNode is the sorted set-intersection of two generators.
type meetNode struct{ a, b Node }

// Meet is the sorted set-intersection of a and b.
func Meet(a, b Node) Node { return &meetNode{a: a, b: b} }

func (n *meetNode) Cadence() (tenor.Tenor, bool) { return tenor.Tenor{}, false }

func (n *meetNode) Open(w Window) (Cursor, error) {
	ca, err := n.a.Open(w)
	if err != nil {
		return nil, err
	}
	cb, err := n.b.Open(w)
	if err != nil {
		return nil, err
	}
	return &meetCursor{a: ca, b: cb}, nil
}

// diffCursor emits from a, skipping elements equal to b's current head.
type diffCursor struct {
	a, b     Cursor
	da, db   time.Time
	okA, okB bool
	primed   bool
}

func (c *diffCursor) prime() error {
	if c.primed {
		return nil
	}
	c.primed = true
	var err error
	c.da, c.okA, err = c.a.Next()
	if err != nil {
		return err
	}
	c.db, c.okB, err = c.b.Next()
	return err
}

func (c *diffCursor) Next() (time.Time, bool, error) {
	if err := c.prime(); err != nil {
		return time.Time{}, false, err
	}
	for c.okA {
		for c.okB && c.db.Before(c.da) {
			var err error
			c.db, c.okB, err = c.b.Next()
			if err != nil {
				return time.Time{}, false, err
			}
		}
		if c.okB && c.da.Equal(c.db) {
			var err error
			c.da, c.okA, err = c.a.Next()
			if err != nil {
				return time.Time{}, false, err
			}
			continue
		}
		d := c.da
		var err error
		c.da, c.okA, err = c.a.Next()
		return d, true, err
	}
	return time.Time{}, false, nil
}

// diffNode is the sorted set-difference a \ b.
type diffNode struct{ a, b Node }

// Diff is the sorted set-difference a \ b.
func Diff(a, b Node) Node { return &diffNode{a: a, b: b} }

func (n *diffNode) Cadence() (tenor.Tenor, bool) { return tenor.Tenor{}, false }

func (n *diffNode) Open(w Window) (Cursor, error) {
	ca, err := n.a.Open(w)
	if err != nil {
		return nil, err
	}
	cb, err := n.b.Open(w)
	if err != nil {
		return nil, err
	}
	return &diffCursor{a: ca, b: cb}, nil
}

// rollFwdNode rolls every child element forward to the nearest business day.
type rollFwdNode struct{ g Node }

// RollFwd rolls every element of g forward to the nearest business day.
// Requires a calendar at evaluation time.
func RollFwd(g Node) Node { return &rollFwdNode{g: g} }

func (n *rollFwdNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *rollFwdNode) Open(w Window) (Cursor, error) {
	if w.Calendar == nil {
		return nil, errs.ErrNeedsCalendar
	}
	child, err := n.g.Open(w)
	if err != nil {
		return nil, err
	}
	cal := w.Calendar
	return &mapCursor{child: child, f: func(d time.Time) (time.Time, error) { return cal.RollFwd(d), nil }}, nil
}

// rollBwdNode rolls every child element backward to the nearest business day.
type rollBwdNode struct{ g Node }

// RollBwd rolls every element of g backward to the nearest business day.
// Requires a calendar at evaluation time.
func RollBwd(g Node) Node { return &rollBwdNode{g: g} }

func (n *rollBwdNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *rollBwdNode) Open(w Window) (Cursor, error) {
	if w.Calendar == nil {
		return nil, errs.ErrNeedsCalendar
	}
	child, err := n.g.Open(w)
	if err != nil {
		return nil, err
	}
	cal := w.Calendar
	return &mapCursor{child: child, f: func(d time.Time) (time.Time, error) { return cal.RollBwd(d), nil }}, nil
}
