package dexpr

import (
	"time"

	"github.com/meenmo/dexpr/date"
	"github.com/meenmo/dexpr/errs"
	"github.com/meenmo/dexpr/tenor"
)

// SliceSpec is a Python-slice-equivalent half-open range (start, stop, step).
// A nil Start/Stop means "unbounded" on that side; Step defaults to 1 when
// zero. Negative Start/Stop/Step index from the end of the sequence and are
// only legal against a child known finite in the window.
type SliceSpec struct {
	Start, Stop *int
	Step        int
}

// Index builds the single-element slice [i, i+1).
func Index(i int) SliceSpec {
	stop := i + 1
	return SliceSpec{Start: &i, Stop: &stop, Step: 1}
}

func (s SliceSpec) negative() bool {
	return (s.Start != nil && *s.Start < 0) ||
		(s.Stop != nil && *s.Stop < 0) ||
		s.Step < 0
}

func (s SliceSpec) step() int {
	if s.Step == 0 {
		return 1
	}
	return s.Step
}

// apply runs a Python-slice-equivalent selection over a fully materialized
// sequence, supporting negative indices.
func (s SliceSpec) apply(ds []time.Time) []time.Time {
	n := len(ds)
	step := s.step()
	start, stop := 0, n
	if step < 0 {
		start, stop = n-1, -1
	}
	if s.Start != nil {
		start = normalizeIndex(*s.Start, n, step)
	}
	if s.Stop != nil {
		stop = normalizeIndex(*s.Stop, n, step)
	}
	var out []time.Time
	if step > 0 {
		for i := start; i < stop && i < n; i++ {
			if i >= 0 {
				out = append(out, ds[i])
			}
		}
	} else {
		for i := start; i > stop && i >= 0; i += step {
			if i < n {
				out = append(out, ds[i])
			}
		}
	}
	return out
}

func normalizeIndex(i, n, step int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		if step > 0 {
			return 0
		}
		return -1
	}
	return i
}

// sliceNode lazily selects positions of g's output by a non-negative range,
// or (when the range has a negative component) materializes g's finite
// output and applies Python-slice semantics.
type sliceNode struct {
	g Node
	s SliceSpec
}

// Slice yields the positions of g's output selected by s; when g is a
// sub-sequence, s is applied to each period's dates separately. Negative indices
// require g to be known finite in the evaluation window (both bounds
// closed), else ErrNegativeIndexUnbounded.
func Slice(g Node, s SliceSpec) Node {
	if sub, ok := g.(*subSequenceNode); ok {
		return sub.withSlice(s)
	}
	return &sliceNode{g: g, s: s}
}

func (n *sliceNode) Cadence() (tenor.Tenor, bool) { return n.g.Cadence() }

func (n *sliceNode) Open(w Window) (Cursor, error) {
	if n.s.negative() {
		if !isBounded(w) {
			return nil, errs.ErrNegativeIndexUnbounded
		}
		all, err := drain(n.g, w)
		if err != nil {
			return nil, err
		}
		return &seqCursor{ds: n.s.apply(all)}, nil
	}
	child, err := n.g.Open(w)
	if err != nil {
		return nil, err
	}
	return &lazySliceCursor{child: child, s: n.s, i: 0}, nil
}

// lazySliceCursor applies a non-negative SliceSpec to child without
// buffering more than the current position, mirroring itertools.islice.
type lazySliceCursor struct {
	child Cursor
	s     SliceSpec
	i     int
	done  bool
}

func (c *lazySliceCursor) Next() (time.Time, bool, error) {
	if c.done {
		return time.Time{}, false, nil
	}
	step := c.s.step()
	stop := -1
	hasStop := c.s.Stop != nil
	if hasStop {
		stop = *c.s.Stop
	}
	start := 0
	if c.s.Start != nil {
		start = *c.s.Start
	}
	for {
		if hasStop && c.i >= stop {
			c.done = true
			return time.Time{}, false, nil
		}
		d, ok, err := c.child.Next()
		if err != nil || !ok {
			c.done = true
			return time.Time{}, false, err
		}
		idx := c.i
		c.i++
		if idx < start {
			continue
		}
		if (idx-start)%step != 0 {
			continue
		}
		return d, true, nil
	}
}

func drain(g Node, w Window) ([]time.Time, error) {
	cur, err := g.Open(w)
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for {
		d, ok, err := cur.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, d)
	}
}

// subSequenceNode restricts inner to each period of outer: for successive
// pair (x, y) pulled from outer (y = outer.Cadence().AddTo(x)), it emits
// inner ∩ [x, y), optionally sliced per period.
type subSequenceNode struct {
	outer, inner Node
	slice        *SliceSpec
}

// SubSequence builds outer's periodic restriction of inner. outer must have
// a cadence strictly coarser than 1 day (ErrIllegalSubsequence otherwise),
// checked at construction time per spec.md §9.
func SubSequence(outer, inner Node) (Node, error) {
	cad, ok := outer.Cadence()
	if !ok || !tenor.CoarserThanDay(cad) {
		return nil, errs.ErrIllegalSubsequence
	}
	return &subSequenceNode{outer: outer, inner: inner}, nil
}

// MustSubSequence is like SubSequence but panics on an illegal outer. Useful
// for package-level shortcuts known legal at compile time.
func MustSubSequence(outer, inner Node) Node {
	n, err := SubSequence(outer, inner)
	if err != nil {
		panic(err)
	}
	return n
}

func (n *subSequenceNode) withSlice(s SliceSpec) *subSequenceNode {
	return &subSequenceNode{outer: n.outer, inner: n.inner, slice: &s}
}

// Cadence of a sub-sequence is the inner generator's cadence, per
// SubSequenceDateGenerator.cadence in the source this is grounded on.
func (n *subSequenceNode) Cadence() (tenor.Tenor, bool) { return n.inner.Cadence() }

func (n *subSequenceNode) Open(w Window) (Cursor, error) {
	outerCur, err := n.outer.Open(w)
	if err != nil {
		return nil, err
	}
	cad, _ := n.outer.Cadence()
	return &subSequenceCursor{
		outerCur: outerCur,
		cad:      cad,
		inner:    n.inner,
		slice:    n.slice,
		window:   w,
		primed:   false,
	}, nil
}

// subSequenceCursor walks the outer cursor one period at a time, buffering
// only the current period's (already-finite) inner results.
type subSequenceCursor struct {
	outerCur Cursor
	cad      tenor.Tenor
	inner    Node
	slice    *SliceSpec
	window   Window

	primed        bool
	haveCur       bool
	curX, peekX   time.Time
	havePeek      bool
	period        []time.Time
	periodIdx     int
	exhausted     bool
}

func (c *subSequenceCursor) loadNextPeriod() error {
	for {
		if !c.primed {
			c.primed = true
			x, ok, err := c.outerCur.Next()
			if err != nil {
				return err
			}
			if !ok {
				c.exhausted = true
				return nil
			}
			c.curX, c.haveCur = x, true
			px, pok, err := c.outerCur.Next()
			if err != nil {
				return err
			}
			c.peekX, c.havePeek = px, pok
		} else {
			if !c.havePeek {
				c.exhausted = true
				return nil
			}
			c.curX = c.peekX
			px, pok, err := c.outerCur.Next()
			if err != nil {
				return err
			}
			c.peekX, c.havePeek = px, pok
		}

		y, err := c.cad.AddTo(c.curX, effectiveCalendar(c.window))
		if err != nil {
			return err
		}
		if c.havePeek && !c.peekX.Equal(y) {
			return errs.ErrIllegalSubsequence
		}

		restricted := &afterOrOnNode{g: &beforeNode{g: c.inner, d: &constNode{d: y}}, d: &constNode{d: c.curX}}
		base := Window{Start: date.Min, End: date.Max, After: date.Min, Before: date.Max, Calendar: c.window.Calendar}
		period, err := drain(restricted, base)
		if err != nil {
			return err
		}
		if c.slice != nil {
			period = c.slice.apply(period)
		}
		c.period = period
		c.periodIdx = 0
		if len(period) == 0 {
			continue // exactly mirrors the outer loop in the original: empty periods contribute nothing
		}
		return nil
	}
}

func (c *subSequenceCursor) Next() (time.Time, bool, error) {
	for c.periodIdx >= len(c.period) {
		if c.exhausted {
			return time.Time{}, false, nil
		}
		if err := c.loadNextPeriod(); err != nil {
			return time.Time{}, false, err
		}
		if c.exhausted && len(c.period) == 0 {
			return time.Time{}, false, nil
		}
	}
	d := c.period[c.periodIdx]
	c.periodIdx++
	return d, true, nil
}
