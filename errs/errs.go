// Package errs collects the sentinel error kinds shared across tenor,
// calendar, and dexpr so callers can errors.Is against a single stable set
// regardless of which package actually raised the error.
package errs

import "errors"

var (
	// ErrTenorSyntax is returned when tenor text does not match the
	// `-?([0-9]+[ymwdb])+` grammar, units repeat, or units appear out of
	// canonical (y,m,w,d,b) order.
	ErrTenorSyntax = errors.New("tenor: invalid syntax")

	// ErrTenorConflict is returned when a business-day component (b) is
	// combined with any other unit in the same tenor.
	ErrTenorConflict = errors.New("tenor: business-day component cannot combine with other units")

	// ErrNeedsCalendar is returned when business-day arithmetic (a tenor's
	// b component, BusinessDays, RollFwd, RollBwd) is requested without a
	// calendar.
	ErrNeedsCalendar = errors.New("dexpr: business-day operation requires a calendar")

	// ErrUnboundedWindow is returned when an infinite leaf (Days, Weeks,
	// Months, Years) is evaluated with no usable upper or lower bound.
	ErrUnboundedWindow = errors.New("dexpr: unbounded window")

	// ErrNegativeIndexUnbounded is returned when a negative-index slice is
	// requested against a child sequence that is not known to be finite in
	// the window.
	ErrNegativeIndexUnbounded = errors.New("dexpr: negative index against a potentially unbounded sequence")

	// ErrIllegalSubsequence is returned when SubSequence is built on (or
	// evaluated over) an outer generator without usable, self-consistent
	// cadence.
	ErrIllegalSubsequence = errors.New("dexpr: illegal sub-sequence")

	// ErrComparisonOnStream is returned when a comparison is attempted
	// between two non-singleton generators.
	ErrComparisonOnStream = errors.New("dexpr: comparing two non-singleton generators is not supported")

	// ErrUnknownNodeType is a defensive error for undefined combinator
	// compositions.
	ErrUnknownNodeType = errors.New("dexpr: unknown node type")
)
