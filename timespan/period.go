// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package timespan

import (
	"fmt"

	"github.com/grailbio/base/log"

	"github.com/tempodb/temporal/errors"
)

// Period is a closed-open (by default) timestamp interval: lower and upper
// bounds with independent inclusivity flags. Invariants: Lower <= Upper;
// if Lower == Upper both bounds must be inclusive; empty periods are
// forbidden (enforced by NewPeriod).
type Period struct {
	Lower, Upper       Timestamp
	LowerInc, UpperInc bool
}

// NewPeriod constructs a Period, rejecting lower > upper and degenerate
// exclusive-bound instants.
func NewPeriod(lower, upper Timestamp, lowerInc, upperInc bool) (Period, error) {
	if lower > upper {
		return Period{}, errors.E("period_make", errors.InvalidInput,
			errors.Detailf("lower %d > upper %d", lower, upper))
	}
	if lower == upper && !(lowerInc && upperInc) {
		return Period{}, errors.E("period_make", errors.InvalidInput,
			errors.Detailf("degenerate period at %d must have both bounds inclusive", lower))
	}
	return Period{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}, nil
}

// MustNewPeriod is NewPeriod but panics on error; used for literal periods
// in tests and internal call sites that already validated their inputs.
func MustNewPeriod(lower, upper Timestamp, lowerInc, upperInc bool) Period {
	p, err := NewPeriod(lower, upper, lowerInc, upperInc)
	if err != nil {
		log.Panicf("timespan: invalid literal period [%d,%d): %v", lower, upper, err)
	}
	return p
}

func (p Period) String() string {
	l, u := "(", ")"
	if p.LowerInc {
		l = "["
	}
	if p.UpperInc {
		u = "]"
	}
	return fmt.Sprintf("%s%d, %d%s", l, p.Lower, p.Upper, u)
}

// compareBounds implements period_cmp_bounds: compare two boundary points,
// each described by its timestamp, whether it is a lower bound, and
// whether it is inclusive. An exclusive lower bound sorts just greater than
// the held value; an exclusive upper bound sorts just less than it. Two
// inclusive bounds at the same value compare equal regardless of role.
func compareBounds(t1, t2 Timestamp, lower1, lower2, inc1, inc2 bool) int {
	if c := t1.Compare(t2); c != 0 {
		return c
	}
	if !inc1 && !inc2 {
		if lower1 == lower2 {
			return 0
		}
		if lower1 {
			return 1
		}
		return -1
	}
	if !inc1 {
		if lower1 {
			return 1
		}
		return -1
	}
	if !inc2 {
		if lower2 {
			return -1
		}
		return 1
	}
	return 0
}

// Compare implements period_cmp: compare by lower bound first, tie-break
// on upper bound.
func (a Period) Compare(b Period) int {
	if c := compareBounds(a.Lower, b.Lower, true, true, a.LowerInc, b.LowerInc); c != 0 {
		return c
	}
	return compareBounds(a.Upper, b.Upper, false, false, a.UpperInc, b.UpperInc)
}

// ContainsTimestamp reports whether t lies within p, honoring inclusivity.
func (p Period) ContainsTimestamp(t Timestamp) bool {
	lowOK := t > p.Lower || (t == p.Lower && p.LowerInc)
	highOK := t < p.Upper || (t == p.Upper && p.UpperInc)
	return lowOK && highOK
}

// ContainsPeriod reports whether b lies entirely within a.
func (a Period) ContainsPeriod(b Period) bool {
	lowOK := compareBounds(a.Lower, b.Lower, true, true, a.LowerInc, b.LowerInc) <= 0
	highOK := compareBounds(a.Upper, b.Upper, false, false, a.UpperInc, b.UpperInc) >= 0
	return lowOK && highOK
}

// Overlaps reports whether a and b share at least one timestamp.
func (a Period) Overlaps(b Period) bool {
	lowOK := compareBounds(a.Lower, b.Upper, true, false, a.LowerInc, b.UpperInc) <= 0
	highOK := compareBounds(b.Lower, a.Upper, true, false, b.LowerInc, a.UpperInc) <= 0
	return lowOK && highOK
}

// Adjacent reports whether a and b touch at a single bound with exactly
// one side inclusive: a.Upper == b.Lower (or vice versa) with exactly one
// of the two touching bounds inclusive.
func Adjacent(a, b Period) bool {
	if a.Upper == b.Lower {
		return a.UpperInc != b.LowerInc
	}
	if b.Upper == a.Lower {
		return b.UpperInc != a.LowerInc
	}
	return false
}

// Intersect returns the tightest period lying in both a and b, or
// (Period{}, false) if they do not overlap.
func Intersect(a, b Period) (Period, bool) {
	if !a.Overlaps(b) {
		return Period{}, false
	}
	lower, lowerInc := a.Lower, a.LowerInc
	if c := compareBounds(a.Lower, b.Lower, true, true, a.LowerInc, b.LowerInc); c < 0 {
		lower, lowerInc = b.Lower, b.LowerInc
	}
	upper, upperInc := a.Upper, a.UpperInc
	if c := compareBounds(a.Upper, b.Upper, false, false, a.UpperInc, b.UpperInc); c > 0 {
		upper, upperInc = b.Upper, b.UpperInc
	}
	return Period{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}, true
}

// Union returns the periods resulting from unioning a and b: a single
// merged period if they overlap or are adjacent, otherwise both periods in
// sorted order.
func Union(a, b Period) []Period {
	if a.Overlaps(b) || Adjacent(a, b) {
		lower, lowerInc := a.Lower, a.LowerInc
		if compareBounds(b.Lower, a.Lower, true, true, b.LowerInc, a.LowerInc) < 0 {
			lower, lowerInc = b.Lower, b.LowerInc
		}
		upper, upperInc := a.Upper, a.UpperInc
		if compareBounds(b.Upper, a.Upper, false, false, b.UpperInc, a.UpperInc) > 0 {
			upper, upperInc = b.Upper, b.UpperInc
		}
		return []Period{{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}}
	}
	if a.Compare(b) <= 0 {
		return []Period{a, b}
	}
	return []Period{b, a}
}
