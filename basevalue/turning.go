// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package basevalue

import (
	"math"

	"github.com/tempodb/temporal/timespan"
)

// atFraction converts a fraction r in [0,1] of the segment [tPrev, tCur]
// back into a Timestamp, rounding to the nearest microsecond.
func atFraction(tPrev, tCur timespan.Timestamp, r float64) timespan.Timestamp {
	return tPrev + timespan.Timestamp(math.Round(r*float64(tCur-tPrev)))
}

// insideOpenUnit reports whether r lies strictly inside (0, 1): the spec
// requires an injected turning/crossing point to be strictly interior to
// the segment, not at an endpoint that is already a sample.
func insideOpenUnit(r float64) bool {
	return r > 0 && r < 1
}

// ProductTurningPoint is the turning-point predicate for a Linear-numeric
// product x(t)*y(t): the time at which the quadratic p(r) = x(r)*y(r) (r
// the segment's fractional parameter) reaches its extremum, if that time
// is strictly inside the segment. It is the Go port of the hook the source
// calls tnumberseq_mult_maxmin_at_timestamp, wired into the mul lift per
// §4.E Phase 3 (the div lift uses DivisorZeroCrossing only).
func ProductTurningPoint(xPrev, xCur, yPrev, yCur float64, tPrev, tCur timespan.Timestamp) (timespan.Timestamp, bool) {
	// p(r) = (xPrev + r*(xCur-xPrev)) * (yPrev + r*(yCur-yPrev))
	//      = ac*r^2 + (ad+bc)*r + bd,  a=xCur-xPrev, b=xPrev, c=yCur-yPrev, d=yPrev
	a := xCur - xPrev
	b := xPrev
	c := yCur - yPrev
	d := yPrev
	denom := 2 * a * c
	if denom == 0 {
		return 0, false
	}
	r := -(a*d + b*c) / denom
	if !insideOpenUnit(r) {
		return 0, false
	}
	return atFraction(tPrev, tCur, r), true
}

// DivisorZeroCrossing finds the time inside [tPrev, tCur] at which a
// Linear-numeric divisor y(t) crosses zero, if any. Per §4.E Phase 3, the
// resulting temporal value is undefined there and the segment must be
// split.
func DivisorZeroCrossing(yPrev, yCur float64, tPrev, tCur timespan.Timestamp) (timespan.Timestamp, bool) {
	if yPrev == 0 || yCur == 0 {
		// A zero exactly at an endpoint is already a sample, not an
		// interior crossing to inject.
		return 0, false
	}
	if (yPrev > 0) == (yCur > 0) {
		return 0, false
	}
	r := yPrev / (yPrev - yCur)
	if !insideOpenUnit(r) {
		return 0, false
	}
	return atFraction(tPrev, tCur, r), true
}

// LinearCrossing finds the unique root of a(t) - b(t) = 0 inside
// [tPrev, tCur] for two Linear-numeric segments a() and b(), per §4.E
// Phase 4 (used by the discrete lifts of the six comparison operators).
func LinearCrossing(aPrev, aCur, bPrev, bCur float64, tPrev, tCur timespan.Timestamp) (timespan.Timestamp, bool) {
	dPrev := aPrev - bPrev
	dCur := aCur - bCur
	if dPrev == 0 || dCur == 0 {
		return 0, false
	}
	if (dPrev > 0) == (dCur > 0) {
		return 0, false
	}
	r := dPrev / (dPrev - dCur)
	if !insideOpenUnit(r) {
		return 0, false
	}
	return atFraction(tPrev, tCur, r), true
}

// PointLinearCrossing is LinearCrossing generalized to point base types:
// the unique root of the component-wise linear equation pair, per §4.E's
// "Equality / inequality" rule for point base types. It returns a crossing
// only when every carried component (X, Y, and Z when hasZ) roots at the
// same fractional position — otherwise the two point-paths merely pass
// near each other without the equality predicate flipping at one instant.
func PointLinearCrossing(aPrev, aCur, bPrev, bCur XYZ, tPrev, tCur timespan.Timestamp) (timespan.Timestamp, bool) {
	r, ok := componentRoot(aPrev.X, aCur.X, bPrev.X, bCur.X)
	if !ok {
		return 0, false
	}
	ry, ok := componentRoot(aPrev.Y, aCur.Y, bPrev.Y, bCur.Y)
	if !ok || !almostEqual(r, ry) {
		return 0, false
	}
	if aPrev.HasZ && bPrev.HasZ {
		rz, ok := componentRoot(aPrev.Z, aCur.Z, bPrev.Z, bCur.Z)
		if !ok || !almostEqual(r, rz) {
			return 0, false
		}
	}
	if !insideOpenUnit(r) {
		return 0, false
	}
	return atFraction(tPrev, tCur, r), true
}

// componentRoot returns the fractional position at which two linear
// component paths coincide. If the components are already equal
// throughout (aPrev==bPrev && aCur==bCur) any position works, so it
// reports r=0 (the predicate is already satisfied at the segment start).
func componentRoot(aPrev, aCur, bPrev, bCur float64) (float64, bool) {
	dPrev := aPrev - bPrev
	dCur := aCur - bCur
	if dPrev == 0 && dCur == 0 {
		return 0, true
	}
	if dPrev == dCur {
		return 0, false
	}
	return dPrev / (dPrev - dCur), true
}

func almostEqual(a, b float64) bool {
	const eps = 1e-9
	return math.Abs(a-b) <= eps
}
