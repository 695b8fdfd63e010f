// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lift

import (
	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

// isPoint reports whether t is one of the three point base types.
func isPoint(t basevalue.Type) bool {
	return t == basevalue.Point2D || t == basevalue.Point3D || t == basevalue.GeogPoint
}

// numericTurningPoint adapts basevalue.ProductTurningPoint to the
// Value-typed Descriptor.TurningPoint shape, declining (ok=false) for
// non-numeric operands.
func numericTurningPoint(xPrev, xCur, yPrev, yCur basevalue.Value, tPrev, tCur timespan.Timestamp) (timespan.Timestamp, bool) {
	xp, e1 := xPrev.AsFloat()
	xc, e2 := xCur.AsFloat()
	yp, e3 := yPrev.AsFloat()
	yc, e4 := yCur.AsFloat()
	if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
		return 0, false
	}
	return basevalue.ProductTurningPoint(xp, xc, yp, yc, tPrev, tCur)
}

// numericDivisorZero adapts basevalue.DivisorZeroCrossing.
func numericDivisorZero(yPrev, yCur basevalue.Value, tPrev, tCur timespan.Timestamp) (timespan.Timestamp, bool) {
	yp, e1 := yPrev.AsFloat()
	yc, e2 := yCur.AsFloat()
	if e1 != nil || e2 != nil {
		return 0, false
	}
	return basevalue.DivisorZeroCrossing(yp, yc, tPrev, tCur)
}

// numericOrPointCrossing adapts basevalue.LinearCrossing for numeric
// operands and basevalue.PointLinearCrossing for point operands, covering
// the comparison operators' crossing hook for every base type the six
// comparisons are defined over (§4.E Phase 4, §3's "equality is defined for
// every base type" note).
func numericOrPointCrossing(xPrev, xCur, yPrev, yCur basevalue.Value, tPrev, tCur timespan.Timestamp) (timespan.Timestamp, bool) {
	if isPoint(xPrev.Type) && isPoint(yPrev.Type) {
		return basevalue.PointLinearCrossing(xPrev.Pt, xCur.Pt, yPrev.Pt, yCur.Pt, tPrev, tCur)
	}
	xp, e1 := xPrev.AsFloat()
	xc, e2 := xCur.AsFloat()
	yp, e3 := yPrev.AsFloat()
	yc, e4 := yCur.AsFloat()
	if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
		return 0, false
	}
	return basevalue.LinearCrossing(xp, xc, yp, yc, tPrev, tCur)
}

// ProductDescriptor is the Descriptor for multiplication: a Linear result
// with the quadratic turning-point hook.
var ProductDescriptor = Descriptor{ResultInterp: tempval.Linear, TurningPoint: numericTurningPoint}

// QuotientDescriptor is the Descriptor for division: a Linear result that
// splits wherever the divisor crosses zero.
var QuotientDescriptor = Descriptor{ResultInterp: tempval.Linear, DivisorZero: numericDivisorZero}

// SumDescriptor is the Descriptor for addition and subtraction: the sum (or
// difference) of two Linear functions is itself Linear with no interior
// extremum to inject.
var SumDescriptor = Descriptor{ResultInterp: tempval.Linear}

// ComparisonDescriptor is the Descriptor for the six comparison operators
// and equality/inequality: a piecewise-constant (Stepwise) result with the
// crossing hook that locates exactly where it flips.
var ComparisonDescriptor = Descriptor{ResultInterp: tempval.Stepwise, Crossing: numericOrPointCrossing}

// BooleanDescriptor is the Descriptor for and/or: a piecewise-constant
// result with no crossing hook, since both operands are already Discrete-
// or Stepwise-valued booleans — the flip always lands exactly on an
// existing sample, never strictly inside a segment.
var BooleanDescriptor = Descriptor{ResultInterp: tempval.Stepwise}
