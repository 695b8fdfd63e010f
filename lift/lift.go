// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package lift turns ordinary scalar functions into temporal functions.
// Given one or more temporal values, it synchronizes their time domains,
// applies the scalar function at each synchronized sample, and — for the
// binary case — injects the turning points and crossings that keep a
// Linear or Stepwise result faithful to the scalar function in between
// samples.
//
// The merge-walk shape of synchronization is grounded on
// pileup/snp/pileup.go's position-ordered merge over two read streams; the
// function-pointer-plus-descriptor shape (rather than a bare callback) is
// the capability-object pattern called for by the temporal value model's
// lifting design notes, ported from the algorithms of
// original_source/src/synchronize.c and original_source/src/LiftingFuncs.c.
package lift

import (
	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/errors"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

// UnaryFunc is a 1-ary scalar function lifted by Lift1.
type UnaryFunc func(a basevalue.Value) (basevalue.Value, error)

// BinaryFunc is a 2-ary scalar function lifted by Lift2.
type BinaryFunc func(a, b basevalue.Value) (basevalue.Value, error)

// TernaryFunc is a 3-ary scalar function lifted by Lift3.
type TernaryFunc func(a, b, c basevalue.Value) (basevalue.Value, error)

// QuaternaryFunc is a scalar function whose dispatch depends on the input
// base types directly (e.g. a comparison defined across int and float),
// lifted by Lift4.
type QuaternaryFunc func(a, b basevalue.Value, ta, tb basevalue.Type) (basevalue.Value, error)

// Descriptor is the capability object Lift2 (and, through it, Lift4)
// consults for the non-trivial parts of §4.E: the result's interpolation,
// and the two closed-form predicates that keep that interpolation
// faithful.
//
//   - TurningPoint locates the extremum of a non-linear Linear-result
//     function (the product case, used by mul).
//   - DivisorZero locates where a Linear divisor crosses zero (used by
//     div); the result is undefined there and the sequence splits.
//   - Crossing locates where a piecewise-constant (Discrete-valued)
//     result flips (used by the six comparisons).
//
// All three are nil for operators that don't need them (boolean and/or,
// add/sub). The comparisons always set Crossing; it finds no crossing for
// operands that are neither numeric nor points.
type Descriptor struct {
	// ResultInterp is Linear for numeric arithmetic results and Stepwise
	// for piecewise-constant (comparison/boolean) results.
	ResultInterp tempval.Interpolation
	TurningPoint func(xPrev, xCur, yPrev, yCur basevalue.Value, tPrev, tCur timespan.Timestamp) (timespan.Timestamp, bool)
	DivisorZero  func(yPrev, yCur basevalue.Value, tPrev, tCur timespan.Timestamp) (timespan.Timestamp, bool)
	Crossing     func(xPrev, xCur, yPrev, yCur basevalue.Value, tPrev, tCur timespan.Timestamp) (timespan.Timestamp, bool)
}

// Lift1 applies f to every value a Temporal carries, preserving its
// variant, timestamps and interpolation. The 1-ary case needs no
// synchronization and no turning-point machinery (§4.E: "the 1-ary case is
// trivial").
func Lift1(f UnaryFunc, x tempval.Temporal) (tempval.Temporal, error) {
	switch v := x.(type) {
	case tempval.Instant:
		nv, err := f(v.V)
		if err != nil {
			return nil, err
		}
		return tempval.NewInstant(v.T, nv), nil
	case *tempval.InstantSet:
		insts := make([]tempval.Instant, 0, v.Len())
		for _, inst := range v.Instants() {
			nv, err := f(inst.V)
			if err != nil {
				return nil, err
			}
			insts = append(insts, tempval.Instant{T: inst.T, V: nv})
		}
		return tempval.NewInstantSet(insts)
	case *tempval.Sequence:
		insts := make([]tempval.Instant, 0, v.Len())
		for _, inst := range v.Instants() {
			nv, err := f(inst.V)
			if err != nil {
				return nil, err
			}
			insts = append(insts, tempval.Instant{T: inst.T, V: nv})
		}
		return tempval.NewSequence(insts, v.LowerInc(), v.UpperInc(), v.Interpolation(), true)
	case *tempval.SequenceSet:
		seqs := make([]*tempval.Sequence, 0, v.Len())
		for _, seq := range v.Sequences() {
			r, err := Lift1(f, seq)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, r.(*tempval.Sequence))
		}
		return tempval.NewSequenceSet(seqs, true)
	default:
		return nil, errors.E("lift1", errors.Unsupported, "unrecognized temporal variant")
	}
}

// Lift2 is the canonical binary lift: synchronize x and y (§4.E Phase 1-2),
// apply f at every synchronized sample, then inject turning points or
// crossings per desc (Phase 3-4). It returns (nil, nil) when the two time
// domains do not intersect, per the Option::None empty-sync policy.
func Lift2(f BinaryFunc, x, y tempval.Temporal, desc Descriptor) (tempval.Temporal, error) {
	units, segs, err := sync2(x, y)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 && len(segs) == 0 {
		return nil, nil
	}

	var instants []tempval.Instant
	for _, u := range units {
		v, err := f(u.vx, u.vy)
		if err != nil {
			return nil, err
		}
		instants = append(instants, tempval.Instant{T: u.t, V: v})
	}

	var sequences []*tempval.Sequence
	for _, s := range segs {
		pieces, err := applySeqUnit(s, f, desc)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, pieces...)
	}

	switch {
	case len(sequences) == 0:
		if len(instants) == 1 {
			return instants[0], nil
		}
		return tempval.NewInstantSet(instants)
	case len(instants) == 0:
		if len(sequences) == 1 {
			return sequences[0], nil
		}
		return tempval.NewSequenceSet(sequences, true)
	default:
		// A continuous/continuous sync can pair one overlapping member pair
		// down to a single degenerate instant while another pair yields a
		// real segment; fold the degenerate instants in as single-sample
		// sequences so the result stays one SequenceSet.
		for _, inst := range instants {
			single, err := tempval.NewSequence([]tempval.Instant{inst}, true, true, desc.ResultInterp, false)
			if err != nil {
				return nil, err
			}
			sequences = append(sequences, single)
		}
		return tempval.NewSequenceSet(sequences, true)
	}
}

// Lift4 is Lift2 generalized so the scalar function can see both inputs'
// base-type tags — the shape needed by comparisons defined across, say,
// int and float. It is an overload of Lift2's trait, per §9's design note.
func Lift4(f QuaternaryFunc, x, y tempval.Temporal, desc Descriptor) (tempval.Temporal, error) {
	ta, tb := x.BaseType(), y.BaseType()
	wrapped := func(a, b basevalue.Value) (basevalue.Value, error) {
		return f(a, b, ta, tb)
	}
	return Lift2(wrapped, x, y, desc)
}
