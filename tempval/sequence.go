// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tempval

import (
	"math"
	"sort"

	"github.com/grailbio/base/log"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/bbox"
	"github.com/tempodb/temporal/errors"
	"github.com/tempodb/temporal/timespan"
)

// Sequence is a single contiguous stretch of time with explicit bound
// inclusivities and a chosen interpolation.
type Sequence struct {
	baseType basevalue.Type
	interp   Interpolation
	instants []Instant
	lowerInc bool
	upperInc bool
	box      bbox.Box
}

// SequenceBuilder accumulates instants for a Sequence and only yields a
// finished, immutable value on Build; further mutation after Build is
// rejected. Modeled on encoding/pam's Writer-then-freeze pattern.
type SequenceBuilder struct {
	interp   Interpolation
	instants []Instant
	built    bool
}

// NewSequenceBuilder starts a builder for a Sequence with the given
// interpolation.
func NewSequenceBuilder(interp Interpolation) *SequenceBuilder {
	return &SequenceBuilder{interp: interp}
}

// Add appends an instant. It panics if called after Build: the builder may
// only produce one finished value.
func (b *SequenceBuilder) Add(inst Instant) *SequenceBuilder {
	if b.built {
		log.Panicf("tempval: SequenceBuilder.Add called after Build")
	}
	b.instants = append(b.instants, inst)
	return b
}

// Build finalizes the builder into an immutable Sequence. The builder must
// not be reused afterward.
func (b *SequenceBuilder) Build(lowerInc, upperInc bool, normalize bool) (*Sequence, error) {
	b.built = true
	return NewSequence(b.instants, lowerInc, upperInc, b.interp, normalize)
}

// NewSequence builds a Sequence from instants. Timestamps must strictly
// increase, except the last two may repeat when upperInc is false (the
// duplicate pins the final value for an exclusive upper bound). The base
// type and interpolation are not checked for that repeated final pair.
//
// When normalize is true, redundant interior instants collapse as
// normalizeRun describes: equal-valued runs under Stepwise, colinear
// instants under Linear. The final instant always keeps its own timestamp
// so a Stepwise exclusive upper bound still pins correctly.
func NewSequence(instants []Instant, lowerInc, upperInc bool, interp Interpolation, normalize bool) (*Sequence, error) {
	if len(instants) == 0 {
		return nil, errors.E("sequence_make", errors.InvalidInput, "no instants given")
	}
	baseType := instants[0].V.Type
	if err := validateLinear(baseType, interp); err != nil {
		return nil, err
	}
	for idx, inst := range instants {
		if inst.V.Type != baseType {
			return nil, errors.E("sequence_make", errors.InvalidInput,
				errors.Detailf("instant %d has type %v, want %v", idx, inst.V.Type, baseType))
		}
		if idx == 0 {
			continue
		}
		prev := instants[idx-1]
		if prev.T > inst.T {
			return nil, errors.E("sequence_make", errors.InvalidInput,
				errors.Detailf("timestamps out of order at index %d", idx))
		}
		if prev.T == inst.T && (idx != len(instants)-1 || upperInc) {
			return nil, errors.E("sequence_make", errors.InvalidInput,
				errors.Detailf("repeated timestamp at index %d is only allowed as the final pair with an exclusive upper bound", idx))
		}
	}
	if len(instants) == 1 && !(lowerInc && upperInc) {
		return nil, errors.E("sequence_make", errors.InvalidInput,
			"a single-instant sequence must have both bounds inclusive")
	}

	cp := append([]Instant(nil), instants...)
	if normalize {
		cp = normalizeRun(cp, interp)
	}

	box, err := sequenceBBox(cp, lowerInc, upperInc)
	if err != nil {
		return nil, err
	}
	return &Sequence{baseType: baseType, interp: interp, instants: cp, lowerInc: lowerInc, upperInc: upperInc, box: box}, nil
}

// normalizeRun collapses redundant interior instants: for Stepwise,
// consecutive equal-valued instants collapse to the run's endpoints; for
// Linear, an instant that lies exactly on the line through its neighbors
// collapses (per-component for point base types). The final instant is
// always kept so its own timestamp still pins the segment boundary.
func normalizeRun(instants []Instant, interp Interpolation) []Instant {
	if interp == Discrete || len(instants) < 2 {
		return instants
	}
	out := make([]Instant, 0, len(instants))
	out = append(out, instants[0])
	for i := 1; i < len(instants); i++ {
		cur := instants[i]
		for len(out) >= 2 {
			base, mid := out[len(out)-2], out[len(out)-1]
			redundant, err := isRedundantMidpoint(base, mid, cur, interp)
			if err != nil || !redundant {
				break
			}
			out = out[:len(out)-1]
		}
		out = append(out, cur)
	}
	return out
}

// isRedundantMidpoint reports whether mid can be dropped from the run
// base, mid, cur without changing the represented function.
func isRedundantMidpoint(base, mid, cur Instant, interp Interpolation) (bool, error) {
	switch interp {
	case Stepwise:
		return basevalue.Eq(base.V, mid.V)
	case Linear:
		predicted, _, err := interpolateLinear(base, cur, mid.T)
		if err != nil {
			return false, err
		}
		return valuesAlmostEqual(predicted, mid.V), nil
	default:
		return false, nil
	}
}

// valuesAlmostEqual compares two values of the same type with a small
// tolerance, absorbing the rounding interpolateLinear introduces for Int.
func valuesAlmostEqual(a, b basevalue.Value) bool {
	const eps = 1e-9
	switch a.Type {
	case basevalue.Int, basevalue.Float:
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return math.Abs(af-bf) < eps
	case basevalue.Point2D, basevalue.Point3D, basevalue.GeogPoint:
		return math.Abs(a.Pt.X-b.Pt.X) < eps && math.Abs(a.Pt.Y-b.Pt.Y) < eps && math.Abs(a.Pt.Z-b.Pt.Z) < eps
	default:
		eq, _ := basevalue.Eq(a, b)
		return eq
	}
}

func sequenceBBox(instants []Instant, lowerInc, upperInc bool) (bbox.Box, error) {
	span := timespan.MustNewPeriod(instants[0].T, instants[len(instants)-1].T, lowerInc, upperInc)
	if isPointType(instants[0].V.Type) {
		vs := make([]basevalue.Value, len(instants))
		for i, inst := range instants {
			vs[i] = inst.V
		}
		return spatioBox(span, vs), nil
	}
	if !instants[0].V.Type.IsNumeric() {
		return bbox.NewPeriodBox(span), nil
	}
	lo, _ := instants[0].V.AsFloat()
	hi := lo
	for _, inst := range instants[1:] {
		v, _ := inst.V.AsFloat()
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return bbox.NewNumericBox(lo, hi, span)
}

func (s *Sequence) BaseType() basevalue.Type    { return s.baseType }
func (s *Sequence) Interpolation() Interpolation { return s.interp }
func (s *Sequence) Variant() VariantKind         { return SequenceVariant }
func (s *Sequence) BBox() bbox.Box               { return s.box }
func (s *Sequence) LowerInc() bool               { return s.lowerInc }
func (s *Sequence) UpperInc() bool               { return s.upperInc }
func (s *Sequence) Instants() []Instant          { return s.instants }
func (s *Sequence) Len() int                     { return len(s.instants) }

func (s *Sequence) Span() timespan.Period {
	return timespan.Period{
		Lower: s.instants[0].T, Upper: s.instants[len(s.instants)-1].T,
		LowerInc: s.lowerInc, UpperInc: s.upperInc,
	}
}

// ExactIndex returns the index of t among the sequence's instants and
// true, or the index of the first instant strictly after t (len(instants)
// if none) and false.
func (s *Sequence) ExactIndex(t timespan.Timestamp) (pos int, found bool) {
	n := len(s.instants)
	pos = sort.Search(n, func(i int) bool { return s.instants[i].T >= t })
	if pos < n && s.instants[pos].T == t {
		return pos, true
	}
	return pos, false
}

// ValueAt implements value_at_timestamp for a Sequence: binary search to
// the enclosing segment, then evaluate per the sequence's interpolation.
func (s *Sequence) ValueAt(t timespan.Timestamp) (basevalue.Value, bool, error) {
	if !s.Span().ContainsTimestamp(t) {
		return basevalue.Value{}, false, nil
	}
	if len(s.instants) == 1 {
		return s.instants[0].V, true, nil
	}
	pos, found := s.ExactIndex(t)
	if found {
		return s.instants[pos].V, true, nil
	}
	if s.interp == Discrete {
		return basevalue.Value{}, false, nil
	}
	n := len(s.instants)
	// pos is the first instant strictly after t; the segment is
	// [pos-1, pos].
	if pos == 0 || pos >= n {
		return basevalue.Value{}, false, nil
	}
	left, right := s.instants[pos-1], s.instants[pos]
	if s.interp == Stepwise {
		return left.V, true, nil
	}
	return interpolateLinear(left, right, t)
}

// interpolateLinear linearly interpolates the value at t between left and
// right, component-wise for point base types.
func interpolateLinear(left, right Instant, t timespan.Timestamp) (basevalue.Value, bool, error) {
	r := timespan.Fraction(t, left.T, right.T)
	switch left.V.Type {
	case basevalue.Int:
		v := float64(left.V.I) + r*float64(right.V.I-left.V.I)
		return basevalue.NewInt(int64(v)), true, nil
	case basevalue.Float:
		return basevalue.NewFloat(left.V.F + r*(right.V.F-left.V.F)), true, nil
	case basevalue.Point2D:
		x := left.V.Pt.X + r*(right.V.Pt.X-left.V.Pt.X)
		y := left.V.Pt.Y + r*(right.V.Pt.Y-left.V.Pt.Y)
		return basevalue.NewPoint2D(x, y), true, nil
	case basevalue.Point3D:
		x := left.V.Pt.X + r*(right.V.Pt.X-left.V.Pt.X)
		y := left.V.Pt.Y + r*(right.V.Pt.Y-left.V.Pt.Y)
		z := left.V.Pt.Z + r*(right.V.Pt.Z-left.V.Pt.Z)
		return basevalue.NewPoint3D(x, y, z), true, nil
	case basevalue.GeogPoint:
		lon := left.V.Pt.X + r*(right.V.Pt.X-left.V.Pt.X)
		lat := left.V.Pt.Y + r*(right.V.Pt.Y-left.V.Pt.Y)
		return basevalue.NewGeogPoint(lon, lat), true, nil
	default:
		return basevalue.Value{}, false, errors.E("value_at_timestamp", errors.InvalidInterpolation,
			errors.Detailf("Linear interpolation undefined for %v", left.V.Type))
	}
}
