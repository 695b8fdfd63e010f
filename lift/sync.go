// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lift

import (
	"sort"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

// instantUnit is one synchronized sample produced by the pointwise
// (Instant/InstantSet) paths of sync2: both operands are defined at t and
// no interpolation is involved.
type instantUnit struct {
	t      timespan.Timestamp
	vx, vy basevalue.Value
}

// seqUnit is one synchronized continuous run produced when both operands
// are Sequence- or SequenceSet-backed over an overlapping span: xs and ys
// are parallel, same-length, same-timestamp sample lists covering
// [lowerInc, upperInc) of the intersected span.
type seqUnit struct {
	xs, ys             []tempval.Instant
	lowerInc, upperInc bool
}

// sync2 synchronizes x and y per §4.E Phase 1-2, dispatching on whether
// each side is pointwise (Instant/InstantSet, Discrete semantics: only
// exact-matching timestamps contribute) or continuous (Sequence/
// SequenceSet, which can be sampled anywhere in their span).
func sync2(x, y tempval.Temporal) ([]instantUnit, []seqUnit, error) {
	xPW, xIsPW := pointwiseInstants(x)
	yPW, yIsPW := pointwiseInstants(y)
	switch {
	case xIsPW && yIsPW:
		return syncPointwise(xPW, yPW), nil, nil
	case xIsPW && !yIsPW:
		units, err := syncPointwiseWithContinuous(xPW, y, false)
		return units, nil, err
	case !xIsPW && yIsPW:
		units, err := syncPointwiseWithContinuous(yPW, x, true)
		return units, nil, err
	default:
		return syncContinuousContinuous(x, y)
	}
}

// pointwiseInstants returns t's own instants when t is an Instant or
// InstantSet (the two variants with no interior interpolation); the second
// result is false for Sequence and SequenceSet.
func pointwiseInstants(t tempval.Temporal) ([]tempval.Instant, bool) {
	switch v := t.(type) {
	case tempval.Instant:
		return []tempval.Instant{v}, true
	case *tempval.InstantSet:
		return v.Instants(), true
	default:
		return nil, false
	}
}

// syncPointwise merge-walks two sorted instant lists, keeping only exactly
// matching timestamps: Discrete/Discrete synchronization has no fill.
func syncPointwise(a, b []tempval.Instant) []instantUnit {
	var out []instantUnit
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].T < b[j].T:
			i++
		case a[i].T > b[j].T:
			j++
		default:
			out = append(out, instantUnit{t: a[i].T, vx: a[i].V, vy: b[j].V})
			i++
			j++
		}
	}
	return out
}

// syncPointwiseWithContinuous evaluates cont at each of pw's timestamps.
// swapped indicates pw was the original second (y) argument, so the unit's
// vx/vy fields keep the caller-visible argument order.
func syncPointwiseWithContinuous(pw []tempval.Instant, cont tempval.Temporal, swapped bool) ([]instantUnit, error) {
	var out []instantUnit
	for _, inst := range pw {
		v, ok, err := cont.ValueAt(inst.T)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if swapped {
			out = append(out, instantUnit{t: inst.T, vx: v, vy: inst.V})
		} else {
			out = append(out, instantUnit{t: inst.T, vx: inst.V, vy: v})
		}
	}
	return out, nil
}

// sequencesOf returns the Sequence members making up t: a one-element
// slice for a Sequence, t's members for a SequenceSet, each already sorted
// by the invariants tempval.NewSequenceSet enforces.
func sequencesOf(t tempval.Temporal) []*tempval.Sequence {
	switch v := t.(type) {
	case *tempval.Sequence:
		return []*tempval.Sequence{v}
	case *tempval.SequenceSet:
		return v.Sequences()
	default:
		return nil
	}
}

// syncContinuousContinuous outer-merge-walks the member sequences of x and
// y, recursing into syncSequencePair for every overlapping member pair
// (§4.E's SequenceSet/SequenceSet generalization of Phase 2).
func syncContinuousContinuous(x, y tempval.Temporal) ([]instantUnit, []seqUnit, error) {
	xs, ys := sequencesOf(x), sequencesOf(y)
	var units []instantUnit
	var segs []seqUnit
	i, j := 0, 0
	for i < len(xs) && j < len(ys) {
		a, b := xs[i], ys[j]
		if !a.Span().Overlaps(b.Span()) {
			switch compareUpper(a.Span(), b.Span()) {
			case -1:
				i++
			case 1:
				j++
			default:
				i++
				j++
			}
			continue
		}
		u, s, err := syncSequencePair(a, b)
		if err != nil {
			return nil, nil, err
		}
		units = append(units, u...)
		segs = append(segs, s...)
		switch compareUpper(a.Span(), b.Span()) {
		case -1:
			i++
		case 1:
			j++
		default:
			i++
			j++
		}
	}
	return units, segs, nil
}

// compareUpper orders two spans by upper bound alone, used only to decide
// which merge-walk cursor to advance; ties advance both, which guarantees
// progress regardless of bound inclusivity.
func compareUpper(a, b timespan.Period) int {
	switch {
	case a.Upper < b.Upper:
		return -1
	case a.Upper > b.Upper:
		return 1
	default:
		return 0
	}
}

// syncSequencePair synchronizes one overlapping Sequence pair. A
// zero-duration intersection degenerates to a single instantUnit; a real
// intersection produces a seqUnit carrying the union of both sides' sample
// timestamps within it, each side filled in via ValueAt.
func syncSequencePair(a, b *tempval.Sequence) ([]instantUnit, []seqUnit, error) {
	inter, ok := timespan.Intersect(a.Span(), b.Span())
	if !ok {
		return nil, nil, nil
	}
	if inter.Lower == inter.Upper {
		va, oka, err := a.ValueAt(inter.Lower)
		if err != nil {
			return nil, nil, err
		}
		vb, okb, err := b.ValueAt(inter.Lower)
		if err != nil {
			return nil, nil, err
		}
		if !oka || !okb {
			return nil, nil, nil
		}
		return []instantUnit{{t: inter.Lower, vx: va, vy: vb}}, nil, nil
	}

	ts := mergeTimestampsWithin(a.Instants(), b.Instants(), inter)
	var xs, ys []tempval.Instant
	for _, t := range ts {
		va, oka, err := a.ValueAt(t)
		if err != nil {
			return nil, nil, err
		}
		vb, okb, err := b.ValueAt(t)
		if err != nil {
			return nil, nil, err
		}
		if !oka || !okb {
			continue
		}
		xs = append(xs, tempval.Instant{T: t, V: va})
		ys = append(ys, tempval.Instant{T: t, V: vb})
	}
	switch len(xs) {
	case 0:
		return nil, nil, nil
	case 1:
		return []instantUnit{{t: xs[0].T, vx: xs[0].V, vy: ys[0].V}}, nil, nil
	default:
		return nil, []seqUnit{{xs: xs, ys: ys, lowerInc: inter.LowerInc, upperInc: inter.UpperInc}}, nil
	}
}

// mergeTimestampsWithin returns the sorted, deduplicated union of a's and
// b's own sample timestamps that fall inside inter, plus inter's own
// bounds (so a partial-overlap segment's true endpoints are always
// represented even if neither side sampled exactly there).
func mergeTimestampsWithin(a, b []tempval.Instant, inter timespan.Period) []timespan.Timestamp {
	seen := make(map[timespan.Timestamp]bool)
	var out []timespan.Timestamp
	add := func(t timespan.Timestamp) {
		if !inter.ContainsTimestamp(t) || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, inst := range a {
		add(inst.T)
	}
	for _, inst := range b {
		add(inst.T)
	}
	add(inter.Lower)
	add(inter.Upper)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
