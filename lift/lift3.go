// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lift

import (
	"sort"

	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

// Lift3 generalizes Lift2 to three operands. It intersects all three time
// domains, merge-walks the union of their native sample timestamps inside
// that intersection, and applies f wherever all three are defined.
//
// Unlike Lift2, Lift3 does not inject turning points or divisor-zero
// crossings: §4.E's closed-form turning-point and crossing algebra is only
// specified for the 2-ary case (and 4-ary, which Lift4 reduces to it), so
// the 3-ary lift is a straightforward sample-and-merge generalization
// rather than a faithful-everywhere one. Callers whose third argument only
// ever supplies a slowly changing parameter (the common case for a 3-ary
// operator) are unaffected; callers needing exact turning points across all
// three arguments should decompose into nested Lift2 calls instead.
func Lift3(f TernaryFunc, x, y, z tempval.Temporal, resultInterp tempval.Interpolation) (tempval.Temporal, error) {
	p1, ok := timespan.Intersect(x.Span(), y.Span())
	if !ok {
		return nil, nil
	}
	p, ok := timespan.Intersect(p1, z.Span())
	if !ok {
		return nil, nil
	}

	ts := mergeNativeTimestamps([]tempval.Temporal{x, y, z}, p)
	var insts []tempval.Instant
	for _, t := range ts {
		vx, okx, err := x.ValueAt(t)
		if err != nil {
			return nil, err
		}
		vy, oky, err := y.ValueAt(t)
		if err != nil {
			return nil, err
		}
		vz, okz, err := z.ValueAt(t)
		if err != nil {
			return nil, err
		}
		if !okx || !oky || !okz {
			continue
		}
		v, err := f(vx, vy, vz)
		if err != nil {
			return nil, err
		}
		insts = append(insts, tempval.Instant{T: t, V: v})
	}
	if len(insts) == 0 {
		return nil, nil
	}

	if anyContinuous(x, y, z) {
		if len(insts) == 1 {
			return insts[0], nil
		}
		return tempval.NewSequence(insts, p.LowerInc, p.UpperInc, resultInterp, true)
	}
	if len(insts) == 1 {
		return insts[0], nil
	}
	return tempval.NewInstantSet(insts)
}

// mergeNativeTimestamps returns the sorted, deduplicated union of every
// input's own sample timestamps that fall inside p.
func mergeNativeTimestamps(inputs []tempval.Temporal, p timespan.Period) []timespan.Timestamp {
	seen := make(map[timespan.Timestamp]bool)
	var out []timespan.Timestamp
	add := func(t timespan.Timestamp) {
		if !p.ContainsTimestamp(t) || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, in := range inputs {
		switch v := in.(type) {
		case tempval.Instant:
			add(v.T)
		case *tempval.InstantSet:
			for _, inst := range v.Instants() {
				add(inst.T)
			}
		case *tempval.Sequence:
			for _, inst := range v.Instants() {
				add(inst.T)
			}
		case *tempval.SequenceSet:
			for _, seq := range v.Sequences() {
				for _, inst := range seq.Instants() {
					add(inst.T)
				}
			}
		}
	}
	add(p.Lower)
	add(p.Upper)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// anyContinuous reports whether any of ts is Sequence- or SequenceSet-
// backed, which determines whether Lift3's result should be built as a
// continuous Sequence or a Discrete InstantSet.
func anyContinuous(ts ...tempval.Temporal) bool {
	for _, t := range ts {
		switch t.(type) {
		case *tempval.Sequence, *tempval.SequenceSet:
			return true
		}
	}
	return false
}
