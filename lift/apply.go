// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lift

import (
	"sort"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/errors"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

// applySeqUnit applies f across one synchronized continuous run, producing
// one or more Sequences: a single Linear sequence with turning points and
// divisor-zero splits injected (Phase 3) when desc.ResultInterp is Linear,
// otherwise a run of Stepwise pieces with crossings injected (Phase 4).
func applySeqUnit(s seqUnit, f BinaryFunc, desc Descriptor) ([]*tempval.Sequence, error) {
	if desc.ResultInterp == tempval.Linear {
		return applyContinuous(s, f, desc)
	}
	return applyDiscrete(s, f, desc)
}

type sample struct {
	t timespan.Timestamp
	v basevalue.Value
}

// applyContinuous implements Phase 3: f is evaluated at every original
// sample, plus at any turning point strictly inside a segment. A
// divisor-zero crossing strictly inside a segment is not evaluated; it
// splits the run, since the result is undefined exactly there.
func applyContinuous(s seqUnit, f BinaryFunc, desc Descriptor) ([]*tempval.Sequence, error) {
	n := len(s.xs)
	samples := make([]sample, 0, n)

	v0, err := f(s.xs[0].V, s.ys[0].V)
	if err != nil {
		return nil, err
	}
	samples = append(samples, sample{t: s.xs[0].T, v: v0})

	var splitAt []timespan.Timestamp
	for i := 1; i < n; i++ {
		tPrev, tCur := s.xs[i-1].T, s.xs[i].T
		if desc.DivisorZero != nil {
			if zt, ok := desc.DivisorZero(s.ys[i-1].V, s.ys[i].V, tPrev, tCur); ok {
				splitAt = append(splitAt, zt)
			}
		}
		if desc.TurningPoint != nil {
			if tt, ok := desc.TurningPoint(s.xs[i-1].V, s.xs[i].V, s.ys[i-1].V, s.ys[i].V, tPrev, tCur); ok {
				xv, err := lerpValue(s.xs[i-1].V, s.xs[i].V, tPrev, tCur, tt)
				if err != nil {
					return nil, err
				}
				yv, err := lerpValue(s.ys[i-1].V, s.ys[i].V, tPrev, tCur, tt)
				if err != nil {
					return nil, err
				}
				fv, err := f(xv, yv)
				if err != nil {
					return nil, err
				}
				samples = append(samples, sample{t: tt, v: fv})
			}
		}
		vi, err := f(s.xs[i].V, s.ys[i].V)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample{t: tCur, v: vi})
	}

	if len(splitAt) == 0 {
		piece, err := buildLinearPiece(samples, s.lowerInc, s.upperInc)
		if err != nil {
			return nil, err
		}
		if piece == nil {
			return nil, nil
		}
		return []*tempval.Sequence{piece}, nil
	}
	return splitAtZeros(samples, splitAt, s.lowerInc, s.upperInc)
}

func buildLinearPiece(samples []sample, lowerInc, upperInc bool) (*tempval.Sequence, error) {
	if len(samples) == 0 {
		return nil, nil
	}
	if len(samples) == 1 {
		lowerInc, upperInc = true, true
	}
	insts := make([]tempval.Instant, len(samples))
	for i, sm := range samples {
		insts[i] = tempval.Instant{T: sm.t, V: sm.v}
	}
	return tempval.NewSequence(insts, lowerInc, upperInc, tempval.Linear, true)
}

// splitAtZeros partitions samples at each divisor-zero timestamp: the
// result is undefined exactly there, so the run splits into exclusive-
// bounded pieces on either side, dropping any piece that turns out empty
// (a zero landing exactly at a run boundary).
func splitAtZeros(samples []sample, splitAt []timespan.Timestamp, lowerInc, upperInc bool) ([]*tempval.Sequence, error) {
	sort.Slice(splitAt, func(i, j int) bool { return splitAt[i] < splitAt[j] })
	var pieces []*tempval.Sequence
	start := 0
	curLowerInc := lowerInc
	for _, zt := range splitAt {
		end := start
		for end < len(samples) && samples[end].t < zt {
			end++
		}
		piece, err := buildLinearPiece(samples[start:end], curLowerInc, false)
		if err != nil {
			return nil, err
		}
		if piece != nil {
			pieces = append(pieces, piece)
		}
		start = end
		curLowerInc = false
	}
	piece, err := buildLinearPiece(samples[start:], curLowerInc, upperInc)
	if err != nil {
		return nil, err
	}
	if piece != nil {
		pieces = append(pieces, piece)
	}
	return pieces, nil
}

// applyDiscrete implements Phase 4: f's codomain is treated as finite
// (boolean/comparison results), so the output is piecewise-constant.
// Wherever consecutive samples' results differ, the run splits into two
// pieces pinned at the flip timestamp — the interior crossing desc.Crossing
// locates, when one exists, or the existing sample boundary otherwise.
// The left piece's upper bound is exclusive at that instant; the right
// piece's lower bound is exclusive at an interior crossing and inclusive
// at a sample boundary, where the right piece's own first sample holds its
// value. No third, singleton-at-the-crossing piece is
// emitted: the crossing instant itself belongs to neither side, which is
// exactly what keeps the comparison's result undefined-at-the-boundary
// reading consistent with how the rest of this package treats degenerate
// points, and avoids SequenceSet's adjacency auto-glue silently erasing the
// exclusive bound the crossing computation reports.
func applyDiscrete(s seqUnit, f BinaryFunc, desc Descriptor) ([]*tempval.Sequence, error) {
	n := len(s.xs)
	vals := make([]basevalue.Value, n)
	for i := 0; i < n; i++ {
		v, err := f(s.xs[i].V, s.ys[i].V)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	type boundary struct {
		t  timespan.Timestamp
		ok bool // true: crossing strictly interior to the segment
	}
	var runStarts []int
	var bounds []boundary
	runStarts = append(runStarts, 0)
	for i := 1; i < n; i++ {
		eq, err := basevalue.Eq(vals[i-1], vals[i])
		if err != nil {
			return nil, err
		}
		if eq {
			continue
		}
		runStarts = append(runStarts, i)
		if desc.Crossing != nil {
			if ct, ok := desc.Crossing(s.xs[i-1].V, s.xs[i].V, s.ys[i-1].V, s.ys[i].V, s.xs[i-1].T, s.xs[i].T); ok {
				bounds = append(bounds, boundary{t: ct, ok: true})
				continue
			}
		}
		bounds = append(bounds, boundary{t: s.xs[i].T, ok: false})
	}

	pieces := make([]*tempval.Sequence, 0, len(runStarts))
	for k, start := range runStarts {
		end := n
		if k+1 < len(runStarts) {
			end = runStarts[k+1]
		}

		lowerInc := s.lowerInc
		var leadT *timespan.Timestamp
		if k > 0 {
			b := bounds[k-1]
			if b.ok {
				t := b.t
				leadT = &t
				lowerInc = false
			} else {
				lowerInc = true
			}
		}

		upperInc := s.upperInc
		var trailT *timespan.Timestamp
		if k+1 < len(runStarts) {
			t := bounds[k].t
			trailT = &t
			upperInc = false
		}

		insts := make([]tempval.Instant, 0, end-start+2)
		if leadT != nil {
			insts = append(insts, tempval.Instant{T: *leadT, V: vals[start]})
		}
		for i := start; i < end; i++ {
			insts = append(insts, tempval.Instant{T: s.xs[i].T, V: vals[i]})
		}
		if trailT != nil {
			insts = append(insts, tempval.Instant{T: *trailT, V: vals[start]})
		}

		seq, err := tempval.NewSequence(insts, lowerInc, upperInc, tempval.Stepwise, true)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, seq)
	}
	return pieces, nil
}

// lerpValue linearly interpolates a basevalue.Value at t between prev (at
// tPrev) and cur (at tCur); used to evaluate both operands at an injected
// turning point so f can be applied there. Mirrors tempval's unexported
// interpolateLinear but operates on bare Values rather than Instants.
func lerpValue(prev, cur basevalue.Value, tPrev, tCur, t timespan.Timestamp) (basevalue.Value, error) {
	r := timespan.Fraction(t, tPrev, tCur)
	switch prev.Type {
	case basevalue.Int:
		v := float64(prev.I) + r*float64(cur.I-prev.I)
		return basevalue.NewInt(int64(v)), nil
	case basevalue.Float:
		return basevalue.NewFloat(prev.F + r*(cur.F-prev.F)), nil
	case basevalue.Point2D:
		x := prev.Pt.X + r*(cur.Pt.X-prev.Pt.X)
		y := prev.Pt.Y + r*(cur.Pt.Y-prev.Pt.Y)
		return basevalue.NewPoint2D(x, y), nil
	case basevalue.Point3D:
		x := prev.Pt.X + r*(cur.Pt.X-prev.Pt.X)
		y := prev.Pt.Y + r*(cur.Pt.Y-prev.Pt.Y)
		z := prev.Pt.Z + r*(cur.Pt.Z-prev.Pt.Z)
		return basevalue.NewPoint3D(x, y, z), nil
	case basevalue.GeogPoint:
		lon := prev.Pt.X + r*(cur.Pt.X-prev.Pt.X)
		lat := prev.Pt.Y + r*(cur.Pt.Y-prev.Pt.Y)
		return basevalue.NewGeogPoint(lon, lat), nil
	default:
		return basevalue.Value{}, errors.E("lift_turning_point", errors.InvalidInterpolation,
			errors.Detailf("cannot linearly interpolate %v", prev.Type))
	}
}
