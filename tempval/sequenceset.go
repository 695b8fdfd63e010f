// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tempval

import (
	"sort"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/bbox"
	"github.com/tempodb/temporal/errors"
	"github.com/tempodb/temporal/timespan"
)

// SequenceSet is an ordered collection of disjoint Sequences, all sharing
// one base type and interpolation.
type SequenceSet struct {
	baseType basevalue.Type
	interp   Interpolation
	sequences []*Sequence
	box      bbox.Box
}

// NewSequenceSet builds a SequenceSet from sequences, which must all share
// a base type and interpolation.
//
// A true interval overlap (more than a single shared boundary point) is
// always rejected with OverlapOrAdjacency. Two members that only touch —
// either adjacent (one bound exclusive) or sharing one both-inclusive
// boundary timestamp (spec §8 scenario 5) — may coexist as distinct
// sequences if their values differ across the touch point, a legitimate
// discontinuity; but if the touching values are equal they represent the
// same continuous stretch and must be glued into one sequence: with
// normalize, that gluing happens automatically; without it,
// OverlapOrAdjacency is returned. Two sequences sharing one both-inclusive
// timestamp with differing values is a genuine contradiction and is
// rejected regardless of normalize.
func NewSequenceSet(sequences []*Sequence, normalize bool) (*SequenceSet, error) {
	if len(sequences) == 0 {
		return nil, errors.E("sequenceset_make", errors.InvalidInput, "no sequences given")
	}
	baseType := sequences[0].baseType
	interp := sequences[0].interp
	for idx, seq := range sequences {
		if seq.baseType != baseType {
			return nil, errors.E("sequenceset_make", errors.InvalidInput,
				errors.Detailf("sequence %d has base type %v, want %v", idx, seq.baseType, baseType))
		}
		if seq.interp != interp {
			return nil, errors.E("sequenceset_make", errors.InvalidInput,
				errors.Detailf("sequence %d has interpolation %v, want %v", idx, seq.interp, interp))
		}
	}

	sorted := append([]*Sequence(nil), sequences...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span().Compare(sorted[j].Span()) < 0 })

	merged := make([]*Sequence, 0, len(sorted))
	cur := sorted[0]
	for _, nxt := range sorted[1:] {
		curSpan, nxtSpan := cur.Span(), nxt.Span()

		// Two sequences that merely touch at one shared both-inclusive
		// timestamp register as "overlapping" under Period.Overlaps (they
		// share that single point), but this is the legitimate touch case
		// spec §8 scenario 5 needs glued, not a true interval overlap:
		// distinguish it before the overlap check can preempt it.
		touchesAtSharedInstant := curSpan.Upper == nxtSpan.Lower && curSpan.UpperInc && nxtSpan.LowerInc

		if curSpan.Overlaps(nxtSpan) && !touchesAtSharedInstant {
			return nil, errors.E("sequenceset_make", errors.OverlapOrAdjacency,
				errors.Detailf("sequences spanning %v and %v overlap", curSpan, nxtSpan))
		}

		if touchesAtSharedInstant || timespan.Adjacent(curSpan, nxtSpan) {
			curLast := cur.instants[len(cur.instants)-1].V
			nxtFirst := nxt.instants[0].V
			eq, err := basevalue.Eq(curLast, nxtFirst)
			if err != nil {
				return nil, err
			}
			if eq {
				if !normalize {
					return nil, errors.E("sequenceset_make", errors.OverlapOrAdjacency,
						errors.Detailf("sequences spanning %v and %v are adjacent with equal boundary value", curSpan, nxtSpan))
				}
				glued, err := glueSequences(cur, nxt)
				if err != nil {
					return nil, err
				}
				cur = glued
				continue
			}
			if touchesAtSharedInstant {
				// Same instant, conflicting values: two functions disagree
				// at the one point they both claim, regardless of normalize.
				return nil, errors.E("sequenceset_make", errors.OverlapOrAdjacency,
					errors.Detailf("sequences spanning %v and %v share timestamp %d with conflicting values", curSpan, nxtSpan, curSpan.Upper))
			}
		}
		merged = append(merged, cur)
		cur = nxt
	}
	merged = append(merged, cur)

	box, err := sequenceSetBBox(merged)
	if err != nil {
		return nil, err
	}
	return &SequenceSet{baseType: baseType, interp: interp, sequences: merged, box: box}, nil
}

// glueSequences merges two time-adjacent sequences that share an equal
// boundary value into one, re-normalizing so a colinear/constant run
// spanning the old boundary collapses (spec §8 scenario 5).
func glueSequences(a, b *Sequence) (*Sequence, error) {
	combined := make([]Instant, 0, len(a.instants)+len(b.instants)-1)
	combined = append(combined, a.instants...)
	combined = append(combined, b.instants[1:]...)
	return NewSequence(combined, a.lowerInc, b.upperInc, a.interp, true)
}

func sequenceSetBBox(sequences []*Sequence) (bbox.Box, error) {
	box := sequences[0].BBox()
	for _, seq := range sequences[1:] {
		merged, err := bbox.Expand(box, seq.BBox())
		if err != nil {
			return bbox.Box{}, err
		}
		box = merged
	}
	return box, nil
}

func (s *SequenceSet) BaseType() basevalue.Type    { return s.baseType }
func (s *SequenceSet) Interpolation() Interpolation { return s.interp }
func (s *SequenceSet) Variant() VariantKind         { return SequenceSetVariant }
func (s *SequenceSet) BBox() bbox.Box               { return s.box }
func (s *SequenceSet) Sequences() []*Sequence       { return s.sequences }
func (s *SequenceSet) Len() int                     { return len(s.sequences) }

func (s *SequenceSet) Span() timespan.Period {
	first, last := s.sequences[0].Span(), s.sequences[len(s.sequences)-1].Span()
	return timespan.Period{Lower: first.Lower, Upper: last.Upper, LowerInc: first.LowerInc, UpperInc: last.UpperInc}
}

// findSequence returns the index of the member sequence whose span
// contains t, or (-1, false).
func (s *SequenceSet) findSequence(t timespan.Timestamp) (int, bool) {
	n := len(s.sequences)
	idx := sort.Search(n, func(i int) bool { return !s.sequences[i].Span().Upper.Before(t) })
	if idx < n && s.sequences[idx].Span().ContainsTimestamp(t) {
		return idx, true
	}
	return -1, false
}

// ValueAt evaluates the SequenceSet at t by locating the containing
// member sequence (if any) and delegating.
func (s *SequenceSet) ValueAt(t timespan.Timestamp) (basevalue.Value, bool, error) {
	idx, ok := s.findSequence(t)
	if !ok {
		return basevalue.Value{}, false, nil
	}
	return s.sequences[idx].ValueAt(t)
}
