// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tempval

import (
	"github.com/tempodb/temporal/timespan"
)

// This file implements the time-restriction family (at_timestamp,
// at_period, at_periodset, at_timestampset and their minus_ complements)
// across all four variants. Every restriction is built out of the Period
// algebra in package timespan, the same way pileup/snp/row.go narrows a
// pileup row to a requested reference window before emitting it.

// AtTimestamp returns i if t == i.T.
func (i Instant) AtTimestamp(t timespan.Timestamp) (Instant, bool) {
	if i.T == t {
		return i, true
	}
	return Instant{}, false
}

// AtPeriod returns i if p contains i.T.
func (i Instant) AtPeriod(p timespan.Period) (Instant, bool) {
	if p.ContainsTimestamp(i.T) {
		return i, true
	}
	return Instant{}, false
}

// AtPeriodSet returns i if any period of ps contains i.T.
func (i Instant) AtPeriodSet(ps *timespan.PeriodSet) (Instant, bool) {
	if ps.ContainsTimestamp(i.T) {
		return i, true
	}
	return Instant{}, false
}

// AtTimestampSet returns i if ts contains i.T.
func (i Instant) AtTimestampSet(ts *timespan.TimeSet) (Instant, bool) {
	if ts.Contains(i.T) {
		return i, true
	}
	return Instant{}, false
}

// MinusTimestamp returns i unless t == i.T.
func (i Instant) MinusTimestamp(t timespan.Timestamp) (Instant, bool) {
	if i.T == t {
		return Instant{}, false
	}
	return i, true
}

// MinusPeriod returns i unless p contains i.T.
func (i Instant) MinusPeriod(p timespan.Period) (Instant, bool) {
	if p.ContainsTimestamp(i.T) {
		return Instant{}, false
	}
	return i, true
}

// MinusPeriodSet returns i unless ps contains i.T.
func (i Instant) MinusPeriodSet(ps *timespan.PeriodSet) (Instant, bool) {
	if ps.ContainsTimestamp(i.T) {
		return Instant{}, false
	}
	return i, true
}

// MinusTimestampSet returns i unless ts contains i.T.
func (i Instant) MinusTimestampSet(ts *timespan.TimeSet) (Instant, bool) {
	if ts.Contains(i.T) {
		return Instant{}, false
	}
	return i, true
}

// AtTimestamp returns the member instant at t, if any.
func (s *InstantSet) AtTimestamp(t timespan.Timestamp) (Instant, bool) {
	pos, found := s.search(t)
	if !found {
		return Instant{}, false
	}
	return s.instants[pos], true
}

func (s *InstantSet) filter(keep func(Instant) bool) (*InstantSet, bool) {
	var out []Instant
	for _, inst := range s.instants {
		if keep(inst) {
			out = append(out, inst)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	set, err := NewInstantSet(out)
	if err != nil {
		return nil, false
	}
	return set, true
}

// AtPeriod restricts s to the instants falling within p.
func (s *InstantSet) AtPeriod(p timespan.Period) (*InstantSet, bool) {
	return s.filter(func(i Instant) bool { return p.ContainsTimestamp(i.T) })
}

// AtPeriodSet restricts s to the instants falling within ps.
func (s *InstantSet) AtPeriodSet(ps *timespan.PeriodSet) (*InstantSet, bool) {
	return s.filter(func(i Instant) bool { return ps.ContainsTimestamp(i.T) })
}

// AtTimestampSet restricts s to the instants whose timestamp is in ts.
func (s *InstantSet) AtTimestampSet(ts *timespan.TimeSet) (*InstantSet, bool) {
	return s.filter(func(i Instant) bool { return ts.Contains(i.T) })
}

// MinusPeriod removes from s the instants falling within p.
func (s *InstantSet) MinusPeriod(p timespan.Period) (*InstantSet, bool) {
	return s.filter(func(i Instant) bool { return !p.ContainsTimestamp(i.T) })
}

// MinusPeriodSet removes from s the instants falling within ps.
func (s *InstantSet) MinusPeriodSet(ps *timespan.PeriodSet) (*InstantSet, bool) {
	return s.filter(func(i Instant) bool { return !ps.ContainsTimestamp(i.T) })
}

// MinusTimestampSet removes from s the instants whose timestamp is in ts.
func (s *InstantSet) MinusTimestampSet(ts *timespan.TimeSet) (*InstantSet, bool) {
	return s.filter(func(i Instant) bool { return !ts.Contains(i.T) })
}

// MinusTimestamp removes from s the instant at t, if present.
func (s *InstantSet) MinusTimestamp(t timespan.Timestamp) (*InstantSet, bool) {
	return s.filter(func(i Instant) bool { return i.T != t })
}

// complementWithinSpan returns the pieces of span not covered by p.
func complementWithinSpan(span, p timespan.Period) []timespan.Period {
	inter, ok := timespan.Intersect(span, p)
	if !ok {
		return []timespan.Period{span}
	}
	var out []timespan.Period
	if span.Lower < inter.Lower || (span.Lower == inter.Lower && span.LowerInc && !inter.LowerInc) {
		if left, err := timespan.NewPeriod(span.Lower, inter.Lower, span.LowerInc, !inter.LowerInc); err == nil {
			out = append(out, left)
		}
	}
	if span.Upper > inter.Upper || (span.Upper == inter.Upper && span.UpperInc && !inter.UpperInc) {
		if right, err := timespan.NewPeriod(inter.Upper, span.Upper, !inter.UpperInc, span.UpperInc); err == nil {
			out = append(out, right)
		}
	}
	return out
}

// AtPeriod restricts s to the portion falling within p, synthesizing
// interpolated endpoint values when p's bounds fall strictly inside a
// segment.
func (s *Sequence) AtPeriod(p timespan.Period) (*Sequence, bool) {
	inter, ok := timespan.Intersect(s.Span(), p)
	if !ok {
		return nil, false
	}
	var out []Instant
	for _, inst := range s.instants {
		if inst.T < inter.Lower || inst.T > inter.Upper {
			continue
		}
		if s.interp == Discrete && inst.T == inter.Lower && !inter.LowerInc {
			continue
		}
		if s.interp == Discrete && inst.T == inter.Upper && !inter.UpperInc {
			continue
		}
		out = append(out, inst)
	}
	if s.interp != Discrete {
		if len(out) == 0 || out[0].T != inter.Lower {
			if v, found, err := s.ValueAt(inter.Lower); err == nil && found {
				out = append([]Instant{{T: inter.Lower, V: v}}, out...)
			}
		}
		if len(out) == 0 || out[len(out)-1].T != inter.Upper {
			if v, found, err := s.ValueAt(inter.Upper); err == nil && found {
				out = append(out, Instant{T: inter.Upper, V: v})
			}
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	seq, err := NewSequence(out, inter.LowerInc, inter.UpperInc, s.interp, true)
	if err != nil {
		return nil, false
	}
	return seq, true
}

// AtPeriodSet restricts s to the portions falling within ps, one resulting
// sequence per non-empty period.
func (s *Sequence) AtPeriodSet(ps *timespan.PeriodSet) (*SequenceSet, bool) {
	var segs []*Sequence
	for _, p := range ps.Periods() {
		if seg, ok := s.AtPeriod(p); ok {
			segs = append(segs, seg)
		}
	}
	if len(segs) == 0 {
		return nil, false
	}
	out, err := NewSequenceSet(segs, true)
	if err != nil {
		return nil, false
	}
	return out, true
}

// AtTimestampSet evaluates s at each timestamp in ts that falls within its
// span, collecting the defined results.
func (s *Sequence) AtTimestampSet(ts *timespan.TimeSet) (*InstantSet, bool) {
	var insts []Instant
	for _, t := range ts.Timestamps() {
		if v, found, err := s.ValueAt(t); err == nil && found {
			insts = append(insts, Instant{T: t, V: v})
		}
	}
	if len(insts) == 0 {
		return nil, false
	}
	out, err := NewInstantSet(insts)
	if err != nil {
		return nil, false
	}
	return out, true
}

// AtTimestamp evaluates s at t, wrapping the result as an Instant.
func (s *Sequence) AtTimestamp(t timespan.Timestamp) (Instant, bool) {
	v, found, err := s.ValueAt(t)
	if err != nil || !found {
		return Instant{}, false
	}
	return Instant{T: t, V: v}, true
}

// MinusPeriod removes the portion of s falling within p, leaving zero, one
// or two remaining sequences.
func (s *Sequence) MinusPeriod(p timespan.Period) (*SequenceSet, bool) {
	var segs []*Sequence
	for _, cp := range complementWithinSpan(s.Span(), p) {
		if seg, ok := s.AtPeriod(cp); ok {
			segs = append(segs, seg)
		}
	}
	if len(segs) == 0 {
		return nil, false
	}
	out, err := NewSequenceSet(segs, false)
	if err != nil {
		return nil, false
	}
	return out, true
}

// MinusPeriodSet removes every period of ps from s.
func (s *Sequence) MinusPeriodSet(ps *timespan.PeriodSet) (*SequenceSet, bool) {
	remaining := []timespan.Period{s.Span()}
	for _, p := range ps.Periods() {
		var next []timespan.Period
		for _, r := range remaining {
			next = append(next, complementWithinSpan(r, p)...)
		}
		remaining = next
	}
	var segs []*Sequence
	for _, r := range remaining {
		if seg, ok := s.AtPeriod(r); ok {
			segs = append(segs, seg)
		}
	}
	if len(segs) == 0 {
		return nil, false
	}
	out, err := NewSequenceSet(segs, false)
	if err != nil {
		return nil, false
	}
	return out, true
}

// MinusTimestamp removes t from s's domain. If t is interior, the sequence
// splits into two half-open pieces around it; if t falls outside the span,
// s is returned unchanged.
func (s *Sequence) MinusTimestamp(t timespan.Timestamp) (*SequenceSet, bool) {
	if !s.Span().ContainsTimestamp(t) {
		seq, err := NewSequence(append([]Instant(nil), s.instants...), s.lowerInc, s.upperInc, s.interp, false)
		if err != nil {
			return nil, false
		}
		out, err := NewSequenceSet([]*Sequence{seq}, false)
		if err != nil {
			return nil, false
		}
		return out, true
	}
	pieces := []timespan.Period{
		{Lower: s.Span().Lower, Upper: t, LowerInc: s.lowerInc, UpperInc: false},
		{Lower: t, Upper: s.Span().Upper, LowerInc: false, UpperInc: s.upperInc},
	}
	var segs []*Sequence
	for _, p := range pieces {
		if p.Lower == p.Upper && !(p.LowerInc && p.UpperInc) {
			continue
		}
		if seg, ok := s.AtPeriod(p); ok {
			segs = append(segs, seg)
		}
	}
	if len(segs) == 0 {
		return nil, false
	}
	out, err := NewSequenceSet(segs, false)
	if err != nil {
		return nil, false
	}
	return out, true
}

// MinusTimestampSet removes every timestamp of ts from s's domain in turn.
func (s *Sequence) MinusTimestampSet(ts *timespan.TimeSet) (*SequenceSet, bool) {
	current := []*Sequence{s}
	for _, t := range ts.Timestamps() {
		var next []*Sequence
		for _, seq := range current {
			if res, ok := seq.MinusTimestamp(t); ok {
				next = append(next, res.Sequences()...)
			}
		}
		current = next
		if len(current) == 0 {
			return nil, false
		}
	}
	out, err := NewSequenceSet(current, false)
	if err != nil {
		return nil, false
	}
	return out, true
}

// AtPeriod restricts every member sequence to p, recombining the survivors.
func (ss *SequenceSet) AtPeriod(p timespan.Period) (*SequenceSet, bool) {
	var segs []*Sequence
	for _, seq := range ss.sequences {
		if seg, ok := seq.AtPeriod(p); ok {
			segs = append(segs, seg)
		}
	}
	if len(segs) == 0 {
		return nil, false
	}
	out, err := NewSequenceSet(segs, true)
	if err != nil {
		return nil, false
	}
	return out, true
}

// AtPeriodSet restricts every member sequence to every period of ps.
func (ss *SequenceSet) AtPeriodSet(ps *timespan.PeriodSet) (*SequenceSet, bool) {
	var segs []*Sequence
	for _, seq := range ss.sequences {
		for _, p := range ps.Periods() {
			if seg, ok := seq.AtPeriod(p); ok {
				segs = append(segs, seg)
			}
		}
	}
	if len(segs) == 0 {
		return nil, false
	}
	out, err := NewSequenceSet(segs, true)
	if err != nil {
		return nil, false
	}
	return out, true
}

// AtTimestamp evaluates the member sequence containing t, if any.
func (ss *SequenceSet) AtTimestamp(t timespan.Timestamp) (Instant, bool) {
	idx, ok := ss.findSequence(t)
	if !ok {
		return Instant{}, false
	}
	return ss.sequences[idx].AtTimestamp(t)
}

// AtTimestampSet evaluates ss at every timestamp of ts that falls within
// some member sequence.
func (ss *SequenceSet) AtTimestampSet(ts *timespan.TimeSet) (*InstantSet, bool) {
	var insts []Instant
	for _, t := range ts.Timestamps() {
		if inst, ok := ss.AtTimestamp(t); ok {
			insts = append(insts, inst)
		}
	}
	if len(insts) == 0 {
		return nil, false
	}
	out, err := NewInstantSet(insts)
	if err != nil {
		return nil, false
	}
	return out, true
}

// MinusPeriod removes p from every member sequence.
func (ss *SequenceSet) MinusPeriod(p timespan.Period) (*SequenceSet, bool) {
	var segs []*Sequence
	for _, seq := range ss.sequences {
		if res, ok := seq.MinusPeriod(p); ok {
			segs = append(segs, res.Sequences()...)
		}
	}
	if len(segs) == 0 {
		return nil, false
	}
	out, err := NewSequenceSet(segs, false)
	if err != nil {
		return nil, false
	}
	return out, true
}

// MinusPeriodSet removes every period of ps from every member sequence.
func (ss *SequenceSet) MinusPeriodSet(ps *timespan.PeriodSet) (*SequenceSet, bool) {
	current := ss.sequences
	for _, p := range ps.Periods() {
		var next []*Sequence
		for _, seq := range current {
			if res, ok := seq.MinusPeriod(p); ok {
				next = append(next, res.Sequences()...)
			}
		}
		current = next
		if len(current) == 0 {
			return nil, false
		}
	}
	out, err := NewSequenceSet(current, false)
	if err != nil {
		return nil, false
	}
	return out, true
}

// MinusTimestamp removes t from every member sequence.
func (ss *SequenceSet) MinusTimestamp(t timespan.Timestamp) (*SequenceSet, bool) {
	var segs []*Sequence
	for _, seq := range ss.sequences {
		if res, ok := seq.MinusTimestamp(t); ok {
			segs = append(segs, res.Sequences()...)
		}
	}
	if len(segs) == 0 {
		return nil, false
	}
	out, err := NewSequenceSet(segs, false)
	if err != nil {
		return nil, false
	}
	return out, true
}

// MinusTimestampSet removes every timestamp of ts from every member
// sequence.
func (ss *SequenceSet) MinusTimestampSet(ts *timespan.TimeSet) (*SequenceSet, bool) {
	current := ss.sequences
	for _, t := range ts.Timestamps() {
		var next []*Sequence
		for _, seq := range current {
			if res, ok := seq.MinusTimestamp(t); ok {
				next = append(next, res.Sequences()...)
			}
		}
		current = next
		if len(current) == 0 {
			return nil, false
		}
	}
	out, err := NewSequenceSet(current, false)
	if err != nil {
		return nil, false
	}
	return out, true
}
