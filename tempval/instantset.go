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

// InstantSet is a finite set of observations: an ordered array of Instants
// with strictly increasing timestamps and a uniform base type.
type InstantSet struct {
	baseType basevalue.Type
	instants []Instant
	box      bbox.Box
}

// NewInstantSet builds an InstantSet, requiring strictly increasing
// timestamps and identical base types across instants.
func NewInstantSet(instants []Instant) (*InstantSet, error) {
	if len(instants) == 0 {
		return nil, errors.E("instantset_make", errors.InvalidInput, "no instants given")
	}
	baseType := instants[0].V.Type
	for idx, inst := range instants {
		if inst.V.Type != baseType {
			return nil, errors.E("instantset_make", errors.InvalidInput,
				errors.Detailf("instant %d has type %v, want %v", idx, inst.V.Type, baseType))
		}
		if idx > 0 && instants[idx-1].T >= inst.T {
			return nil, errors.E("instantset_make", errors.InvalidInput,
				errors.Detailf("timestamps not strictly increasing at index %d", idx))
		}
	}
	cp := append([]Instant(nil), instants...)
	box, err := instantSetBBox(cp)
	if err != nil {
		return nil, err
	}
	return &InstantSet{baseType: baseType, instants: cp, box: box}, nil
}

func instantSetBBox(instants []Instant) (bbox.Box, error) {
	span := timespan.MustNewPeriod(instants[0].T, instants[len(instants)-1].T, true, true)
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
	lo, hi := instants[0].V, instants[0].V
	for _, inst := range instants[1:] {
		lof, _ := lo.AsFloat()
		hif, _ := hi.AsFloat()
		vf, _ := inst.V.AsFloat()
		if vf < lof {
			lo = inst.V
		}
		if vf > hif {
			hi = inst.V
		}
	}
	lof, _ := lo.AsFloat()
	hif, _ := hi.AsFloat()
	return bbox.NewNumericBox(lof, hif, span)
}

func (s *InstantSet) BaseType() basevalue.Type    { return s.baseType }
func (s *InstantSet) Interpolation() Interpolation { return Discrete }
func (s *InstantSet) Variant() VariantKind         { return InstantSetVariant }
func (s *InstantSet) BBox() bbox.Box               { return s.box }
func (s *InstantSet) Span() timespan.Period {
	return timespan.MustNewPeriod(s.instants[0].T, s.instants[len(s.instants)-1].T, true, true)
}

// Instants returns the set's members in order. The slice must not be
// mutated.
func (s *InstantSet) Instants() []Instant { return s.instants }

// Len returns the number of instants.
func (s *InstantSet) Len() int { return len(s.instants) }

// search returns the index of t in s.instants, or where it would be
// inserted.
func (s *InstantSet) search(t timespan.Timestamp) (pos int, found bool) {
	n := len(s.instants)
	pos = sort.Search(n, func(i int) bool { return s.instants[i].T >= t })
	if pos < n && s.instants[pos].T == t {
		return pos, true
	}
	return pos, false
}

// ValueAt returns the value at t if t is exactly one of the set's
// timestamps, else (zero, false, nil): an InstantSet is Discrete, so only
// exact-timestamp hits are defined.
func (s *InstantSet) ValueAt(t timespan.Timestamp) (basevalue.Value, bool, error) {
	pos, found := s.search(t)
	if !found {
		return basevalue.Value{}, false, nil
	}
	return s.instants[pos].V, true, nil
}
