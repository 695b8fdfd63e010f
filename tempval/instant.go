// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tempval

import (
	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/bbox"
	"github.com/tempodb/temporal/timespan"
)

// Instant is a temporal value defined only at a single timestamp.
type Instant struct {
	T timespan.Timestamp
	V basevalue.Value
}

// NewInstant builds an Instant. Discrete is the only interpolation that
// makes sense for a single observation, but Instant carries whatever
// interpolation its eventual container (InstantSet/Sequence) assigns; on
// its own it reports Discrete.
func NewInstant(t timespan.Timestamp, v basevalue.Value) Instant {
	return Instant{T: t, V: v}
}

func (i Instant) BaseType() basevalue.Type    { return i.V.Type }
func (i Instant) Interpolation() Interpolation { return Discrete }
func (i Instant) Variant() VariantKind         { return InstantVariant }
func (i Instant) Span() timespan.Period        { return timespan.MustNewPeriod(i.T, i.T, true, true) }

// BBox builds the instant's bounding box: a SpatioBox for point base
// types, a NumericBox for numeric ones, else a time-only PeriodBox.
func (i Instant) BBox() bbox.Box {
	span := i.Span()
	switch {
	case isPointType(i.V.Type):
		return spatioBox(span, []basevalue.Value{i.V})
	case i.V.Type.IsNumeric():
		v, _ := i.V.AsFloat()
		box, _ := bbox.NewNumericBox(v, v, span)
		return box
	default:
		return bbox.NewPeriodBox(span)
	}
}

// ValueAt returns i.V when t == i.T, else (zero, false, nil).
func (i Instant) ValueAt(t timespan.Timestamp) (basevalue.Value, bool, error) {
	if t == i.T {
		return i.V, true, nil
	}
	return basevalue.Value{}, false, nil
}
