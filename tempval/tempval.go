// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package tempval implements the temporal value model: a base value bound
// to timestamps, represented as one of four variants (Instant, InstantSet,
// Sequence, SequenceSet) under one of three interpolations (Discrete,
// Stepwise, Linear).
//
// The write-then-freeze shape (a builder fills a slice, then normalizes
// and hands ownership to an immutable value) is grounded on
// grailbio/bio's encoding/pam package: pamwriter.go buffers field values
// and only a completed Writer.Close() produces a readable shard, and
// pileup/snp/row.go accumulates per-position observations into a row that
// is only exposed once finished.
package tempval

import (
	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/bbox"
	"github.com/tempodb/temporal/errors"
	"github.com/tempodb/temporal/timespan"
)

// Interpolation is the rule relating values between adjacent samples.
type Interpolation int

const (
	// Discrete: the value is defined only at the listed instants.
	Discrete Interpolation = iota
	// Stepwise: the value is constant between instants, changing on the
	// right (at the next instant's timestamp).
	Stepwise
	// Linear: the value is linearly interpolated between instants. Only
	// defined for numeric and point base types.
	Linear
)

func (i Interpolation) String() string {
	switch i {
	case Discrete:
		return "Discrete"
	case Stepwise:
		return "Stepwise"
	case Linear:
		return "Linear"
	default:
		return "Unknown"
	}
}

// VariantKind identifies which of the four representations a Temporal is.
type VariantKind int

const (
	InstantVariant VariantKind = iota
	InstantSetVariant
	SequenceVariant
	SequenceSetVariant
)

// Temporal is implemented by Instant, *InstantSet, *Sequence and
// *SequenceSet: a function from time to base value, over some time domain.
type Temporal interface {
	// BaseType is the underlying data type every sample carries.
	BaseType() basevalue.Type
	// Interpolation is the constant interpolation rule of this value.
	Interpolation() Interpolation
	// Variant identifies the concrete representation.
	Variant() VariantKind
	// BBox is the precomputed bounding box, consistent with the samples.
	BBox() bbox.Box
	// Span is the overall period covered by the value's time domain.
	Span() timespan.Period
	// ValueAt evaluates the temporal function at t, per §4.D's
	// value_at_timestamp contract.
	ValueAt(t timespan.Timestamp) (basevalue.Value, bool, error)
}

func validateLinear(baseType basevalue.Type, interp Interpolation) error {
	if interp == Linear && !baseType.SupportsLinear() {
		return errors.E("tempval", errors.InvalidInterpolation,
			errors.Detailf("Linear interpolation is undefined for %v", baseType))
	}
	return nil
}

// isPointType reports whether t is one of the point base types, the one
// family §4.C's SpatioBox exists for.
func isPointType(t basevalue.Type) bool {
	return t == basevalue.Point2D || t == basevalue.Point3D || t == basevalue.GeogPoint
}

// spatioBox builds a SpatioBox spanning span from the x/y(/z) extent of
// vs, a non-empty slice of same-typed point values. Geodetic flagging
// follows the value's own type; SRID is left unset here since basevalue
// carries no SRID of its own (§6: the library assumes the caller resolves
// SRID mismatches before lifting, i.e. before any of these values exist).
func spatioBox(span timespan.Period, vs []basevalue.Value) bbox.Box {
	first := vs[0]
	x0, x1 := first.Pt.X, first.Pt.X
	y0, y1 := first.Pt.Y, first.Pt.Y
	hasZ := first.Pt.HasZ
	z0, z1 := first.Pt.Z, first.Pt.Z
	for _, v := range vs[1:] {
		if v.Pt.X < x0 {
			x0 = v.Pt.X
		}
		if v.Pt.X > x1 {
			x1 = v.Pt.X
		}
		if v.Pt.Y < y0 {
			y0 = v.Pt.Y
		}
		if v.Pt.Y > y1 {
			y1 = v.Pt.Y
		}
		if hasZ && v.Pt.HasZ {
			if v.Pt.Z < z0 {
				z0 = v.Pt.Z
			}
			if v.Pt.Z > z1 {
				z1 = v.Pt.Z
			}
		}
	}
	return bbox.NewSpatioBox(bbox.SpatioOpts{
		X0: x0, X1: x1, Y0: y0, Y1: y1,
		HasZ:       hasZ,
		Z0:         z0,
		Z1:         z1,
		IsGeodetic: first.Type == basevalue.GeogPoint,
	}, span)
}
