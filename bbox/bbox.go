// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package bbox implements the uniform bounding-box type carried on every
// temporal value for fast filtering: a tagged union of a time-only period,
// a numeric span plus period, or a spatial extent plus period.
//
// It generalizes biopb.CoordRange (grailbio/bio's genomic coordinate range,
// with its Compare/Intersects/Contains methods) from a single reference-id
// axis to time, plus an optional numeric or spatial axis.
package bbox

import (
	"github.com/tempodb/temporal/errors"
	"github.com/tempodb/temporal/timespan"
)

// Kind identifies which shape a Box carries.
type Kind int

const (
	// Period is a time-only bounding box.
	Period Kind = iota
	// Numeric is a numeric span plus a period.
	Numeric
	// Spatio is a spatial extent plus a period.
	Spatio
)

// Box is a tagged union of PeriodBox, NumericBox and SpatioBox, switched on
// Kind. Zero value is an empty PeriodBox.
type Box struct {
	Kind   Kind
	Period timespan.Period

	// Numeric fields, valid when Kind == Numeric.
	VLo, VHi float64

	// Spatial fields, valid when Kind == Spatio.
	X0, X1, Y0, Y1 float64
	HasZ           bool
	Z0, Z1         float64
	IsGeodetic     bool
	HasSRID        bool
	SRID           int32
}

// NewPeriodBox builds a time-only bounding box.
func NewPeriodBox(p timespan.Period) Box {
	return Box{Kind: Period, Period: p}
}

// NewNumericBox builds a numeric-span-plus-period bounding box. vlo must be
// <= vhi.
func NewNumericBox(vlo, vhi float64, p timespan.Period) (Box, error) {
	if vlo > vhi {
		return Box{}, errors.E("numeric_box_make", errors.InvalidInput,
			errors.Detailf("vlo %v > vhi %v", vlo, vhi))
	}
	return Box{Kind: Numeric, VLo: vlo, VHi: vhi, Period: p}, nil
}

// SpatioOpts configures NewSpatioBox.
type SpatioOpts struct {
	X0, X1, Y0, Y1 float64
	HasZ           bool
	Z0, Z1         float64
	IsGeodetic     bool
	HasSRID        bool
	SRID           int32
}

// NewSpatioBox builds a spatial-extent-plus-period bounding box.
func NewSpatioBox(o SpatioOpts, p timespan.Period) Box {
	return Box{
		Kind: Spatio, Period: p,
		X0: o.X0, X1: o.X1, Y0: o.Y0, Y1: o.Y1,
		HasZ: o.HasZ, Z0: o.Z0, Z1: o.Z1,
		IsGeodetic: o.IsGeodetic, HasSRID: o.HasSRID, SRID: o.SRID,
	}
}

func checkSRID(a, b Box) error {
	if a.Kind != Spatio || b.Kind != Spatio {
		return nil
	}
	if a.HasSRID && b.HasSRID && a.SRID != b.SRID {
		return errors.E("bbox", errors.SridMismatch,
			errors.Detailf("%d != %d", a.SRID, b.SRID))
	}
	return nil
}

// Intersects reports whether a and b overlap in every axis they both carry.
// Mixing different SRIDs on two Spatio boxes is an error; the caller is
// expected to have projected geodetic boxes into a common frame already.
func Intersects(a, b Box) (bool, error) {
	if a.Kind != b.Kind {
		return false, errors.E("bbox_intersects", errors.Unsupported,
			errors.Detailf("kind mismatch %d vs %d", a.Kind, b.Kind))
	}
	if err := checkSRID(a, b); err != nil {
		return false, err
	}
	if !a.Period.Overlaps(b.Period) {
		return false, nil
	}
	switch a.Kind {
	case Period:
		return true, nil
	case Numeric:
		return a.VLo <= b.VHi && b.VLo <= a.VHi, nil
	case Spatio:
		if a.X0 > b.X1 || b.X0 > a.X1 || a.Y0 > b.Y1 || b.Y0 > a.Y1 {
			return false, nil
		}
		if a.HasZ && b.HasZ && (a.Z0 > b.Z1 || b.Z0 > a.Z1) {
			return false, nil
		}
		return true, nil
	default:
		return false, errors.E("bbox_intersects", errors.Unsupported, "unknown kind")
	}
}

// Contains reports whether b lies entirely within a.
func Contains(a, b Box) (bool, error) {
	if a.Kind != b.Kind {
		return false, errors.E("bbox_contains", errors.Unsupported,
			errors.Detailf("kind mismatch %d vs %d", a.Kind, b.Kind))
	}
	if err := checkSRID(a, b); err != nil {
		return false, err
	}
	if !a.Period.ContainsPeriod(b.Period) {
		return false, nil
	}
	switch a.Kind {
	case Period:
		return true, nil
	case Numeric:
		return a.VLo <= b.VLo && b.VHi <= a.VHi, nil
	case Spatio:
		if a.X0 > b.X0 || b.X1 > a.X1 || a.Y0 > b.Y0 || b.Y1 > a.Y1 {
			return false, nil
		}
		if b.HasZ {
			if !a.HasZ || a.Z0 > b.Z0 || b.Z1 > a.Z1 {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, errors.E("bbox_contains", errors.Unsupported, "unknown kind")
	}
}

// Expand returns the smallest box of the same kind enclosing both a and b.
func Expand(a, b Box) (Box, error) {
	if a.Kind != b.Kind {
		return Box{}, errors.E("bbox_expand", errors.Unsupported,
			errors.Detailf("kind mismatch %d vs %d", a.Kind, b.Kind))
	}
	if err := checkSRID(a, b); err != nil {
		return Box{}, err
	}
	merged := Union(a.Period, b.Period)
	out := Box{Kind: a.Kind, Period: merged}
	switch a.Kind {
	case Numeric:
		out.VLo, out.VHi = min(a.VLo, b.VLo), max(a.VHi, b.VHi)
	case Spatio:
		out.X0, out.X1 = min(a.X0, b.X0), max(a.X1, b.X1)
		out.Y0, out.Y1 = min(a.Y0, b.Y0), max(a.Y1, b.Y1)
		out.HasZ = a.HasZ && b.HasZ
		if out.HasZ {
			out.Z0, out.Z1 = min(a.Z0, b.Z0), max(a.Z1, b.Z1)
		}
		out.IsGeodetic = a.IsGeodetic
		out.HasSRID = a.HasSRID || b.HasSRID
		if a.HasSRID {
			out.SRID = a.SRID
		} else {
			out.SRID = b.SRID
		}
	}
	return out, nil
}

// Union returns the smallest period spanning both a and b, inclusive of any
// gap between them (unlike timespan.Union, which refuses to merge
// non-adjacent periods into one span).
func Union(a, b timespan.Period) timespan.Period {
	lower, lowerInc := a.Lower, a.LowerInc
	if b.Lower < a.Lower || (b.Lower == a.Lower && b.LowerInc) {
		lower, lowerInc = b.Lower, b.LowerInc
	}
	upper, upperInc := a.Upper, a.UpperInc
	if b.Upper > a.Upper || (b.Upper == a.Upper && b.UpperInc) {
		upper, upperInc = b.Upper, b.UpperInc
	}
	return timespan.Period{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}
}
