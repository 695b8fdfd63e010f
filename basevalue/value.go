// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package basevalue implements order, equality and arithmetic over the base
// types a temporal value can carry: bool, int, float, text, and 2D/3D/
// geographic points. It is the leaf component everything else (timespan,
// tempval, lift, serial) is built on.
//
// The per-type dispatch follows the shape of grailbio/bio's biosimd
// package (one function family per base type, selected by a type tag) and
// util/distance.go (the teacher's one numeric-helper file, whose
// Euclidean-distance shape this package's point helpers reuse for
// crossing/turning-point math).
package basevalue

import (
	"math"

	"github.com/tempodb/temporal/errors"
)

// Type tags the base type a Value carries.
type Type int

const (
	Bool Type = iota
	Int
	Float
	Text
	Point2D
	Point3D
	GeogPoint
)

func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Text:
		return "text"
	case Point2D:
		return "point2d"
	case Point3D:
		return "point3d"
	case GeogPoint:
		return "geogpoint"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether t supports Linear interpolation directly on
// its scalar value (Point types interpolate component-wise and are handled
// separately by tempval).
func (t Type) IsNumeric() bool { return t == Int || t == Float }

// SupportsLinear reports whether Linear interpolation is defined for t, per
// §3's invariant that Linear is rejected for bool and text.
func (t Type) SupportsLinear() bool {
	return t == Int || t == Float || t == Point2D || t == Point3D || t == GeogPoint
}

// XYZ is the component shape shared by Point2D/Point3D/GeogPoint; Z and the
// geographic flag are only meaningful for the matching Type.
type XYZ struct {
	X, Y, Z float64
	HasZ    bool
}

// Value is a tagged union over the supported base types. Exactly the field
// matching Type is meaningful.
type Value struct {
	Type Type
	B    bool
	I    int64
	F    float64
	S    string
	Pt   XYZ
}

func NewBool(b bool) Value     { return Value{Type: Bool, B: b} }
func NewInt(i int64) Value     { return Value{Type: Int, I: i} }
func NewFloat(f float64) Value { return Value{Type: Float, F: f} }
func NewText(s string) Value   { return Value{Type: Text, S: s} }

// NewPoint2D builds a Point2D value.
func NewPoint2D(x, y float64) Value {
	return Value{Type: Point2D, Pt: XYZ{X: x, Y: y}}
}

// NewPoint3D builds a Point3D value.
func NewPoint3D(x, y, z float64) Value {
	return Value{Type: Point3D, Pt: XYZ{X: x, Y: y, Z: z, HasZ: true}}
}

// NewGeogPoint builds a geographic Point value (longitude, latitude).
func NewGeogPoint(lon, lat float64) Value {
	return Value{Type: GeogPoint, Pt: XYZ{X: lon, Y: lat}}
}

// AsFloat returns v's scalar value as a float64, for the numeric types.
func (v Value) AsFloat() (float64, error) {
	switch v.Type {
	case Int:
		return float64(v.I), nil
	case Float:
		return v.F, nil
	default:
		return 0, errors.E("as_float", errors.Unsupported,
			errors.Detailf("type %v is not numeric", v.Type))
	}
}
