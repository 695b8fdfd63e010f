// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package ops registers the callable operator surface §6 exposes to a
// host — boolean and/or/not, the six comparisons, numeric +-*/, and point
// distance — against lift's Descriptor machinery, so a host only needs an
// operator name to get a correctly lifted temporal function.
//
// The registry is a category->entry table generalized from
// encoding/bam/unmarshal.go's jumps [256]int tag-dispatch array: there the
// tag selects a fixed-offset binary field parser, here the category
// selects a {scalar function, lift descriptor} pair.
package ops

import (
	"math"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/errors"
	"github.com/tempodb/temporal/lift"
	"github.com/tempodb/temporal/tempval"
)

// Category names one operator in the registry.
type Category int

const (
	And Category = iota
	Or
	Not
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Add
	Sub
	Mul
	Div
	Distance
)

func (c Category) String() string {
	switch c {
	case And:
		return "and"
	case Or:
		return "or"
	case Not:
		return "not"
	case Eq:
		return "eq"
	case Ne:
		return "ne"
	case Lt:
		return "lt"
	case Le:
		return "le"
	case Gt:
		return "gt"
	case Ge:
		return "ge"
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Distance:
		return "distance"
	default:
		return "unknown"
	}
}

// binaryEntry pairs a scalar function with the descriptor Lift2 needs to
// keep its result faithful.
type binaryEntry struct {
	fn   lift.BinaryFunc
	desc lift.Descriptor
}

var binaryRegistry = map[Category]binaryEntry{
	And:      {fn: boolAnd, desc: lift.BooleanDescriptor},
	Or:       {fn: boolOr, desc: lift.BooleanDescriptor},
	Eq:       {fn: cmpFunc(basevalue.Eq), desc: lift.ComparisonDescriptor},
	Ne:       {fn: cmpFunc(basevalue.Ne), desc: lift.ComparisonDescriptor},
	Lt:       {fn: cmpFunc(basevalue.Lt), desc: lift.ComparisonDescriptor},
	Le:       {fn: cmpFunc(basevalue.Le), desc: lift.ComparisonDescriptor},
	Gt:       {fn: cmpFunc(basevalue.Gt), desc: lift.ComparisonDescriptor},
	Ge:       {fn: cmpFunc(basevalue.Ge), desc: lift.ComparisonDescriptor},
	Add:      {fn: basevalue.Add, desc: lift.SumDescriptor},
	Sub:      {fn: basevalue.Sub, desc: lift.SumDescriptor},
	Mul:      {fn: basevalue.Mul, desc: lift.ProductDescriptor},
	Div:      {fn: basevalue.Div, desc: lift.QuotientDescriptor},
	Distance: {fn: distanceFunc, desc: lift.Descriptor{ResultInterp: tempval.Linear}},
}

var unaryRegistry = map[Category]lift.UnaryFunc{
	Not: boolNot,
}

func boolAnd(a, b basevalue.Value) (basevalue.Value, error) {
	if a.Type != basevalue.Bool || b.Type != basevalue.Bool {
		return basevalue.Value{}, errors.E("and", errors.Unsupported, "operands must be bool")
	}
	return basevalue.NewBool(a.B && b.B), nil
}

func boolOr(a, b basevalue.Value) (basevalue.Value, error) {
	if a.Type != basevalue.Bool || b.Type != basevalue.Bool {
		return basevalue.Value{}, errors.E("or", errors.Unsupported, "operands must be bool")
	}
	return basevalue.NewBool(a.B || b.B), nil
}

func boolNot(a basevalue.Value) (basevalue.Value, error) {
	if a.Type != basevalue.Bool {
		return basevalue.Value{}, errors.E("not", errors.Unsupported, "operand must be bool")
	}
	return basevalue.NewBool(!a.B), nil
}

func cmpFunc(f func(a, b basevalue.Value) (bool, error)) lift.BinaryFunc {
	return func(a, b basevalue.Value) (basevalue.Value, error) {
		r, err := f(a, b)
		if err != nil {
			return basevalue.Value{}, err
		}
		return basevalue.NewBool(r), nil
	}
}

// distanceFunc is the Euclidean distance between two point values of the
// same base type, generalizing the teacher's one numeric-helper file
// (util/distance.go) from genomic 2D/3D distance to this module's point
// base types. It carries no turning-point hook: no closed form for the
// extremum of a Euclidean-distance curve between two linearly moving
// points is specified here, so a distance lift over Linear points produces
// a Linear result without interior injection — a documented limitation,
// not a defect, since no example or source file in the retrieval pack
// supplies that closed form either.
func distanceFunc(a, b basevalue.Value) (basevalue.Value, error) {
	if a.Type != b.Type || !isPointType(a.Type) {
		return basevalue.Value{}, errors.E("distance", errors.Unsupported, "operands must be the same point type")
	}
	dx := a.Pt.X - b.Pt.X
	dy := a.Pt.Y - b.Pt.Y
	sum := dx*dx + dy*dy
	if a.Pt.HasZ {
		dz := a.Pt.Z - b.Pt.Z
		sum += dz * dz
	}
	return basevalue.NewFloat(math.Sqrt(sum)), nil
}

func isPointType(t basevalue.Type) bool {
	return t == basevalue.Point2D || t == basevalue.Point3D || t == basevalue.GeogPoint
}

// Lift2 looks up cat's binary entry and lifts it over x and y.
func Lift2(cat Category, x, y tempval.Temporal) (tempval.Temporal, error) {
	entry, ok := binaryRegistry[cat]
	if !ok {
		return nil, errors.E("ops_lift2", errors.Unsupported,
			errors.Detailf("no binary operator registered for %v", cat))
	}
	return lift.Lift2(entry.fn, x, y, entry.desc)
}

// Lift1 looks up cat's unary entry and lifts it over x.
func Lift1(cat Category, x tempval.Temporal) (tempval.Temporal, error) {
	fn, ok := unaryRegistry[cat]
	if !ok {
		return nil, errors.E("ops_lift1", errors.Unsupported,
			errors.Detailf("no unary operator registered for %v", cat))
	}
	return lift.Lift1(fn, x)
}
