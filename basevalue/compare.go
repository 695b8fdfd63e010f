// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package basevalue

import "github.com/tempodb/temporal/errors"

// typeMismatch is returned by a comparison or arithmetic op when both
// operands' scalar Go representation must agree (int vs float coercion is
// handled one level up, by the ops/lift 4-ary variant).
func typeMismatch(op string, a, b Type) error {
	return errors.E(op, errors.Unsupported, errors.Detailf("%v vs %v", a, b))
}

func cmp(a, b Value) (int, error) {
	if a.Type != b.Type {
		return 0, typeMismatch("compare", a.Type, b.Type)
	}
	switch a.Type {
	case Bool:
		if a.B == b.B {
			return 0, nil
		}
		if !a.B && b.B {
			return -1, nil
		}
		return 1, nil
	case Int:
		switch {
		case a.I < b.I:
			return -1, nil
		case a.I > b.I:
			return 1, nil
		default:
			return 0, nil
		}
	case Float:
		switch {
		case a.F < b.F:
			return -1, nil
		case a.F > b.F:
			return 1, nil
		default:
			return 0, nil
		}
	case Text:
		switch {
		case a.S < b.S:
			return -1, nil
		case a.S > b.S:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, errors.E("compare", errors.Unsupported,
			errors.Detailf("type %v has no total order", a.Type))
	}
}

// Eq reports whether a equals b. Unlike Lt/Le/Gt/Ge, Eq and Ne are defined
// for point types too (component-wise equality), since the crossing
// machinery in lift needs to detect "same point" for comparisons lifted
// over point temporal values.
func Eq(a, b Value) (bool, error) {
	if a.Type != b.Type {
		return false, typeMismatch("eq", a.Type, b.Type)
	}
	switch a.Type {
	case Point2D:
		return a.Pt.X == b.Pt.X && a.Pt.Y == b.Pt.Y, nil
	case Point3D, GeogPoint:
		return a.Pt.X == b.Pt.X && a.Pt.Y == b.Pt.Y && a.Pt.Z == b.Pt.Z, nil
	default:
		c, err := cmp(a, b)
		if err != nil {
			return false, err
		}
		return c == 0, nil
	}
}

// Ne is the negation of Eq.
func Ne(a, b Value) (bool, error) {
	eq, err := Eq(a, b)
	return !eq, err
}

// Lt reports whether a < b.
func Lt(a, b Value) (bool, error) {
	c, err := cmp(a, b)
	return c < 0, err
}

// Le reports whether a <= b.
func Le(a, b Value) (bool, error) {
	c, err := cmp(a, b)
	return c <= 0, err
}

// Gt reports whether a > b.
func Gt(a, b Value) (bool, error) {
	c, err := cmp(a, b)
	return c > 0, err
}

// Ge reports whether a >= b.
func Ge(a, b Value) (bool, error) {
	c, err := cmp(a, b)
	return c >= 0, err
}
