// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package basevalue

import (
	"math"

	"github.com/tempodb/temporal/errors"
)

func numericPair(op string, a, b Value) (Type, error) {
	if a.Type != b.Type {
		return 0, typeMismatch(op, a.Type, b.Type)
	}
	if !a.Type.IsNumeric() {
		return 0, errors.E(op, errors.Unsupported,
			errors.Detailf("type %v does not support arithmetic", a.Type))
	}
	return a.Type, nil
}

// Add returns a+b for numeric types, detecting int64 overflow.
func Add(a, b Value) (Value, error) {
	t, err := numericPair("add", a, b)
	if err != nil {
		return Value{}, err
	}
	if t == Int {
		sum := a.I + b.I
		if (b.I > 0 && sum < a.I) || (b.I < 0 && sum > a.I) {
			return Value{}, errors.E("add", errors.Overflow, errors.Detailf("%d + %d", a.I, b.I))
		}
		return NewInt(sum), nil
	}
	return NewFloat(a.F + b.F), nil
}

// Sub returns a-b for numeric types, detecting int64 overflow.
func Sub(a, b Value) (Value, error) {
	t, err := numericPair("sub", a, b)
	if err != nil {
		return Value{}, err
	}
	if t == Int {
		diff := a.I - b.I
		if (b.I < 0 && diff < a.I) || (b.I > 0 && diff > a.I) {
			return Value{}, errors.E("sub", errors.Overflow, errors.Detailf("%d - %d", a.I, b.I))
		}
		return NewInt(diff), nil
	}
	return NewFloat(a.F - b.F), nil
}

// Mul returns a*b for numeric types, detecting int64 overflow.
func Mul(a, b Value) (Value, error) {
	t, err := numericPair("mul", a, b)
	if err != nil {
		return Value{}, err
	}
	if t == Int {
		if a.I == 0 || b.I == 0 {
			return NewInt(0), nil
		}
		prod := a.I * b.I
		if prod/b.I != a.I {
			return Value{}, errors.E("mul", errors.Overflow, errors.Detailf("%d * %d", a.I, b.I))
		}
		return NewInt(prod), nil
	}
	return NewFloat(a.F * b.F), nil
}

// Div returns a/b for numeric types, reporting DivisionByZero when b is
// zero rather than producing +/-Inf or NaN.
func Div(a, b Value) (Value, error) {
	t, err := numericPair("div", a, b)
	if err != nil {
		return Value{}, err
	}
	if t == Int {
		if b.I == 0 {
			return Value{}, errors.E("div", errors.DivisionByZero, "")
		}
		if a.I == math.MinInt64 && b.I == -1 {
			return Value{}, errors.E("div", errors.Overflow, errors.Detailf("%d / %d", a.I, b.I))
		}
		return NewInt(a.I / b.I), nil
	}
	if b.F == 0 {
		return Value{}, errors.E("div", errors.DivisionByZero, "")
	}
	return NewFloat(a.F / b.F), nil
}
