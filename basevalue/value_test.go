// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package basevalue_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/timespan"
)

func TestCompareOps(t *testing.T) {
	a, b := basevalue.NewInt(3), basevalue.NewInt(5)
	lt, err := basevalue.Lt(a, b)
	require.NoError(t, err)
	require.True(t, lt)

	eq, err := basevalue.Eq(a, a)
	require.NoError(t, err)
	require.True(t, eq)

	_, err = basevalue.Lt(basevalue.NewInt(1), basevalue.NewText("x"))
	require.Error(t, err)
}

func TestArithOverflow(t *testing.T) {
	_, err := basevalue.Add(basevalue.NewInt(math.MaxInt64), basevalue.NewInt(1))
	require.Error(t, err)

	v, err := basevalue.Add(basevalue.NewInt(2), basevalue.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, int64(5), v.I)
}

func TestDivisionByZero(t *testing.T) {
	_, err := basevalue.Div(basevalue.NewFloat(1), basevalue.NewFloat(0))
	require.Error(t, err)

	_, err = basevalue.Div(basevalue.NewInt(1), basevalue.NewInt(0))
	require.Error(t, err)
}

func TestProductTurningPoint(t *testing.T) {
	// A = [(0,-1.0),(10,1.0)], B = [(0,1.0),(10,-1.0)]: extremum at t=5.
	tp, ok := basevalue.ProductTurningPoint(-1.0, 1.0, 1.0, -1.0, 0, 10)
	require.True(t, ok)
	require.Equal(t, timespan.Timestamp(5), tp)
}

func TestLinearCrossing(t *testing.T) {
	// a(t) = -1 + 0.4t, b(t) = 0 constant over [0,10]; root at t=2.5.
	tp, ok := basevalue.LinearCrossing(-1.0, 3.0, 0.0, 0.0, 0, 10)
	require.True(t, ok)
	require.Equal(t, timespan.Timestamp(3), tp, "rounds 2.5 to nearest microsecond tick")
}

func TestDivisorZeroCrossing(t *testing.T) {
	tp, ok := basevalue.DivisorZeroCrossing(-2.0, 2.0, 0, 4)
	require.True(t, ok)
	require.Equal(t, timespan.Timestamp(2), tp)

	_, ok = basevalue.DivisorZeroCrossing(1.0, 2.0, 0, 4)
	require.False(t, ok, "same sign throughout: no crossing")
}
