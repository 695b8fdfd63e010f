// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

func ts(sec int64) timespan.Timestamp {
	return timespan.FromTime(time.Unix(sec, 0).UTC())
}

func boolAnd(a, b basevalue.Value) (basevalue.Value, error) {
	return basevalue.NewBool(a.B && b.B), nil
}

func lt(a, b basevalue.Value) (basevalue.Value, error) {
	r, err := basevalue.Lt(a, b)
	if err != nil {
		return basevalue.Value{}, err
	}
	return basevalue.NewBool(r), nil
}

// TestLift2BooleanAndInstantSet covers §8 scenario 2: only common
// timestamps survive a Discrete/Discrete (and) lift.
func TestLift2BooleanAndInstantSet(t *testing.T) {
	t1, t2, t3, t4 := ts(1), ts(2), ts(3), ts(4)
	a, err := tempval.NewInstantSet([]tempval.Instant{
		{T: t1, V: basevalue.NewBool(true)},
		{T: t2, V: basevalue.NewBool(false)},
		{T: t3, V: basevalue.NewBool(true)},
	})
	require.NoError(t, err)
	b, err := tempval.NewInstantSet([]tempval.Instant{
		{T: t1, V: basevalue.NewBool(true)},
		{T: t3, V: basevalue.NewBool(false)},
		{T: t4, V: basevalue.NewBool(true)},
	})
	require.NoError(t, err)

	result, err := Lift2(boolAnd, a, b, BooleanDescriptor)
	require.NoError(t, err)
	set, ok := result.(*tempval.InstantSet)
	require.True(t, ok)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, t1, set.Instants()[0].T)
	assert.Equal(t, true, set.Instants()[0].V.B)
	assert.Equal(t, t3, set.Instants()[1].T)
	assert.Equal(t, false, set.Instants()[1].V.B)
}

// TestLift2ComparisonCrossing covers §8 scenario 3: lift2(lt, A, B)
// produces two Stepwise pieces split at the crossing, with the crossing
// instant excluded from both (exclusive upper on the left, exclusive lower
// on the right) rather than a separate singleton sequence.
func TestLift2ComparisonCrossing(t *testing.T) {
	a, err := tempval.NewSequence([]tempval.Instant{
		{T: ts(0), V: basevalue.NewFloat(-1.0)},
		{T: ts(10), V: basevalue.NewFloat(3.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)
	b, err := tempval.NewSequence([]tempval.Instant{
		{T: ts(0), V: basevalue.NewFloat(0.0)},
		{T: ts(10), V: basevalue.NewFloat(0.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)

	result, err := Lift2(lt, a, b, ComparisonDescriptor)
	require.NoError(t, err)
	set, ok := result.(*tempval.SequenceSet)
	require.True(t, ok)
	require.Equal(t, 2, set.Len())

	crossing := ts(0) + timespan.Timestamp((ts(10)-ts(0))/4)

	left, right := set.Sequences()[0], set.Sequences()[1]
	assert.True(t, left.LowerInc())
	assert.False(t, left.UpperInc())
	assert.Equal(t, ts(0), left.Instants()[0].T)
	assert.Equal(t, true, left.Instants()[0].V.B)
	assert.Equal(t, crossing, left.Instants()[len(left.Instants())-1].T)

	assert.False(t, right.LowerInc())
	assert.True(t, right.UpperInc())
	assert.Equal(t, false, right.Instants()[0].V.B)
	assert.Equal(t, ts(10), right.Instants()[len(right.Instants())-1].T)
	assert.Equal(t, crossing, right.Instants()[0].T)
}

// TestLift2ProductTurningPoint covers §8 scenario 4: mul inserts the
// turning-point instant at t=5 where both linear segments cross zero.
func TestLift2ProductTurningPoint(t *testing.T) {
	a, err := tempval.NewSequence([]tempval.Instant{
		{T: ts(0), V: basevalue.NewFloat(-1.0)},
		{T: ts(10), V: basevalue.NewFloat(1.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)
	b, err := tempval.NewSequence([]tempval.Instant{
		{T: ts(0), V: basevalue.NewFloat(1.0)},
		{T: ts(10), V: basevalue.NewFloat(-1.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)

	result, err := Lift2(basevalue.Mul, a, b, ProductDescriptor)
	require.NoError(t, err)
	seq, ok := result.(*tempval.Sequence)
	require.True(t, ok)
	require.Equal(t, 3, seq.Len())

	insts := seq.Instants()
	assert.Equal(t, ts(0), insts[0].T)
	assert.InDelta(t, -1.0, insts[0].V.F, 1e-9)
	assert.Equal(t, ts(5), insts[1].T)
	assert.InDelta(t, 0.0, insts[1].V.F, 1e-9)
	assert.Equal(t, ts(10), insts[2].T)
	assert.InDelta(t, -1.0, insts[2].V.F, 1e-9)
}

// TestLift2DisjointSpansReturnsNil covers the Option::None empty-sync
// policy: disjoint time domains produce (nil, nil), not an error.
func TestLift2DisjointSpansReturnsNil(t *testing.T) {
	a, err := tempval.NewSequence([]tempval.Instant{
		{T: ts(0), V: basevalue.NewFloat(1.0)},
		{T: ts(1), V: basevalue.NewFloat(2.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)
	b, err := tempval.NewSequence([]tempval.Instant{
		{T: ts(10), V: basevalue.NewFloat(1.0)},
		{T: ts(11), V: basevalue.NewFloat(2.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)

	result, err := Lift2(basevalue.Add, a, b, SumDescriptor)
	require.NoError(t, err)
	assert.Nil(t, result)
}

// TestLift1Negation checks the trivial 1-ary case preserves variant,
// timestamps and interpolation.
func TestLift1Negation(t *testing.T) {
	seq, err := tempval.NewSequence([]tempval.Instant{
		{T: ts(0), V: basevalue.NewFloat(1.0)},
		{T: ts(10), V: basevalue.NewFloat(-2.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)

	neg := func(a basevalue.Value) (basevalue.Value, error) {
		return basevalue.NewFloat(-a.F), nil
	}
	result, err := Lift1(neg, seq)
	require.NoError(t, err)
	out, ok := result.(*tempval.Sequence)
	require.True(t, ok)
	assert.Equal(t, tempval.Linear, out.Interpolation())
	assert.InDelta(t, -1.0, out.Instants()[0].V.F, 1e-9)
	assert.InDelta(t, 2.0, out.Instants()[1].V.F, 1e-9)
}

// TestLift3SumsWhereAllThreeDefined exercises the simplified n-ary
// generalization: the scalar function applies wherever all three operands
// are defined inside the shared intersection.
func TestLift3SumsWhereAllThreeDefined(t *testing.T) {
	a, err := tempval.NewSequence([]tempval.Instant{
		{T: ts(0), V: basevalue.NewFloat(1.0)},
		{T: ts(10), V: basevalue.NewFloat(2.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)
	b, err := tempval.NewSequence([]tempval.Instant{
		{T: ts(0), V: basevalue.NewFloat(10.0)},
		{T: ts(10), V: basevalue.NewFloat(20.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)
	c, err := tempval.NewSequence([]tempval.Instant{
		{T: ts(0), V: basevalue.NewFloat(100.0)},
		{T: ts(5), V: basevalue.NewFloat(100.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)

	sum3 := func(x, y, z basevalue.Value) (basevalue.Value, error) {
		return basevalue.NewFloat(x.F + y.F + z.F), nil
	}
	result, err := Lift3(sum3, a, b, c, tempval.Linear)
	require.NoError(t, err)
	seq, ok := result.(*tempval.Sequence)
	require.True(t, ok)
	assert.Equal(t, ts(0), seq.Instants()[0].T)
	assert.InDelta(t, 111.0, seq.Instants()[0].V.F, 1e-9)
	assert.Equal(t, ts(5), seq.Span().Upper)
}
