// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ops

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

func opsTs(sec int64) timespan.Timestamp {
	return timespan.FromTime(time.Unix(sec, 0).UTC())
}

func floatSeq(t *testing.T, v0, v1 float64) *tempval.Sequence {
	seq, err := tempval.NewSequence([]tempval.Instant{
		{T: opsTs(0), V: basevalue.NewFloat(v0)},
		{T: opsTs(10), V: basevalue.NewFloat(v1)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)
	return seq
}

func TestLift2Add(t *testing.T) {
	a := floatSeq(t, 1, 2)
	b := floatSeq(t, 10, 20)
	result, err := Lift2(Add, a, b)
	require.NoError(t, err)
	seq, ok := result.(*tempval.Sequence)
	require.True(t, ok)
	assert.InDelta(t, 11.0, seq.Instants()[0].V.F, 1e-9)
	assert.InDelta(t, 22.0, seq.Instants()[1].V.F, 1e-9)
}

func TestLift2Lt(t *testing.T) {
	a := floatSeq(t, -1, 3)
	b := floatSeq(t, 0, 0)
	result, err := Lift2(Lt, a, b)
	require.NoError(t, err)
	set, ok := result.(*tempval.SequenceSet)
	require.True(t, ok)
	assert.Equal(t, 2, set.Len())
}

func TestLift2Mul(t *testing.T) {
	a := floatSeq(t, -1, 1)
	b := floatSeq(t, 1, -1)
	result, err := Lift2(Mul, a, b)
	require.NoError(t, err)
	seq, ok := result.(*tempval.Sequence)
	require.True(t, ok)
	require.Equal(t, 3, seq.Len())
	assert.InDelta(t, 0.0, seq.Instants()[1].V.F, 1e-9)
}

func TestLift1Not(t *testing.T) {
	set, err := tempval.NewInstantSet([]tempval.Instant{
		{T: opsTs(0), V: basevalue.NewBool(true)},
		{T: opsTs(1), V: basevalue.NewBool(false)},
	})
	require.NoError(t, err)
	result, err := Lift1(Not, set)
	require.NoError(t, err)
	out, ok := result.(*tempval.InstantSet)
	require.True(t, ok)
	assert.Equal(t, false, out.Instants()[0].V.B)
	assert.Equal(t, true, out.Instants()[1].V.B)
}

func TestDistanceBetweenPoints(t *testing.T) {
	a, err := tempval.NewSequence([]tempval.Instant{
		{T: opsTs(0), V: basevalue.NewPoint2D(0, 0)},
		{T: opsTs(10), V: basevalue.NewPoint2D(10, 0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)
	b, err := tempval.NewSequence([]tempval.Instant{
		{T: opsTs(0), V: basevalue.NewPoint2D(0, 3)},
		{T: opsTs(10), V: basevalue.NewPoint2D(10, 3)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)

	result, err := Lift2(Distance, a, b)
	require.NoError(t, err)
	seq, ok := result.(*tempval.Sequence)
	require.True(t, ok)
	assert.InDelta(t, 3.0, seq.Instants()[0].V.F, 1e-9)
}

func TestUnregisteredCategory(t *testing.T) {
	a := floatSeq(t, 1, 2)
	b := floatSeq(t, 3, 4)
	_, err := Lift2(Distance+100, a, b)
	assert.Error(t, err)
}
