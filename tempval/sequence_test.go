// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package tempval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/timespan"
)

func floatSeq(t *testing.T, interp Interpolation, pts [][2]float64, lowerInc, upperInc bool) *Sequence {
	t.Helper()
	instants := make([]Instant, len(pts))
	for i, p := range pts {
		instants[i] = NewInstant(timespan.Timestamp(p[0]), basevalue.NewFloat(p[1]))
	}
	seq, err := NewSequence(instants, lowerInc, upperInc, interp, false)
	require.NoError(t, err)
	return seq
}

func TestSequenceValueAtLinear(t *testing.T) {
	seq := floatSeq(t, Linear, [][2]float64{{0, 0}, {10, 100}}, true, true)

	v, found, err := seq.ValueAt(5)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 50.0, v.F)

	_, found, err = seq.ValueAt(20)
	require.NoError(t, err)
	require.False(t, found)
}

func TestSequenceValueAtStepwise(t *testing.T) {
	seq := floatSeq(t, Stepwise, [][2]float64{{0, 1}, {10, 2}, {20, 3}}, true, false)

	v, found, err := seq.ValueAt(15)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 2.0, v.F)

	_, found, err = seq.ValueAt(20)
	require.NoError(t, err)
	require.False(t, found)
}

func TestNewSequenceRejectsOutOfOrder(t *testing.T) {
	instants := []Instant{
		NewInstant(10, basevalue.NewFloat(1)),
		NewInstant(5, basevalue.NewFloat(2)),
	}
	_, err := NewSequence(instants, true, true, Linear, false)
	require.Error(t, err)
}

func TestNewSequenceRejectsLinearOnBool(t *testing.T) {
	instants := []Instant{
		NewInstant(0, basevalue.NewBool(true)),
		NewInstant(10, basevalue.NewBool(false)),
	}
	_, err := NewSequence(instants, true, true, Linear, false)
	require.Error(t, err)
}

func TestNewSequenceSingleInstantRequiresBothBoundsInclusive(t *testing.T) {
	instants := []Instant{NewInstant(0, basevalue.NewFloat(1))}
	_, err := NewSequence(instants, true, false, Discrete, false)
	require.Error(t, err)

	seq, err := NewSequence(instants, true, true, Discrete, false)
	require.NoError(t, err)
	require.Equal(t, 1, seq.Len())
}

func TestNormalizeRunCollapsesColinearSamples(t *testing.T) {
	colinear := []Instant{
		NewInstant(0, basevalue.NewFloat(0)),
		NewInstant(10, basevalue.NewFloat(10)),
		NewInstant(20, basevalue.NewFloat(20)),
	}
	seq, err := NewSequence(colinear, true, true, Linear, true)
	require.NoError(t, err)
	require.Equal(t, 2, seq.Len())
	require.Equal(t, 0.0, seq.Instants()[0].V.F)
	require.Equal(t, 20.0, seq.Instants()[1].V.F)

	notColinear := []Instant{
		NewInstant(0, basevalue.NewFloat(0)),
		NewInstant(5, basevalue.NewFloat(3)),
		NewInstant(10, basevalue.NewFloat(10)),
	}
	seq, err = NewSequence(notColinear, true, true, Linear, true)
	require.NoError(t, err)
	require.Equal(t, 3, seq.Len())

	constant := []Instant{
		NewInstant(0, basevalue.NewFloat(1)),
		NewInstant(5, basevalue.NewFloat(1)),
		NewInstant(10, basevalue.NewFloat(1)),
	}
	seq, err = NewSequence(constant, true, true, Stepwise, true)
	require.NoError(t, err)
	require.Equal(t, 2, seq.Len())
}

func TestSequenceAtPeriodSynthesizesEndpoints(t *testing.T) {
	seq := floatSeq(t, Linear, [][2]float64{{0, 0}, {10, 100}}, true, true)

	sub, ok := seq.AtPeriod(timespan.MustNewPeriod(2, 8, true, true))
	require.True(t, ok)
	require.Equal(t, 2, sub.Len())
	require.Equal(t, 20.0, sub.Instants()[0].V.F)
	require.Equal(t, 80.0, sub.Instants()[1].V.F)
}

func TestSequenceMinusTimestampSplits(t *testing.T) {
	seq := floatSeq(t, Linear, [][2]float64{{0, 0}, {10, 100}}, true, true)

	result, ok := seq.MinusTimestamp(5)
	require.True(t, ok)
	require.Equal(t, 2, result.Len())
}
