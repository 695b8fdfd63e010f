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

func TestNewSequenceSetMergesAdjacentColinearSequences(t *testing.T) {
	a, err := NewSequence([]Instant{
		NewInstant(0, basevalue.NewFloat(0)),
		NewInstant(10, basevalue.NewFloat(10)),
	}, true, true, Linear, false)
	require.NoError(t, err)

	b, err := NewSequence([]Instant{
		NewInstant(10, basevalue.NewFloat(10)),
		NewInstant(20, basevalue.NewFloat(20)),
	}, true, true, Linear, false)
	require.NoError(t, err)

	set, err := NewSequenceSet([]*Sequence{a, b}, true)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	merged := set.Sequences()[0]
	require.Equal(t, 2, merged.Len())
	require.Equal(t, 0.0, merged.Instants()[0].V.F)
	require.Equal(t, 20.0, merged.Instants()[1].V.F)
}

func TestNewSequenceSetRejectsOverlapWithoutNormalize(t *testing.T) {
	a, err := NewSequence([]Instant{
		NewInstant(0, basevalue.NewFloat(0)),
		NewInstant(10, basevalue.NewFloat(10)),
	}, true, true, Linear, false)
	require.NoError(t, err)

	b, err := NewSequence([]Instant{
		NewInstant(10, basevalue.NewFloat(10)),
		NewInstant(20, basevalue.NewFloat(20)),
	}, true, true, Linear, false)
	require.NoError(t, err)

	_, err = NewSequenceSet([]*Sequence{a, b}, false)
	require.Error(t, err)
}

func TestNewSequenceSetKeepsDiscontinuousAdjacentSequences(t *testing.T) {
	a, err := NewSequence([]Instant{
		NewInstant(0, basevalue.NewFloat(1)),
		NewInstant(10, basevalue.NewFloat(1)),
	}, true, true, Stepwise, false)
	require.NoError(t, err)

	b, err := NewSequence([]Instant{
		NewInstant(10, basevalue.NewFloat(2)),
		NewInstant(20, basevalue.NewFloat(2)),
	}, false, true, Stepwise, false)
	require.NoError(t, err)

	set, err := NewSequenceSet([]*Sequence{a, b}, true)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
}

func TestSequenceSetValueAt(t *testing.T) {
	a, err := NewSequence([]Instant{
		NewInstant(0, basevalue.NewFloat(1)),
		NewInstant(10, basevalue.NewFloat(1)),
	}, true, true, Stepwise, false)
	require.NoError(t, err)

	b, err := NewSequence([]Instant{
		NewInstant(20, basevalue.NewFloat(2)),
		NewInstant(30, basevalue.NewFloat(2)),
	}, true, true, Stepwise, false)
	require.NoError(t, err)

	set, err := NewSequenceSet([]*Sequence{a, b}, false)
	require.NoError(t, err)

	v, found, err := set.ValueAt(5)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1.0, v.F)

	_, found, err = set.ValueAt(15)
	require.NoError(t, err)
	require.False(t, found)
}

func TestSequenceAtPeriodSetProducesSequenceSet(t *testing.T) {
	seq, err := NewSequence([]Instant{
		NewInstant(0, basevalue.NewFloat(0)),
		NewInstant(100, basevalue.NewFloat(100)),
	}, true, true, Linear, false)
	require.NoError(t, err)

	ps, err := timespan.NewPeriodSet([]timespan.Period{
		timespan.MustNewPeriod(0, 10, true, true),
		timespan.MustNewPeriod(50, 60, true, true),
	}, false)
	require.NoError(t, err)

	set, ok := seq.AtPeriodSet(ps)
	require.True(t, ok)
	require.Equal(t, 2, set.Len())
}
