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

func TestInstantRestriction(t *testing.T) {
	i := NewInstant(10, basevalue.NewFloat(1))

	_, ok := i.AtTimestamp(10)
	require.True(t, ok)
	_, ok = i.AtTimestamp(11)
	require.False(t, ok)

	_, ok = i.MinusPeriod(timespan.MustNewPeriod(0, 20, true, true))
	require.False(t, ok)
	_, ok = i.MinusPeriod(timespan.MustNewPeriod(20, 30, true, true))
	require.True(t, ok)
}

func TestInstantSetRestriction(t *testing.T) {
	set, err := NewInstantSet([]Instant{
		NewInstant(0, basevalue.NewFloat(1)),
		NewInstant(10, basevalue.NewFloat(2)),
		NewInstant(20, basevalue.NewFloat(3)),
	})
	require.NoError(t, err)

	sub, ok := set.AtPeriod(timespan.MustNewPeriod(5, 20, true, true))
	require.True(t, ok)
	require.Equal(t, 2, sub.Len())

	rest, ok := set.MinusPeriod(timespan.MustNewPeriod(5, 20, true, true))
	require.True(t, ok)
	require.Equal(t, 1, rest.Len())
	require.Equal(t, timespan.Timestamp(0), rest.Instants()[0].T)
}

func TestSequenceMinusPeriodSplitsIntoTwo(t *testing.T) {
	seq, err := NewSequence([]Instant{
		NewInstant(0, basevalue.NewFloat(0)),
		NewInstant(100, basevalue.NewFloat(100)),
	}, true, true, Linear, false)
	require.NoError(t, err)

	result, ok := seq.MinusPeriod(timespan.MustNewPeriod(40, 60, true, true))
	require.True(t, ok)
	require.Equal(t, 2, result.Len())

	first := result.Sequences()[0]
	require.Equal(t, timespan.Timestamp(0), first.Span().Lower)
	require.False(t, first.Span().ContainsTimestamp(40))
}

func TestSequenceAtTimestampSetEvaluatesEachPoint(t *testing.T) {
	seq, err := NewSequence([]Instant{
		NewInstant(0, basevalue.NewFloat(0)),
		NewInstant(10, basevalue.NewFloat(100)),
	}, true, true, Linear, false)
	require.NoError(t, err)

	ts, err := timespan.NewTimeSet([]timespan.Timestamp{2, 4, 50}, false)
	require.NoError(t, err)

	out, ok := seq.AtTimestampSet(ts)
	require.True(t, ok)
	require.Equal(t, 2, out.Len())
}
