// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package timespan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tempodb/temporal/timespan"
)

func TestNewPeriodRejectsBadBounds(t *testing.T) {
	_, err := timespan.NewPeriod(10, 5, true, true)
	require.Error(t, err)

	_, err = timespan.NewPeriod(10, 10, true, false)
	require.Error(t, err)

	p, err := timespan.NewPeriod(10, 10, true, true)
	require.NoError(t, err)
	require.Equal(t, timespan.Timestamp(10), p.Lower)
}

func TestPeriodCompare(t *testing.T) {
	a := timespan.MustNewPeriod(0, 10, true, true)
	b := timespan.MustNewPeriod(0, 10, true, false)
	// a's upper bound is inclusive, so it sorts after b's exclusive upper.
	require.Equal(t, 1, a.Compare(b))
	require.Equal(t, -1, b.Compare(a))
	require.Equal(t, 0, a.Compare(a))
}

func TestPeriodAdjacent(t *testing.T) {
	a := timespan.MustNewPeriod(0, 10, true, false)
	b := timespan.MustNewPeriod(10, 20, true, true)
	require.True(t, timespan.Adjacent(a, b))

	c := timespan.MustNewPeriod(10, 20, false, true)
	require.False(t, timespan.Adjacent(a, c), "both sides exclusive at the touch point is not adjacency")

	d := timespan.MustNewPeriod(0, 10, true, true)
	require.False(t, timespan.Adjacent(d, b), "both sides inclusive at the touch point overlap, they are not merely adjacent")
}

func TestIntersectPeriod(t *testing.T) {
	a := timespan.MustNewPeriod(0, 10, true, true)
	b := timespan.MustNewPeriod(5, 15, true, true)
	got, ok := timespan.Intersect(a, b)
	require.True(t, ok)
	require.Equal(t, timespan.MustNewPeriod(5, 10, true, true), got)

	c := timespan.MustNewPeriod(20, 30, true, true)
	_, ok = timespan.Intersect(a, c)
	require.False(t, ok)
}

func TestUnionPeriod(t *testing.T) {
	a := timespan.MustNewPeriod(0, 10, true, false)
	b := timespan.MustNewPeriod(10, 20, true, true)
	union := timespan.Union(a, b)
	require.Len(t, union, 1)
	require.Equal(t, timespan.MustNewPeriod(0, 20, true, true), union[0])

	c := timespan.MustNewPeriod(30, 40, true, true)
	union = timespan.Union(a, c)
	require.Len(t, union, 2)
}

func TestPeriodContains(t *testing.T) {
	p := timespan.MustNewPeriod(0, 10, true, false)
	require.True(t, p.ContainsTimestamp(0))
	require.False(t, p.ContainsTimestamp(10))
	require.True(t, p.ContainsTimestamp(5))

	q := timespan.MustNewPeriod(2, 8, true, true)
	require.True(t, p.ContainsPeriod(q))
	require.False(t, q.ContainsPeriod(p))
}
