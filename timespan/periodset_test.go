// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package timespan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tempodb/temporal/timespan"
)

func TestNormalizePeriodsIsIdempotent(t *testing.T) {
	periods := []timespan.Period{
		timespan.MustNewPeriod(20, 30, true, true),
		timespan.MustNewPeriod(0, 10, true, false),
		timespan.MustNewPeriod(10, 20, true, true),
	}
	once := timespan.NormalizePeriods(periods)
	twice := timespan.NormalizePeriods(once)
	require.Equal(t, once, twice)
	require.Equal(t, []timespan.Period{timespan.MustNewPeriod(0, 30, true, true)}, once)
}

func TestNewPeriodSetRejectsOverlapWithoutNormalize(t *testing.T) {
	periods := []timespan.Period{
		timespan.MustNewPeriod(0, 10, true, true),
		timespan.MustNewPeriod(5, 15, true, true),
	}
	_, err := timespan.NewPeriodSet(periods, false)
	require.Error(t, err)

	ps, err := timespan.NewPeriodSet(periods, true)
	require.NoError(t, err)
	require.Equal(t, 1, ps.Len())
}

func TestPeriodSetFindTimestamp(t *testing.T) {
	ps, err := timespan.NewPeriodSet([]timespan.Period{
		timespan.MustNewPeriod(0, 10, true, false),
		timespan.MustNewPeriod(20, 30, true, false),
	}, false)
	require.NoError(t, err)

	found, pos := ps.FindTimestamp(5)
	require.True(t, found)
	require.Equal(t, 0, pos)

	found, pos = ps.FindTimestamp(15)
	require.False(t, found)
	require.Equal(t, 1, pos)

	found, pos = ps.FindTimestamp(25)
	require.True(t, found)
	require.Equal(t, 1, pos)

	found, pos = ps.FindTimestamp(35)
	require.False(t, found)
	require.Equal(t, 2, pos)
}

func TestTimeSetNormalizeDedups(t *testing.T) {
	ts, err := timespan.NewTimeSet([]timespan.Timestamp{5, 1, 3, 1, 5}, true)
	require.NoError(t, err)
	require.Equal(t, []timespan.Timestamp{1, 3, 5}, ts.Timestamps())
}

func TestTimeSetRejectsDuplicatesWithoutNormalize(t *testing.T) {
	_, err := timespan.NewTimeSet([]timespan.Timestamp{1, 1, 2}, false)
	require.Error(t, err)

	ts, err := timespan.NewTimeSet([]timespan.Timestamp{1, 2, 3}, false)
	require.NoError(t, err)
	require.True(t, ts.Contains(2))
	require.False(t, ts.Contains(4))
}
