// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bbox_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tempodb/temporal/bbox"
	"github.com/tempodb/temporal/timespan"
)

func period(lo, hi timespan.Timestamp) timespan.Period {
	return timespan.MustNewPeriod(lo, hi, true, true)
}

func TestNumericBoxIntersects(t *testing.T) {
	a, err := bbox.NewNumericBox(0, 10, period(0, 100))
	require.NoError(t, err)
	b, err := bbox.NewNumericBox(5, 15, period(50, 150))
	require.NoError(t, err)

	ok, err := bbox.Intersects(a, b)
	require.NoError(t, err)
	require.True(t, ok)

	c, err := bbox.NewNumericBox(20, 30, period(0, 100))
	require.NoError(t, err)
	ok, err = bbox.Intersects(a, c)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSpatioBoxSRIDMismatch(t *testing.T) {
	a := bbox.NewSpatioBox(bbox.SpatioOpts{X0: 0, X1: 1, Y0: 0, Y1: 1, HasSRID: true, SRID: 4326}, period(0, 10))
	b := bbox.NewSpatioBox(bbox.SpatioOpts{X0: 0, X1: 1, Y0: 0, Y1: 1, HasSRID: true, SRID: 3857}, period(0, 10))
	_, err := bbox.Intersects(a, b)
	require.Error(t, err)
}

func TestNewNumericBoxRejectsInverted(t *testing.T) {
	_, err := bbox.NewNumericBox(10, 0, period(0, 10))
	require.Error(t, err)
}

func TestExpandUnionsPeriodAndSpan(t *testing.T) {
	a, _ := bbox.NewNumericBox(0, 5, period(0, 10))
	b, _ := bbox.NewNumericBox(3, 8, period(5, 20))
	out, err := bbox.Expand(a, b)
	require.NoError(t, err)
	require.Equal(t, 0.0, out.VLo)
	require.Equal(t, 8.0, out.VHi)
	require.Equal(t, timespan.Timestamp(0), out.Period.Lower)
	require.Equal(t, timespan.Timestamp(20), out.Period.Upper)
}
