// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package serial

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

func wkbTs(sec int64) timespan.Timestamp {
	return timespan.FromTime(time.Unix(sec, 0).UTC())
}

// TestWKBSequenceRoundTrip covers §8 scenario 6: a Linear float Sequence,
// both bounds inclusive, round-trips through NDR (little-endian) WKB, and
// the hex text has the exact layout the scenario specifies: endianness
// byte 01, a 2-byte MovingFloat tag, a flag byte tagging
// subtype=Sequence/interp=Linear, a 4-byte count of 2, and a bound byte
// of 3 (both bounds inclusive).
func TestWKBSequenceRoundTrip(t *testing.T) {
	seq, err := tempval.NewSequence([]tempval.Instant{
		{T: wkbTs(0), V: basevalue.NewFloat(1.0)},
		{T: wkbTs(1), V: basevalue.NewFloat(2.0)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)

	hexStr, err := AsHexWKB(seq, NDR)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hexStr, "01"))

	// byte 0: endianness (01 = NDR)
	// bytes 1-2: type tag (wkbFloat = 0x0003, little-endian -> "0300")
	// byte 3: flag byte; subtype=Sequence(3)<<5 | interp=Linear(2)<<3 = 0x70
	// bytes 4-7: count = 2 -> "02000000"
	// byte 8: bound byte = 0x03 (both inclusive)
	require.True(t, len(hexStr) > 18)
	assert.Equal(t, "01", hexStr[0:2])
	assert.Equal(t, "0300", hexStr[2:6])
	assert.Equal(t, "70", hexStr[6:8])
	assert.Equal(t, "02000000", hexStr[8:16])
	assert.Equal(t, "03", hexStr[16:18])

	decoded, err := FromHexWKB(hexStr)
	require.NoError(t, err)
	out, ok := decoded.(*tempval.Sequence)
	require.True(t, ok)
	assert.Equal(t, 2, out.Len())
	assert.True(t, out.LowerInc())
	assert.True(t, out.UpperInc())
	assert.Equal(t, tempval.Linear, out.Interpolation())
	assert.InDelta(t, 1.0, out.Instants()[0].V.F, 1e-9)
	assert.InDelta(t, 2.0, out.Instants()[1].V.F, 1e-9)
	assert.Equal(t, wkbTs(0), out.Instants()[0].T)
	assert.Equal(t, wkbTs(1), out.Instants()[1].T)
}

func TestWKBInstantSetRoundTrip(t *testing.T) {
	set, err := tempval.NewInstantSet([]tempval.Instant{
		{T: wkbTs(1), V: basevalue.NewBool(true)},
		{T: wkbTs(2), V: basevalue.NewBool(false)},
	})
	require.NoError(t, err)

	b, err := AsWKB(set, NDR)
	require.NoError(t, err)
	decoded, err := FromWKB(b)
	require.NoError(t, err)
	out, ok := decoded.(*tempval.InstantSet)
	require.True(t, ok)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, true, out.Instants()[0].V.B)
	assert.Equal(t, false, out.Instants()[1].V.B)
}

func TestWKBXDRRoundTrip(t *testing.T) {
	inst := tempval.NewInstant(wkbTs(5), basevalue.NewInt(42))
	b, err := AsWKB(inst, XDR)
	require.NoError(t, err)
	assert.Equal(t, byte(0), b[0])

	decoded, err := FromWKB(b)
	require.NoError(t, err)
	out, ok := decoded.(tempval.Instant)
	require.True(t, ok)
	assert.Equal(t, int64(42), out.V.I)
	assert.Equal(t, wkbTs(5), out.T)
}

func TestWKBPoint3DRoundTrip(t *testing.T) {
	seq, err := tempval.NewSequence([]tempval.Instant{
		{T: wkbTs(0), V: basevalue.NewPoint3D(1, 2, 3)},
		{T: wkbTs(1), V: basevalue.NewPoint3D(4, 5, 6)},
	}, true, true, tempval.Linear, false)
	require.NoError(t, err)

	b, err := AsWKB(seq, NDR)
	require.NoError(t, err)
	decoded, err := FromWKB(b)
	require.NoError(t, err)
	out, ok := decoded.(*tempval.Sequence)
	require.True(t, ok)
	assert.Equal(t, basevalue.Point3D, out.BaseType())
	assert.InDelta(t, 3.0, out.Instants()[0].V.Pt.Z, 1e-9)
}
