// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package timespan implements the time-domain primitives that the rest of
// this module is built on: Timestamp, Period, TimeSet and PeriodSet, with
// normalization, containment, adjacency and ordering.
//
// The package is modeled on grailbio/bio's interval package (PosType,
// sort-then-merge interval union) and biopb.CoordRange (Compare/Intersects/
// Contains), generalized from genomic coordinates to microsecond
// timestamps. Ordered construction uses github.com/biogo/store/llrb.Tree,
// the same ordered-map structure grailbio/bio uses for shard lookups.
package timespan

import (
	"time"

	"github.com/grailbio/base/log"
)

// Timestamp is a signed 64-bit count of microseconds from the Unix epoch.
// It is monotone and totally ordered.
type Timestamp int64

// epoch is the fixed reference point: the Unix epoch.
const epoch = Timestamp(0)

// FromTime converts a time.Time to a Timestamp, truncating to microsecond
// precision.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

// Time converts a Timestamp back to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

// Before reports whether t occurs strictly before u.
func (t Timestamp) Before(u Timestamp) bool { return t < u }

// After reports whether t occurs strictly after u.
func (t Timestamp) After(u Timestamp) bool { return t > u }

// Compare returns -1, 0, or 1 as t is less than, equal to, or greater than u.
func (t Timestamp) Compare(u Timestamp) int {
	switch {
	case t < u:
		return -1
	case t > u:
		return 1
	default:
		return 0
	}
}

// Add returns t shifted by d, truncated toward zero to whole microseconds.
func (t Timestamp) Add(d time.Duration) Timestamp {
	return t + Timestamp(d.Microseconds())
}

// Sub returns the signed duration from u to t.
func (t Timestamp) Sub(u Timestamp) time.Duration {
	return time.Duration(t-u) * time.Microsecond
}

// Fraction returns (t-lo)/(hi-lo) as a float64 in [0,1]; used throughout
// lift and tempval for linear interpolation in the timestamp parameter.
// It panics if hi == lo; callers must only call it on non-degenerate
// segments.
func Fraction(t, lo, hi Timestamp) float64 {
	if hi == lo {
		log.Panicf("timespan.Fraction: degenerate segment, lo == hi == %v", lo)
	}
	return float64(t-lo) / float64(hi-lo)
}
