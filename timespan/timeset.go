// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package timespan

import (
	"github.com/biogo/store/llrb"

	"github.com/tempodb/temporal/errors"
)

type timestampItem Timestamp

func (t timestampItem) Compare(c llrb.Comparable) int {
	return Timestamp(t).Compare(Timestamp(c.(timestampItem)))
}

// TimeSet is a strictly increasing ordered sequence of timestamps with no
// duplicates.
type TimeSet struct {
	times []Timestamp
}

// NewTimeSet builds a TimeSet from ts. When normalize is true, duplicates
// are merged via an llrb.Tree walk; when false, ts must already be strictly
// increasing or InvalidInput is returned.
func NewTimeSet(ts []Timestamp, normalize bool) (*TimeSet, error) {
	if normalize {
		tree := llrb.Tree{}
		for _, t := range ts {
			tree.Insert(timestampItem(t))
		}
		out := make([]Timestamp, 0, len(ts))
		tree.Do(func(c llrb.Comparable) bool {
			out = append(out, Timestamp(c.(timestampItem)))
			return false
		})
		return &TimeSet{times: out}, nil
	}
	for i := 1; i < len(ts); i++ {
		if ts[i-1] >= ts[i] {
			return nil, errors.E("timeset_make", errors.InvalidInput,
				errors.Detailf("timestamps not strictly increasing at index %d", i))
		}
	}
	return &TimeSet{times: append([]Timestamp(nil), ts...)}, nil
}

// Timestamps returns the set's members in order. The slice must not be
// mutated by the caller.
func (s *TimeSet) Timestamps() []Timestamp { return s.times }

// Len returns the number of timestamps in the set.
func (s *TimeSet) Len() int { return len(s.times) }

// Contains reports whether t is a member of the set, via binary search.
func (s *TimeSet) Contains(t Timestamp) bool {
	_, found := s.search(t)
	return found
}

func (s *TimeSet) search(t Timestamp) (pos int, found bool) {
	lo, hi := 0, len(s.times)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case s.times[mid] == t:
			return mid, true
		case s.times[mid] < t:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}
