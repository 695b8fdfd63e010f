// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package timespan

import (
	"sort"

	"github.com/biogo/store/llrb"

	"github.com/tempodb/temporal/errors"
)

// periodItem adapts Period to llrb.Comparable so PeriodSet construction can
// reuse an ordered tree for the sort phase of normalization, the same
// structure grailbio/bio's ShardInfo uses to keep shards ordered by
// (refID, start).
type periodItem Period

func (p periodItem) Compare(c llrb.Comparable) int {
	return Period(p).Compare(Period(c.(periodItem)))
}

// NormalizePeriods sorts periods by Period.Compare using an llrb.Tree, then
// merges any pair that overlaps or is adjacent, producing the canonical
// disjoint-and-not-adjacent form a PeriodSet requires. This is
// periodarr_normalize.
func NormalizePeriods(periods []Period) []Period {
	if len(periods) == 0 {
		return nil
	}
	tree := llrb.Tree{}
	for _, p := range periods {
		tree.Insert(periodItem(p))
	}
	sorted := make([]Period, 0, len(periods))
	tree.Do(func(c llrb.Comparable) bool {
		sorted = append(sorted, Period(c.(periodItem)))
		return false
	})

	out := make([]Period, 0, len(sorted))
	cur := sorted[0]
	for _, p := range sorted[1:] {
		if cur.Overlaps(p) || Adjacent(cur, p) {
			merged := Union(cur, p)
			cur = merged[0]
			continue
		}
		out = append(out, cur)
		cur = p
	}
	out = append(out, cur)
	return out
}

// PeriodSet is a finite ordered sequence of periods that are pairwise
// non-overlapping and non-adjacent.
type PeriodSet struct {
	periods []Period
}

// NewPeriodSet builds a PeriodSet from periods. When normalize is true the
// periods are sorted and overlapping/adjacent members are merged; when
// false, the caller's periods must already be in that canonical form or
// OverlapOrAdjacency is returned.
func NewPeriodSet(periods []Period, normalize bool) (*PeriodSet, error) {
	if normalize {
		return &PeriodSet{periods: NormalizePeriods(periods)}, nil
	}
	cp := append([]Period(nil), periods...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Compare(cp[j]) < 0 })
	for i := 1; i < len(cp); i++ {
		if cp[i-1].Overlaps(cp[i]) || Adjacent(cp[i-1], cp[i]) {
			return nil, errors.E("periodset_make", errors.OverlapOrAdjacency,
				errors.Detailf("periods %d and %d overlap or are adjacent", i-1, i))
		}
	}
	return &PeriodSet{periods: cp}, nil
}

// Periods returns the PeriodSet's members in order. The slice must not be
// mutated by the caller.
func (ps *PeriodSet) Periods() []Period { return ps.periods }

// Len returns the number of periods in the set.
func (ps *PeriodSet) Len() int { return len(ps.periods) }

// Span returns the overall period covered by the set, from the first
// member's lower bound to the last member's upper bound.
func (ps *PeriodSet) Span() Period {
	first, last := ps.periods[0], ps.periods[len(ps.periods)-1]
	return Period{Lower: first.Lower, Upper: last.Upper, LowerInc: first.LowerInc, UpperInc: last.UpperInc}
}

// FindTimestamp is periodarr_find_timestamp: binary search for t. If t
// falls inside some member period, found is true and pos is its index.
// Otherwise found is false and pos is the index at which a period
// containing t would be inserted.
func (ps *PeriodSet) FindTimestamp(t Timestamp) (found bool, pos int) {
	periods := ps.periods
	lo, hi := 0, len(periods)
	for lo < hi {
		mid := (lo + hi) / 2
		p := periods[mid]
		if p.ContainsTimestamp(t) {
			return true, mid
		}
		if t.Compare(p.Lower) <= 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return false, lo
}

// ContainsTimestamp reports whether t falls within some member period.
func (ps *PeriodSet) ContainsTimestamp(t Timestamp) bool {
	found, _ := ps.FindTimestamp(t)
	return found
}

// Normalize is idempotent: NormalizePeriods(ps.Periods()) == ps.Periods().
func (ps *PeriodSet) Normalize() *PeriodSet {
	return &PeriodSet{periods: NormalizePeriods(ps.periods)}
}
