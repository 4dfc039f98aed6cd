// Package selectorstats aggregates the selector matching counters of
// SelectorStats events.
package selectorstats

import (
	"fmt"

	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/timeline"
	"github.com/getsentry/stylestats/internal/traceevent"
)

type (
	// Aggregate holds the counters summed over a group of selector timings.
	Aggregate struct {
		ElapsedUs       int64 `json:"elapsed_us"`
		MatchAttempts   int64 `json:"match_attempts"`
		MatchCount      int64 `json:"match_count"`
		RejectCount     int64 `json:"reject_count"`
		FastRejectCount int64 `json:"fast_reject_count"`
		SlowRejectCount int64 `json:"slow_reject_count"`
		SelectorCount   int64 `json:"selector_count"`
	}

	// Aggregates maps a grouping key to its aggregate. It's built once and
	// only read afterward.
	Aggregates map[string]Aggregate

	// KeyFunc returns the grouping key of a row.
	KeyFunc func(timeline.Row) string

	// Row is a timeline row with the aggregate of its group attached. Only
	// SelectorStats rows have one.
	Row struct {
		timeline.Row

		Aggregate *Aggregate
	}
)

var (
	// ByEventKey groups the timings of each SelectorStats event.
	ByEventKey KeyFunc = func(r timeline.Row) string { return r.Key }
	// ByIterationKey groups the timings of a style recalculation pass.
	ByIterationKey KeyFunc = func(r timeline.Row) string { return r.IterationKey }
)

// add accumulates t. Derived counters are computed on the timing before
// being summed.
func (a *Aggregate) add(t traceevent.SelectorTiming, variant SlowRejectVariant) {
	a.ElapsedUs += t.ElapsedUs
	a.MatchAttempts += t.MatchAttempts
	a.MatchCount += t.MatchCount
	a.FastRejectCount += t.FastRejectCount
	a.RejectCount += t.RejectCount()
	a.SlowRejectCount += variant.SlowRejectCount(t)
	a.SelectorCount++
}

// BuildAggregates groups the selector timings of the SelectorStats rows by
// key. rows must have been expanded by the arguments package.
func BuildAggregates(rows []timeline.Row, key KeyFunc, variant SlowRejectVariant) Aggregates {
	aggregates := make(Aggregates)
	for _, r := range rows {
		if r.Name != traceevent.SelectorStats {
			continue
		}
		k := key(r)
		a := aggregates[k]
		for _, t := range r.SelectorTimings {
			a.add(t, variant)
		}
		aggregates[k] = a
	}
	return aggregates
}

// Attach looks up the aggregate of every SelectorStats row.
func Attach(rows []timeline.Row, aggregates Aggregates, key KeyFunc) ([]Row, error) {
	attached := make([]Row, len(rows))
	for i, r := range rows {
		attached[i] = Row{Row: r}
		if r.Name != traceevent.SelectorStats {
			continue
		}
		k := key(r)
		a, ok := aggregates[k]
		if !ok {
			return nil, fmt.Errorf("selectorstats: %w: %q", errorutil.ErrAggregateKeyNotFound, k)
		}
		attached[i].Aggregate = &a
	}
	return attached, nil
}
