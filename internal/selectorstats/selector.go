package selectorstats

import (
	"sort"

	"github.com/getsentry/stylestats/internal/timeline"
	"github.com/getsentry/stylestats/internal/timeutil"
	"github.com/getsentry/stylestats/internal/traceevent"
)

type (
	// SelectorReport is the total cost of a selector across the trace.
	SelectorReport struct {
		Aggregate

		SelectorText    string `json:"selector"`
		StyleSheetCount int    `json:"style_sheet_count"`
		P75ElapsedUs    int64  `json:"p75_elapsed_us"`
		P95ElapsedUs    int64  `json:"p95_elapsed_us"`
		P99ElapsedUs    int64  `json:"p99_elapsed_us"`
	}

	// TimingRow is one selector timing with the identity of its event.
	TimingRow struct {
		traceevent.SelectorTiming

		Key                  string                `json:"key"`
		IterationKey         string                `json:"iteration_key"`
		ThreadID             int64                 `json:"thread_id"`
		TimestampUs          timeutil.Microseconds `json:"timestamp_us"`
		RecalcStyleIteration int64                 `json:"recalc_style_iteration"`
		RejectCount          int64                 `json:"reject_count"`
		SlowRejectCount      int64                 `json:"slow_reject_count"`
	}

	selectorGroup struct {
		aggregate   Aggregate
		styleSheets map[string]struct{}
		elapsed     []int64
	}
)

// BySelector sums the timings of every selector over the whole trace. The
// most rejected selectors come first.
func BySelector(rows []timeline.Row, variant SlowRejectVariant) []SelectorReport {
	groups := make(map[string]*selectorGroup)
	for _, r := range rows {
		if r.Name != traceevent.SelectorStats {
			continue
		}
		for _, t := range r.SelectorTimings {
			g, ok := groups[t.SelectorText]
			if !ok {
				g = &selectorGroup{styleSheets: make(map[string]struct{})}
				groups[t.SelectorText] = g
			}
			g.aggregate.add(t, variant)
			g.styleSheets[t.StyleSheetID] = struct{}{}
			g.elapsed = append(g.elapsed, t.ElapsedUs)
		}
	}

	reports := make([]SelectorReport, 0, len(groups))
	for selector, g := range groups {
		sort.Slice(g.elapsed, func(i, j int) bool {
			return g.elapsed[i] < g.elapsed[j]
		})
		p75, _ := quantile(g.elapsed, 0.75)
		p95, _ := quantile(g.elapsed, 0.95)
		p99, _ := quantile(g.elapsed, 0.99)
		reports = append(reports, SelectorReport{
			Aggregate:       g.aggregate,
			SelectorText:    selector,
			StyleSheetCount: len(g.styleSheets),
			P75ElapsedUs:    p75,
			P95ElapsedUs:    p95,
			P99ElapsedUs:    p99,
		})
	}
	sort.Slice(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		if a.RejectCount != b.RejectCount {
			return a.RejectCount > b.RejectCount
		}
		if a.SlowRejectCount != b.SlowRejectCount {
			return a.SlowRejectCount > b.SlowRejectCount
		}
		return a.SelectorText < b.SelectorText
	})
	return reports
}

// Timings flattens the selector timings of the SelectorStats rows, in row
// order.
func Timings(rows []timeline.Row, variant SlowRejectVariant) []TimingRow {
	var timings []TimingRow
	for _, r := range rows {
		if r.Name != traceevent.SelectorStats {
			continue
		}
		for _, t := range r.SelectorTimings {
			timings = append(timings, TimingRow{
				SelectorTiming:       t,
				Key:                  r.Key,
				IterationKey:         r.IterationKey,
				ThreadID:             r.ThreadID,
				TimestampUs:          r.TimestampUs,
				RecalcStyleIteration: r.RecalcStyleIteration,
				RejectCount:          t.RejectCount(),
				SlowRejectCount:      variant.SlowRejectCount(t),
			})
		}
	}
	return timings
}
