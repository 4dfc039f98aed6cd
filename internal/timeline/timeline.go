// Package timeline rebuilds the per thread style recalculation timeline.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getsentry/stylestats/internal/bsearch"
	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/relevance"
	"github.com/getsentry/stylestats/internal/timeutil"
	"github.com/getsentry/stylestats/internal/traceevent"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type (
	// Row is a retained event with its derived columns.
	Row struct {
		traceevent.Event

		StartTimeMs          float64
		TotalTimeMs          *float64
		Activity             string
		RecalcStyleIteration int64
		Key                  string
		IterationKey         string

		// Expanded from the event payload, nil for other event types.
		ElementCount    *int64
		Invalidation    *traceevent.Invalidation
		SelectorTimings []traceevent.SelectorTiming
	}

	Options struct {
		InvalidationTracking bool
	}
)

// Activity labels.
const (
	RecalculateStyleActivity           = "Recalculate Style"
	ScheduleStyleRecalculationActivity = "Schedule Style Recalculation"
	PerfMarkerPrefix                   = "Perf Marker: "
)

// EventKey identifies an event within the trace.
func EventKey(ts timeutil.Microseconds, threadID int64) string {
	return fmt.Sprintf("%d-%d", ts, threadID)
}

// IterationKey identifies a style recalculation pass of a thread.
func IterationKey(threadID, iteration int64) string {
	return fmt.Sprintf("%d-%d", threadID, iteration)
}

// ActivityOf returns the label shown for e.
func ActivityOf(e traceevent.Event) string {
	switch {
	case e.Name == traceevent.UpdateLayoutTree:
		return RecalculateStyleActivity
	case e.Name == traceevent.ScheduleStyleRecalculation:
		return ScheduleStyleRecalculationActivity
	case e.IsUserTiming():
		return PerfMarkerPrefix + e.Name
	}
	return e.Name
}

// Build returns the timeline of threadID, sorted by timestamp.
//
// The thread starts at the first of its events in table order, so events
// should still hold the markers kept by relevance.KeepMore.
func Build(events []traceevent.Event, threadID int64, options Options) ([]Row, error) {
	threadEvents := make([]traceevent.Event, 0, len(events))
	for _, e := range events {
		if e.ThreadID == threadID && !e.IsThreadName() {
			threadEvents = append(threadEvents, e)
		}
	}
	if len(threadEvents) == 0 {
		return nil, fmt.Errorf("timeline: %w: thread %d has no events", errorutil.ErrMissingStartTimestamp, threadID)
	}
	start := threadEvents[0].TimestampUs
	if start == 0 {
		return nil, fmt.Errorf("timeline: %w: first event of thread %d (%s) has no timestamp", errorutil.ErrMissingStartTimestamp, threadID, threadEvents[0].Name)
	}

	policy := relevance.Policy{Mode: relevance.KeepLess, InvalidationTracking: options.InvalidationTracking}
	threadEvents = policy.Apply(threadEvents)
	sort.SliceStable(threadEvents, func(i, j int) bool {
		return threadEvents[i].TimestampUs < threadEvents[j].TimestampUs
	})

	iterations := recalcStyleIterations(threadEvents)
	rows := make([]Row, 0, len(threadEvents))
	for i, e := range threadEvents {
		r := Row{
			Event:                e,
			StartTimeMs:          max(0, e.TimestampUs-start).Milliseconds(),
			Activity:             ActivityOf(e),
			RecalcStyleIteration: iterations[i],
			Key:                  EventKey(e.TimestampUs, e.ThreadID),
			IterationKey:         IterationKey(e.ThreadID, iterations[i]),
		}
		if e.DurationUs != nil {
			total := e.DurationUs.Milliseconds()
			r.TotalTimeMs = &total
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// BuildAll builds the timeline of every thread in threadIDs and concatenates
// them in ascending thread order. A thread without a start timestamp is
// skipped, unless no thread at all can be built.
func BuildAll(ctx context.Context, events []traceevent.Event, threadIDs []int64, options Options) ([]Row, error) {
	sorted := append([]int64(nil), threadIDs...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	perThread := make([][]traceevent.Event, len(sorted))
	for _, e := range events {
		if i, ok := bsearch.Find(sorted, e.ThreadID); ok {
			perThread[i] = append(perThread[i], e)
		}
	}

	timelines := make([][]Row, len(sorted))
	skipped := make([]error, len(sorted))
	g, ctx := errgroup.WithContext(ctx)
	for i := range sorted {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := Build(perThread[i], sorted[i], options)
			if errors.Is(err, errorutil.ErrMissingStartTimestamp) {
				log.Warn().Err(err).Int64("thread_id", sorted[i]).Msg("skipping thread")
				skipped[i] = err
				return nil
			}
			if err != nil {
				return err
			}
			timelines[i] = rows
			log.Debug().Int64("thread_id", sorted[i]).Int("rows", len(rows)).Msg("timeline built")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var count, built int
	for i, rows := range timelines {
		count += len(rows)
		if skipped[i] == nil {
			built++
		}
	}
	if built == 0 && len(sorted) > 0 {
		return nil, skipped[0]
	}
	all := make([]Row, 0, count)
	for _, rows := range timelines {
		all = append(all, rows...)
	}
	return all, nil
}
