// Package thread identifies the threads carrying the style recalculation
// work of a trace.
package thread

import (
	"fmt"
	"sort"

	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/traceevent"
)

// InvalidationTrackingEvents is the default priority list used to find the
// renderer thread when a trace carries a single one.
var InvalidationTrackingEvents = []string{
	traceevent.StyleRecalcInvalidationTracking,
	traceevent.StyleInvalidatorInvalidationTracking,
	traceevent.ScheduleStyleInvalidationTracking,
	traceevent.ScheduleStyleRecalculation,
	traceevent.UpdateLayoutTree,
}

// ResolveRenderThreads returns the sorted IDs of the threads named after the
// renderer main thread.
func ResolveRenderThreads(events []traceevent.Event) ([]int64, error) {
	seen := make(map[int64]struct{})
	for _, e := range events {
		if !e.IsThreadName() {
			continue
		}
		name, err := e.DecodeThreadName()
		if err != nil {
			return nil, err
		}
		if name == traceevent.RendererMainThreadName {
			seen[e.ThreadID] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("thread: %w: no %s thread_name event", errorutil.ErrNoRenderThreadFound, traceevent.RendererMainThreadName)
	}
	threadIDs := make([]int64, 0, len(seen))
	for tid := range seen {
		threadIDs = append(threadIDs, tid)
	}
	sort.Slice(threadIDs, func(i, j int) bool {
		return threadIDs[i] < threadIDs[j]
	})
	return threadIDs, nil
}

// FindByEventNames returns the thread of the first event named after the
// highest priority name having any match. Names are tried in order and each
// one is searched across the whole table.
func FindByEventNames(events []traceevent.Event, names []string) (int64, error) {
	for _, name := range names {
		for _, e := range events {
			if e.Name == name {
				return e.ThreadID, nil
			}
		}
	}
	return 0, fmt.Errorf("thread: %w: no event named any of %v", errorutil.ErrNoRenderThreadFound, names)
}
