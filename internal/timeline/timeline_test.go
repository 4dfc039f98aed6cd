package timeline

import (
	"context"
	"errors"
	"testing"

	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/testutil"
	"github.com/getsentry/stylestats/internal/timeutil"
	"github.com/getsentry/stylestats/internal/traceevent"
)

func us(v int64) *timeutil.Microseconds {
	m := timeutil.Microseconds(v)
	return &m
}

func event(name string, tid int64, ts int64) traceevent.Event {
	return traceevent.Event{Name: name, Category: "devtools.timeline", ThreadID: tid, TimestampUs: timeutil.Microseconds(ts)}
}

func TestBuild(t *testing.T) {
	events := []traceevent.Event{
		{Name: traceevent.ThreadName, Category: "__metadata", ThreadID: 100},
		{Name: traceevent.NavigationStart, Category: "blink.user_timing", ThreadID: 100, TimestampUs: 1000},
		{Name: traceevent.UpdateLayoutTree, Category: "blink,devtools.timeline", ThreadID: 100, TimestampUs: 2000, DurationUs: us(500)},
		{Name: traceevent.SelectorStats, Category: "disabled-by-default-blink.debug", ThreadID: 100, TimestampUs: 2000, DurationUs: us(80)},
		{Name: "app-ready", Category: "blink.user_timing", ThreadID: 100, TimestampUs: 1500},
		{Name: traceevent.ScheduleStyleRecalculation, Category: "devtools.timeline", ThreadID: 100, TimestampUs: 1800},
		{Name: traceevent.Layout, Category: "devtools.timeline", ThreadID: 200, TimestampUs: 1900},
	}

	rows, err := Build(events, 100, Options{})
	if err != nil {
		t.Fatalf("we should be able to build the timeline: %v", err)
	}
	// Expanded payload columns are left to the arguments package.
	for i := range rows {
		rows[i].Event = traceevent.Event{Name: rows[i].Name}
	}
	want := []Row{
		{
			Event:        traceevent.Event{Name: "app-ready"},
			StartTimeMs:  0.5,
			Activity:     "Perf Marker: app-ready",
			Key:          "1500-100",
			IterationKey: "100-0",
		},
		{
			Event:        traceevent.Event{Name: traceevent.ScheduleStyleRecalculation},
			StartTimeMs:  0.8,
			Activity:     ScheduleStyleRecalculationActivity,
			Key:          "1800-100",
			IterationKey: "100-0",
		},
		{
			Event:        traceevent.Event{Name: traceevent.UpdateLayoutTree},
			StartTimeMs:  1,
			TotalTimeMs:  testutil.Float64(0.5),
			Activity:     RecalculateStyleActivity,
			Key:          "2000-100",
			IterationKey: "100-0",
		},
		{
			Event:                traceevent.Event{Name: traceevent.SelectorStats},
			StartTimeMs:          1,
			TotalTimeMs:          testutil.Float64(0.08),
			Activity:             traceevent.SelectorStats,
			RecalcStyleIteration: 1,
			Key:                  "2000-100",
			IterationKey:         "100-1",
		},
	}
	if diff := testutil.Diff(rows, want); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestBuildStartTimeIsClamped(t *testing.T) {
	// The anchoring marker is later than some of the events of the thread.
	events := []traceevent.Event{
		event(traceevent.RunTask, 1, 5000),
		event(traceevent.Layout, 1, 4000),
		event(traceevent.Layout, 1, 7000),
	}
	rows, err := Build(events, 1, Options{})
	if err != nil {
		t.Fatalf("we should be able to build the timeline: %v", err)
	}
	var previous float64
	for _, r := range rows {
		if r.StartTimeMs < 0 {
			t.Fatalf("start time should never be negative, got %v", r.StartTimeMs)
		}
		if r.StartTimeMs < previous {
			t.Fatalf("start time should be non-decreasing, got %v after %v", r.StartTimeMs, previous)
		}
		previous = r.StartTimeMs
	}
	if rows[0].StartTimeMs != 0 || rows[1].StartTimeMs != 2 {
		t.Fatalf("unexpected start times: %v, %v", rows[0].StartTimeMs, rows[1].StartTimeMs)
	}
}

func TestBuildMissingStartTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		events []traceevent.Event
	}{
		{name: "zero timestamp", events: []traceevent.Event{event(traceevent.Layout, 1, 0), event(traceevent.Layout, 1, 10)}},
		{name: "only a thread name", events: []traceevent.Event{event(traceevent.ThreadName, 1, 10)}},
		{name: "other thread", events: []traceevent.Event{event(traceevent.Layout, 2, 10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.events, 1, Options{}); !errors.Is(err, errorutil.ErrMissingStartTimestamp) {
				t.Fatalf("expected ErrMissingStartTimestamp, got %v", err)
			}
		})
	}
}

func TestBuildInvalidationTracking(t *testing.T) {
	events := []traceevent.Event{
		event(traceevent.RunTask, 1, 10),
		event(traceevent.StyleRecalcInvalidationTracking, 1, 20),
		event(traceevent.UpdateLayoutTree, 1, 30),
	}
	rows, err := Build(events, 1, Options{})
	if err != nil {
		t.Fatalf("we should be able to build the timeline: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected invalidation tracking to be dropped by default, got %d rows", len(rows))
	}
	rows, err = Build(events, 1, Options{InvalidationTracking: true})
	if err != nil {
		t.Fatalf("we should be able to build the timeline: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != traceevent.StyleRecalcInvalidationTracking {
		t.Fatalf("expected invalidation tracking to be kept, got %+v", rows)
	}
}

func TestBuildAll(t *testing.T) {
	events := []traceevent.Event{
		event(traceevent.RunTask, 300, 100),
		event(traceevent.RunTask, 100, 10),
		event(traceevent.UpdateLayoutTree, 300, 150),
		event(traceevent.UpdateLayoutTree, 100, 20),
		event(traceevent.Layout, 100, 30),
		event(traceevent.Layout, 200, 30),
	}
	rows, err := BuildAll(context.Background(), events, []int64{300, 100}, Options{})
	if err != nil {
		t.Fatalf("we should be able to build the timelines: %v", err)
	}
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		keys = append(keys, r.Key)
	}
	want := []string{"20-100", "30-100", "150-300"}
	if diff := testutil.Diff(keys, want); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestBuildAllSkipsThreadsWithoutStart(t *testing.T) {
	events := []traceevent.Event{
		event(traceevent.RunTask, 100, 10),
		event(traceevent.Layout, 100, 30),
		event(traceevent.Layout, 200, 0),
	}
	rows, err := BuildAll(context.Background(), events, []int64{100, 200}, Options{})
	if err != nil {
		t.Fatalf("a thread without start timestamp should be skipped: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	_, err = BuildAll(context.Background(), events, []int64{200}, Options{})
	if !errors.Is(err, errorutil.ErrMissingStartTimestamp) {
		t.Fatalf("expected ErrMissingStartTimestamp when no thread can be built, got %v", err)
	}
}

func TestActivityOf(t *testing.T) {
	tests := []struct {
		event traceevent.Event
		want  string
	}{
		{event: traceevent.Event{Name: traceevent.UpdateLayoutTree}, want: "Recalculate Style"},
		{event: traceevent.Event{Name: traceevent.ScheduleStyleRecalculation}, want: "Schedule Style Recalculation"},
		{event: traceevent.Event{Name: "hydrate", Category: "blink.user_timing"}, want: "Perf Marker: hydrate"},
		{event: traceevent.Event{Name: traceevent.Layout, Category: "devtools.timeline"}, want: "Layout"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ActivityOf(tt.event); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
