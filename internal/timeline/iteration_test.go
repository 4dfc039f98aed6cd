package timeline

import (
	"testing"

	"github.com/getsentry/stylestats/internal/testutil"
	"github.com/getsentry/stylestats/internal/traceevent"
)

func sequence(names ...string) []traceevent.Event {
	events := make([]traceevent.Event, 0, len(names))
	for _, n := range names {
		events = append(events, traceevent.Event{Name: n})
	}
	return events
}

const (
	ult = traceevent.UpdateLayoutTree
	ss  = traceevent.SelectorStats
	lay = traceevent.Layout
)

func TestRecalcStyleIterations(t *testing.T) {
	tests := []struct {
		name   string
		events []traceevent.Event
		want   []int64
	}{
		{name: "empty", events: nil, want: []int64{}},
		{name: "first row is a recalculation", events: sequence(ult, ss, ult, ss), want: []int64{1, 1, 1, 2}},
		{name: "first row is something else", events: sequence(lay, ult, ss, ult, ss), want: []int64{0, 0, 1, 1, 2}},
		{name: "consecutive recalculations", events: sequence(lay, ult, ult, ult, ss), want: []int64{0, 0, 1, 2, 3}},
		{name: "no recalculation", events: sequence(lay, ss, lay), want: []int64{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := testutil.Diff(recalcStyleIterations(tt.events), tt.want); diff != "" {
				t.Fatalf("Result mismatch: got - want +\n%s", diff)
			}
		})
	}
}

func TestRecalcStyleIterationsMatchesPrecedingCount(t *testing.T) {
	events := sequence(lay, ult, ss, lay, ult, ult, ss, lay, ult, ss)
	got := recalcStyleIterations(events)
	var count int64
	for i := range events {
		if i > 0 {
			if got[i] != count {
				t.Fatalf("row %d: expected %d, got %d", i, count, got[i])
			}
			if got[i] < got[i-1] {
				t.Fatalf("row %d: iteration decreased from %d to %d", i, got[i-1], got[i])
			}
		}
		if events[i].Name == ult {
			count++
		}
	}
}
