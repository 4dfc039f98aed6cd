package arguments

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/testutil"
	"github.com/getsentry/stylestats/internal/timeline"
	"github.com/getsentry/stylestats/internal/traceevent"
)

func row(name, args string) timeline.Row {
	return timeline.Row{
		Event: traceevent.Event{Name: name, Args: json.RawMessage(args)},
		Key:   name,
	}
}

func TestExpand(t *testing.T) {
	rows := []timeline.Row{
		row(traceevent.UpdateLayoutTree, `{"elementCount":10}`),
		row(traceevent.StyleRecalcInvalidationTracking, `{"data":{"nodeId":3,"nodeName":"BODY","reason":"Inline CSS style declaration was mutated"}}`),
		row(traceevent.SelectorStats, `{"selector_stats":{"selector_timings":[{"elapsed (us)":5,"match_attempts":2,"match_count":1,"fast_reject_count":0,"selector":"p","style_sheet_id":"1"}]}}`),
		row(traceevent.Layout, `{"elementCount":99}`),
	}
	got, err := Expand(rows)
	if err != nil {
		t.Fatalf("we should be able to expand the rows: %v", err)
	}

	want := make([]timeline.Row, len(rows))
	copy(want, rows)
	want[0].ElementCount = testutil.Int64(10)
	want[1].Invalidation = &traceevent.Invalidation{NodeID: testutil.Int64(3), NodeName: "BODY", Reason: "Inline CSS style declaration was mutated"}
	want[2].SelectorTimings = []traceevent.SelectorTiming{{ElapsedUs: 5, MatchAttempts: 2, MatchCount: 1, SelectorText: "p", StyleSheetID: "1"}}
	if diff := testutil.Diff(got, want); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}

	for i, r := range rows {
		if r.ElementCount != nil || r.Invalidation != nil || r.SelectorTimings != nil {
			t.Fatalf("input row %d should not be modified", i)
		}
	}
}

func TestExpandMalformedPayload(t *testing.T) {
	rows := []timeline.Row{row(traceevent.UpdateLayoutTree, `{"elementCount":"many"}`)}
	if _, err := Expand(rows); !errors.Is(err, errorutil.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}
