package traceevent

import (
	"fmt"

	"github.com/getsentry/stylestats/internal/errorutil"
	gojson "github.com/goccy/go-json"
)

type (
	threadNameArgs struct {
		Name string `json:"name"`
	}

	updateLayoutTreeArgs struct {
		ElementCount *int64 `json:"elementCount"`
		BeginData    *struct {
			ElementCount *int64 `json:"elementCount"`
		} `json:"beginData"`
	}

	invalidationTrackingArgs struct {
		Data *Invalidation `json:"data"`
	}

	selectorStatsArgs struct {
		SelectorStats *struct {
			SelectorTimings []SelectorTiming `json:"selector_timings"`
		} `json:"selector_stats"`
	}

	// Invalidation is the payload of the invalidation tracking events.
	Invalidation struct {
		ExtraData string `json:"extraData,omitempty"`
		NodeID    *int64 `json:"nodeId,omitempty"`
		NodeName  string `json:"nodeName,omitempty"`
		Reason    string `json:"reason,omitempty"`
		Subtree   *bool  `json:"subtree,omitempty"`
	}

	// SelectorTiming holds the matching counters of one selector during a
	// style recalculation.
	SelectorTiming struct {
		ElapsedUs       int64  `json:"elapsed (us)"`
		FastRejectCount int64  `json:"fast_reject_count"`
		MatchAttempts   int64  `json:"match_attempts"`
		MatchCount      int64  `json:"match_count"`
		SelectorText    string `json:"selector"`
		StyleSheetID    string `json:"style_sheet_id"`
	}
)

// RejectCount is the number of attempts that didn't match.
func (t SelectorTiming) RejectCount() int64 {
	return t.MatchAttempts - t.MatchCount
}

func (e Event) decodeArgs(v interface{}) error {
	if len(e.Args) == 0 {
		return nil
	}
	if err := gojson.Unmarshal(e.Args, v); err != nil {
		return fmt.Errorf("traceevent: %w: %s args at ts %d on thread %d: %v", errorutil.ErrMalformedInput, e.Name, e.TimestampUs, e.ThreadID, err)
	}
	return nil
}

// DecodeThreadName returns the thread name carried by a thread_name event.
func (e Event) DecodeThreadName() (string, error) {
	var a threadNameArgs
	if err := e.decodeArgs(&a); err != nil {
		return "", err
	}
	return a.Name, nil
}

// DecodeElementCount returns the number of elements an UpdateLayoutTree event
// recalculated, nil when the payload doesn't say.
func (e Event) DecodeElementCount() (*int64, error) {
	var a updateLayoutTreeArgs
	if err := e.decodeArgs(&a); err != nil {
		return nil, err
	}
	if a.ElementCount != nil {
		return a.ElementCount, nil
	}
	if a.BeginData != nil {
		return a.BeginData.ElementCount, nil
	}
	return nil, nil
}

// DecodeInvalidation returns the payload of an invalidation tracking event.
func (e Event) DecodeInvalidation() (*Invalidation, error) {
	var a invalidationTrackingArgs
	if err := e.decodeArgs(&a); err != nil {
		return nil, err
	}
	return a.Data, nil
}

// DecodeSelectorTimings returns the per selector counters of a SelectorStats event.
func (e Event) DecodeSelectorTimings() ([]SelectorTiming, error) {
	var a selectorStatsArgs
	if err := e.decodeArgs(&a); err != nil {
		return nil, err
	}
	if a.SelectorStats == nil {
		return nil, nil
	}
	return a.SelectorStats.SelectorTimings, nil
}
