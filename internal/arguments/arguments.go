// Package arguments projects the event payloads the reports need into
// timeline columns.
package arguments

import (
	"github.com/getsentry/stylestats/internal/timeline"
	"github.com/getsentry/stylestats/internal/traceevent"
)

// Expand returns a copy of rows with the payload columns of UpdateLayoutTree,
// invalidation tracking and SelectorStats rows filled in.
func Expand(rows []timeline.Row) ([]timeline.Row, error) {
	expanded := make([]timeline.Row, len(rows))
	for i, r := range rows {
		var err error
		switch {
		case r.Name == traceevent.UpdateLayoutTree:
			r.ElementCount, err = r.DecodeElementCount()
		case r.Name == traceevent.SelectorStats:
			r.SelectorTimings, err = r.DecodeSelectorTimings()
		case r.IsInvalidationTracking():
			r.Invalidation, err = r.DecodeInvalidation()
		}
		if err != nil {
			return nil, err
		}
		expanded[i] = r
	}
	return expanded, nil
}
