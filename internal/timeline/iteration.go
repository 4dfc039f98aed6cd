package timeline

import "github.com/getsentry/stylestats/internal/traceevent"

// recalcStyleIterations numbers the style recalculation pass each event
// belongs to. events must be sorted by timestamp.
//
// The first row counts itself, every later row sees the UpdateLayoutTree
// events strictly before it: a SelectorStats event emitted right after its
// UpdateLayoutTree is attributed to that completed pass.
func recalcStyleIterations(events []traceevent.Event) []int64 {
	iterations := make([]int64, len(events))
	var count int64
	for i, e := range events {
		isRecalc := e.Name == traceevent.UpdateLayoutTree
		if i == 0 && isRecalc {
			iterations[i] = 1
		} else {
			iterations[i] = count
		}
		if isRecalc {
			count++
		}
	}
	return iterations
}
