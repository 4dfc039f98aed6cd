package relevance

import "github.com/getsentry/stylestats/internal/traceevent"

var (
	allowedEvents = map[string]struct{}{
		traceevent.SelectorStats:              {},
		traceevent.ScheduleStyleRecalculation: {},
		traceevent.Layout:                     {},
		traceevent.ParseHTML:                  {},
		traceevent.UpdateLayoutTree:           {},
	}

	deniedCategories = map[string]struct{}{
		"loading":                               {},
		"v8":                                    {},
		"v8.execute":                            {},
		"disabled-by-default-v8.compile":        {},
		"disabled-by-default-v8.gc":             {},
		"disabled-by-default-v8.cpu_profiler":   {},
		"devtools.timeline":                     {},
		"disabled-by-default-devtools.timeline": {},
		"disabled-by-default-devtools.timeline.paint":                {},
		"disabled-by-default-devtools.timeline.frame":                {},
		"disabled-by-default-devtools.timeline.invalidationTracking": {},
		"disabled-by-default-devtools.screenshot":                    {},
		"blink.animations":                      {},
		"disabled-by-default-layout_animations": {},
	}
)

func allowedByName(e traceevent.Event) bool {
	if _, ok := allowedEvents[e.Name]; ok {
		return true
	}
	return e.IsUserTiming()
}

func deniedByCategory(e traceevent.Event) bool {
	for _, c := range e.Categories() {
		if _, ok := deniedCategories[c]; ok {
			return true
		}
	}
	return false
}

// ByCategory keeps everything except the noisy categories. Events allowed by
// name, or by one of the also predicates, are kept even when one of their
// categories is denied.
func ByCategory(events []traceevent.Event, also ...func(traceevent.Event) bool) []traceevent.Event {
	kept := make([]traceevent.Event, 0, len(events)/4)
	for _, e := range events {
		if allowedByName(e) || allowedByPredicate(e, also) || !deniedByCategory(e) {
			kept = append(kept, e)
		}
	}
	return kept
}

func allowedByPredicate(e traceevent.Event, predicates []func(traceevent.Event) bool) bool {
	for _, p := range predicates {
		if p(e) {
			return true
		}
	}
	return false
}
