// Package relevance selects the trace events the style recalculation
// timeline is built from.
package relevance

import (
	"fmt"
	"strings"

	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/traceevent"
)

// Mode decides how much of the trace a filter keeps.
type Mode int

const (
	// KeepMore keeps the timeline events and the markers needed to resolve
	// threads and anchor their start time.
	KeepMore Mode = iota
	// KeepLess keeps only what ends up in the reported timeline.
	KeepLess
)

func (m Mode) String() string {
	switch m {
	case KeepMore:
		return "KeepMore"
	case KeepLess:
		return "KeepLess"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the mode names, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keepmore", "keep-more", "more":
		return KeepMore, nil
	case "keepless", "keep-less", "less":
		return KeepLess, nil
	}
	return 0, fmt.Errorf("relevance: %w: %q", errorutil.ErrInvalidFilterMode, s)
}

var (
	bootstrapEvents = map[string]struct{}{
		traceevent.ThreadName:              {},
		traceevent.TracingStartedInBrowser: {},
		traceevent.TracingStartedInPage:    {},
		traceevent.NavigationStart:         {},
		traceevent.FrameCommittedInBrowser: {},
		traceevent.RunTask:                 {},
	}

	timelineEvents = map[string]struct{}{
		traceevent.SelectorStats:              {},
		traceevent.UpdateLayoutTree:           {},
		traceevent.ScheduleStyleRecalculation: {},
		traceevent.Layout:                     {},
		traceevent.LayoutShift:                {},
		traceevent.ParseHTML:                  {},
	}
)

// IsBootstrap reports whether e is only needed to resolve threads or anchor
// their start time.
func IsBootstrap(e traceevent.Event) bool {
	_, ok := bootstrapEvents[e.Name]
	return ok
}

// Policy is a filter mode with its options.
type Policy struct {
	Mode Mode
	// InvalidationTracking also places invalidation tracking events in the
	// timeline.
	InvalidationTracking bool
}

// IsTimelineEvent reports whether e belongs in the reported timeline.
func (p Policy) IsTimelineEvent(e traceevent.Event) bool {
	if _, ok := timelineEvents[e.Name]; ok {
		return true
	}
	if p.InvalidationTracking && e.IsInvalidationTracking() {
		return true
	}
	return e.IsUserTiming() && !IsBootstrap(e)
}

// Keep reports whether e passes the filter.
func (p Policy) Keep(e traceevent.Event) bool {
	if p.IsTimelineEvent(e) {
		return true
	}
	return p.Mode == KeepMore && IsBootstrap(e)
}

// Apply returns the events passing the filter, in their original order.
func (p Policy) Apply(events []traceevent.Event) []traceevent.Event {
	kept := make([]traceevent.Event, 0, len(events)/4)
	for _, e := range events {
		if p.Keep(e) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Filter applies the default policy for mode.
func Filter(events []traceevent.Event, mode Mode) []traceevent.Event {
	return Policy{Mode: mode}.Apply(events)
}
