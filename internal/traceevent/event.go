package traceevent

import (
	"encoding/json"
	"strings"

	"github.com/getsentry/stylestats/internal/timeutil"
)

type (
	// Event is one record of the traceEvents list. It's never modified once
	// loaded, derived values live on timeline rows.
	Event struct {
		Args              json.RawMessage        `json:"args,omitempty"`
		Category          string                 `json:"cat"`
		DurationUs        *timeutil.Microseconds `json:"dur,omitempty"`
		Name              string                 `json:"name"`
		Phase             string                 `json:"ph"`
		ProcessID         int64                  `json:"pid"`
		ThreadDurationUs  *timeutil.Microseconds `json:"tdur,omitempty"`
		Scope             string                 `json:"s,omitempty"`
		ThreadID          int64                  `json:"tid"`
		TimestampUs       timeutil.Microseconds  `json:"ts"`
		ThreadTimestampUs *timeutil.Microseconds `json:"tts,omitempty"`
	}

	// Trace is a loaded capture.
	Trace struct {
		Events   []Event
		Metadata map[string]interface{}
	}
)

// Event names the pipeline knows about.
const (
	ThreadName = "thread_name"

	TracingStartedInBrowser = "TracingStartedInBrowser"
	TracingStartedInPage    = "TracingStartedInPage"
	NavigationStart         = "navigationStart"
	FrameCommittedInBrowser = "FrameCommittedInBrowser"
	RunTask                 = "RunTask"

	SelectorStats              = "SelectorStats"
	UpdateLayoutTree           = "UpdateLayoutTree"
	ScheduleStyleRecalculation = "ScheduleStyleRecalculation"
	Layout                     = "Layout"
	LayoutShift                = "LayoutShift"
	ParseHTML                  = "ParseHTML"

	StyleRecalcInvalidationTracking      = "StyleRecalcInvalidationTracking"
	StyleInvalidatorInvalidationTracking = "StyleInvalidatorInvalidationTracking"
	ScheduleStyleInvalidationTracking    = "ScheduleStyleInvalidationTracking"
)

// UserTimingCategory is the category of performance.mark and
// performance.measure entries.
const UserTimingCategory = "blink.user_timing"

// RendererMainThreadName is the name the renderer gives its main thread.
const RendererMainThreadName = "CrRendererMain"

// Categories splits the comma separated category list.
func (e Event) Categories() []string {
	if e.Category == "" {
		return nil
	}
	categories := strings.Split(e.Category, ",")
	for i, c := range categories {
		categories[i] = strings.TrimSpace(c)
	}
	return categories
}

// HasCategory reports whether category is one of the event's categories.
func (e Event) HasCategory(category string) bool {
	for _, c := range e.Categories() {
		if c == category {
			return true
		}
	}
	return false
}

func (e Event) IsUserTiming() bool {
	return e.HasCategory(UserTimingCategory)
}

func (e Event) IsThreadName() bool {
	return e.Name == ThreadName
}

func (e Event) IsInvalidationTracking() bool {
	switch e.Name {
	case StyleRecalcInvalidationTracking,
		StyleInvalidatorInvalidationTracking,
		ScheduleStyleInvalidationTracking:
		return true
	}
	return false
}
