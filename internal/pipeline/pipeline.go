// Package pipeline chains the stages turning a trace into the style
// recalculation tables.
package pipeline

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"

	"github.com/getsentry/stylestats/internal/arguments"
	"github.com/getsentry/stylestats/internal/config"
	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/relevance"
	"github.com/getsentry/stylestats/internal/report"
	"github.com/getsentry/stylestats/internal/selectorstats"
	"github.com/getsentry/stylestats/internal/thread"
	"github.com/getsentry/stylestats/internal/timeline"
	"github.com/getsentry/stylestats/internal/traceevent"
)

type (
	// TraceReader loads the trace at location.
	TraceReader func(ctx context.Context, location string) (traceevent.Trace, error)

	Result struct {
		Options   Options
		ThreadIDs []int64
		Rows      []selectorstats.Row
		Selectors []selectorstats.SelectorReport
		Timings   []selectorstats.TimingRow
	}
)

// Run reads its options and the trace location from src, then processes the
// trace.
func Run(ctx context.Context, src config.Source, read TraceReader) (Result, error) {
	options, err := OptionsFromConfig(src)
	if err != nil {
		return Result{}, err
	}
	location, err := config.GetFilePathConfigValue(src, ParametersTable, "TraceFilePath", nil)
	if err != nil {
		return Result{}, err
	}

	s := sentry.StartSpan(ctx, "trace.load")
	s.Description = location
	trace, err := read(s.Context(), location)
	s.Finish()
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: can't load %s: %w", location, err)
	}
	log.Debug().Str("location", location).Int("events", len(trace.Events)).Msg("trace loaded")

	return RunTrace(ctx, trace, options)
}

// RunTrace processes an already loaded trace. Nothing is returned unless
// every stage succeeds.
func RunTrace(ctx context.Context, trace traceevent.Trace, options Options) (Result, error) {
	var (
		rows []timeline.Row
		tids []int64
		key  selectorstats.KeyFunc
		err  error
	)
	if err := options.validate(); err != nil {
		return Result{}, err
	}
	switch options.Kind {
	case SingleThread:
		rows, tids, err = buildSingleThread(ctx, trace.Events, options)
		key = selectorstats.ByEventKey
	case MultiThread, "":
		rows, tids, err = buildMultiThread(ctx, trace.Events, options)
		key = selectorstats.ByIterationKey
	default:
		err = fmt.Errorf("pipeline: %w: unknown pipeline %q", errorutil.ErrInvalidParameter, options.Kind)
	}
	if err != nil {
		return Result{}, err
	}

	s := sentry.StartSpan(ctx, "arguments.expand")
	rows, err = arguments.Expand(rows)
	s.Finish()
	if err != nil {
		return Result{}, err
	}

	s = sentry.StartSpan(ctx, "selectorstats.aggregate")
	defer s.Finish()
	aggregates := selectorstats.BuildAggregates(rows, key, options.SlowRejectVariant)
	attached, err := selectorstats.Attach(rows, aggregates, key)
	if err != nil {
		return Result{}, err
	}
	log.Debug().Int("rows", len(attached)).Int("aggregates", len(aggregates)).Msg("selector stats aggregated")

	return Result{
		Options:   options,
		ThreadIDs: tids,
		Rows:      attached,
		Selectors: selectorstats.BySelector(rows, options.SlowRejectVariant),
		Timings:   selectorstats.Timings(rows, options.SlowRejectVariant),
	}, nil
}

// buildMultiThread resolves the render threads on every event, so the
// thread_name markers count even when the filter mode drops them. With
// KeepLess, threads are anchored on their first timeline event instead of
// their bootstrap markers.
func buildMultiThread(ctx context.Context, events []traceevent.Event, options Options) ([]timeline.Row, []int64, error) {
	s := sentry.StartSpan(ctx, "thread.resolve")
	tids, err := thread.ResolveRenderThreads(events)
	s.Finish()
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Ints64("thread_ids", tids).Msg("render threads resolved")

	s = sentry.StartSpan(ctx, "relevance.filter")
	policy := relevance.Policy{Mode: options.FilterMode, InvalidationTracking: options.InvalidationTracking}
	filtered := policy.Apply(events)
	s.Finish()
	log.Debug().Str("mode", options.FilterMode.String()).Int("events", len(filtered)).Msg("events filtered")

	s = sentry.StartSpan(ctx, "timeline.build")
	defer s.Finish()
	rows, err := timeline.BuildAll(s.Context(), filtered, tids, timeline.Options{
		InvalidationTracking: options.InvalidationTracking,
	})
	if err != nil {
		return nil, nil, err
	}
	return rows, tids, nil
}

func buildSingleThread(ctx context.Context, events []traceevent.Event, options Options) ([]timeline.Row, []int64, error) {
	s := sentry.StartSpan(ctx, "thread.resolve")
	tid, err := thread.FindByEventNames(events, thread.InvalidationTrackingEvents)
	s.Finish()
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Int64("thread_id", tid).Msg("render thread resolved")

	s = sentry.StartSpan(ctx, "relevance.filter")
	var filtered []traceevent.Event
	if options.InvalidationTracking {
		filtered = relevance.ByCategory(events, traceevent.Event.IsInvalidationTracking)
	} else {
		filtered = relevance.ByCategory(events)
	}
	s.Finish()
	log.Debug().Int("events", len(filtered)).Msg("events filtered")

	s = sentry.StartSpan(ctx, "timeline.build")
	defer s.Finish()
	rows, err := timeline.Build(filtered, tid, timeline.Options{
		InvalidationTracking: options.InvalidationTracking,
	})
	if err != nil {
		return nil, nil, err
	}
	return rows, []int64{tid}, nil
}

// Tables lays the result out for presentation.
func (r Result) Tables() []report.Table {
	return []report.Table{
		report.TimelineTable(r.Rows),
		report.SelectorsTable(r.Selectors),
		report.SelectorTimingsTable(r.Timings),
	}
}
