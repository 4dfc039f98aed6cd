package pipeline

import (
	"fmt"
	"strings"

	"github.com/getsentry/stylestats/internal/config"
	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/relevance"
	"github.com/getsentry/stylestats/internal/report"
	"github.com/getsentry/stylestats/internal/selectorstats"
)

// ParametersTable is the configuration table holding the run parameters.
const ParametersTable = "Parameters"

const (
	MultiThread  Kind = "multi"
	SingleThread Kind = "single"
)

type (
	// Kind selects how render threads are found and how their events are
	// filtered.
	Kind string

	Options struct {
		Kind                 Kind
		FilterMode           relevance.Mode
		SlowRejectVariant    selectorstats.SlowRejectVariant
		InvalidationTracking bool
		OutputFormat         string
	}
)

// DefaultOptions returns the options used when nothing is configured for
// kind.
func DefaultOptions(kind Kind) Options {
	o := Options{
		Kind:         kind,
		FilterMode:   relevance.KeepMore,
		OutputFormat: report.CSVFormat,
	}
	if kind == SingleThread {
		o.SlowRejectVariant = selectorstats.SlowRejectIncludingMatches
	}
	return o
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case MultiThread, SingleThread:
		return k, nil
	case "":
		return MultiThread, nil
	}
	return "", fmt.Errorf("pipeline: %w: unknown pipeline %q", errorutil.ErrInvalidParameter, s)
}

// validate rejects the filter modes a pipeline can't apply. The single thread
// pipeline filters by category and only runs with the default mode.
func (o Options) validate() error {
	if o.Kind == SingleThread && o.FilterMode != relevance.KeepMore {
		return fmt.Errorf("pipeline: %w: %s isn't supported by the single thread pipeline", errorutil.ErrInvalidFilterMode, o.FilterMode)
	}
	return nil
}

// OptionsFromConfig reads the options from the Parameters table. Absent
// parameters take their default for the configured pipeline.
func OptionsFromConfig(src config.Source) (Options, error) {
	rawKind, err := config.GetString(src, ParametersTable, "Pipeline", string(MultiThread))
	if err != nil {
		return Options{}, err
	}
	kind, err := ParseKind(rawKind)
	if err != nil {
		return Options{}, err
	}
	o := DefaultOptions(kind)

	rawMode, err := config.GetString(src, ParametersTable, "FilterMode", o.FilterMode.String())
	if err != nil {
		return Options{}, err
	}
	o.FilterMode, err = relevance.ParseMode(rawMode)
	if err != nil {
		return Options{}, err
	}
	if err := o.validate(); err != nil {
		return Options{}, err
	}

	rawVariant, err := config.GetString(src, ParametersTable, "SlowRejectVariant", o.SlowRejectVariant.String())
	if err != nil {
		return Options{}, err
	}
	o.SlowRejectVariant, err = selectorstats.ParseSlowRejectVariant(rawVariant)
	if err != nil {
		return Options{}, err
	}

	o.InvalidationTracking, err = config.GetBool(src, ParametersTable, "InvalidationTracking", false)
	if err != nil {
		return Options{}, err
	}

	format, err := config.GetString(src, ParametersTable, "OutputFormat", o.OutputFormat)
	if err != nil {
		return Options{}, err
	}
	switch format = strings.ToLower(strings.TrimSpace(format)); format {
	case report.CSVFormat, report.JSONFormat:
		o.OutputFormat = format
	default:
		return Options{}, fmt.Errorf("pipeline: %w: unknown output format %q", errorutil.ErrInvalidParameter, format)
	}
	return o, nil
}
