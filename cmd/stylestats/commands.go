package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"

	"github.com/getsentry/stylestats/internal/config"
	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/pipeline"
	"github.com/getsentry/stylestats/internal/report"
	"github.com/getsentry/stylestats/internal/storageprovider"
)

func (c *RunCommand) Execute(_ []string) error {
	return execute("run", c.globals, func(r pipeline.Result) []report.Table {
		return r.Tables()
	})
}

func (c *TimelineCommand) Execute(_ []string) error {
	return execute("timeline", c.globals, func(r pipeline.Result) []report.Table {
		return []report.Table{report.TimelineTable(r.Rows)}
	})
}

func (c *SelectorsCommand) Execute(_ []string) error {
	return execute("selectors", c.globals, func(r pipeline.Result) []report.Table {
		return []report.Table{
			report.SelectorsTable(r.Selectors),
			report.SelectorTimingsTable(r.Timings),
		}
	})
}

func execute(command string, globals *GlobalFlags, tables func(pipeline.Result) []report.Table) error {
	configureLogger(globals)

	ctx, span := newContext(command)
	defer span.Finish()

	src, err := source(globals)
	if err != nil {
		log.Error().Err(err).Msg("can't read the configuration")
		return err
	}

	result, err := pipeline.Run(ctx, src, storageprovider.ReadTrace)
	if err != nil {
		if !errorutil.IsInputError(err) {
			sentry.CaptureException(err)
		}
		log.Error().Err(err).Msg("can't process the trace")
		return err
	}
	log.Info().
		Ints64("thread_ids", result.ThreadIDs).
		Int("rows", len(result.Rows)).
		Int("selectors", len(result.Selectors)).
		Msg("trace processed")

	err = write(globals.Out, result.Options.OutputFormat, tables(result))
	if err != nil {
		log.Error().Err(err).Msg("can't write the tables")
	}
	return err
}

// source layers the command line flags over the configuration file.
func source(globals *GlobalFlags) (config.Tables, error) {
	tables := config.Tables{}
	if globals.Config != "" {
		var err error
		tables, err = config.Load(globals.Config)
		if err != nil {
			return nil, err
		}
	}
	parameters := tables[pipeline.ParametersTable]
	if parameters == nil {
		parameters = make(map[string]interface{})
		tables[pipeline.ParametersTable] = parameters
	}
	overrides := []struct {
		name  string
		value string
	}{
		{"TraceFilePath", globals.Trace},
		{"Pipeline", globals.Pipeline},
		{"FilterMode", globals.FilterMode},
		{"SlowRejectVariant", globals.SlowRejectVariant},
		{"OutputFormat", globals.Format},
	}
	for _, o := range overrides {
		if o.value != "" {
			parameters[o.name] = o.value
		}
	}
	if globals.InvalidationTracking {
		parameters["InvalidationTracking"] = true
	}
	return tables, nil
}

func write(dir, format string, tables []report.Table) error {
	if dir == "" {
		return report.Write(os.Stdout, format, tables)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, t := range tables {
		path := filepath.Join(dir, fmt.Sprintf("%s.%s", t.Name, format))
		if err := writeFile(path, format, t); err != nil {
			return err
		}
		log.Debug().Str("path", path).Int("rows", len(t.Rows)).Msg("table written")
	}
	return nil
}

func writeFile(path, format string, t report.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(f, format, []report.Table{t}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
