package main

import (
	"context"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/ilyakaznacheev/cleanenv"
	goflags "github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/getsentry/stylestats/internal/logutil"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

var release string

type sentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" env-default:"development"`
}

type commands struct {
	Run       *RunCommand
	Timeline  *TimelineCommand
	Selectors *SelectorsCommand
}

func buildParser() (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "stylestats"
	parser.LongDescription = "Style recalculation and selector matching statistics from DevTools performance traces."

	cmds := &commands{
		Run:       &RunCommand{globals: &globals},
		Timeline:  &TimelineCommand{globals: &globals},
		Selectors: &SelectorsCommand{globals: &globals},
	}

	_, _ = parser.AddCommand("run", "Write every table", "Write the timeline, selectors and selector_timings tables.", cmds.Run)
	_, _ = parser.AddCommand("timeline", "Write the timeline table", "Write the style recalculation timeline of the render threads.", cmds.Timeline)
	_, _ = parser.AddCommand("selectors", "Write the selector tables", "Write the per selector report and the flattened selector timings.", cmds.Selectors)

	return parser, &globals, cmds
}

func runWithArgs(args []string) error {
	parser, _, _ := buildParser()
	_, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}

func main() {
	var config sentryConfig
	if err := cleanenv.ReadEnv(&config); err != nil {
		log.Fatal().Err(err).Msg("can't read the environment")
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              config.DSN,
		EnableTracing:    true,
		Environment:      config.Environment,
		Release:          release,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("can't initialize sentry")
	}
	defer sentry.Flush(5 * time.Second)

	if err := runWithArgs(os.Args[1:]); err != nil {
		sentry.Flush(5 * time.Second)
		os.Exit(1)
	}
}

func newContext(command string) (context.Context, *sentry.Span) {
	span := sentry.StartSpan(context.Background(), "cli", sentry.TransactionName("stylestats "+command))
	return span.Context(), span
}

func configureLogger(globals *GlobalFlags) {
	logutil.ConfigureLogger(logutil.VerbosityLevel(len(globals.Verbose)))
}
