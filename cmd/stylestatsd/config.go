package main

type ServiceConfig struct {
	Environment string `env:"SENTRY_ENVIRONMENT" env-default:"development"`
	SentryDSN   string `env:"SENTRY_DSN"`
	Port        string `env:"PORT" env-default:"8080"`

	// BucketURL is where results are stored. gs:// buckets go through the
	// Cloud Storage client, any other scheme through the Go CDK.
	BucketURL string `env:"STYLESTATS_BUCKET_URL" env-default:"mem://"`
}
