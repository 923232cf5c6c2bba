package logging

import (
	"go.uber.org/zap"
)

type LogOpts struct {
	Verbose bool
	JSON    bool
}

// NewLogger builds the process logger: development config (human console
// output, debug level) when verbose, production config otherwise, with an
// optional JSON encoding override for machine consumers.
func NewLogger(opts LogOpts) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	if opts.JSON {
		cfg.Encoding = "json"
	}
	return cfg.Build()
}

// MustLogger is NewLogger for main functions that have no way to report the
// failure anywhere else.
func MustLogger(opts LogOpts) *zap.Logger {
	log, err := NewLogger(opts)
	if err != nil {
		panic(err)
	}
	return log
}
