package logger

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelFlag  = "log-level"
	logFormatFlag = "log-format"
)

func NewLoggerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    logLevelFlag,
			Value:   "info",
			Usage:   "minimum log level: debug, info, warn, error",
			EnvVars: []string{"LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    logFormatFlag,
			Value:   "json",
			Usage:   "log encoding: json or console",
			EnvVars: []string{"LOG_FORMAT"},
		},
	}
}

// NewLogger builds the process logger from the flags. The returned func
// flushes buffered entries and should be deferred by the caller.
func NewLogger(c *cli.Context) (*zap.Logger, func(), error) {
	return New(c.String(logLevelFlag), c.String(logFormatFlag))
}

func New(level, format string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return l, func() { _ = l.Sync() }, nil
}
