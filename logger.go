package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger      *zap.SugaredLogger
	AtomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() {
	SetLogLevel(StringEnv("LOG_LEVEL", "INFO"))
	logger, err := newLogger(AtomicLevel)
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}
	Logger = logger.Sugar()
}

// SetLogLevel is called again after .env is loaded.
func SetLogLevel(level string) {
	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		log.Printf("failed to parse log level %q, fallback to INFO: %v", level, err)
		AtomicLevel.SetLevel(zap.InfoLevel)
		return
	}
	AtomicLevel.SetLevel(parsed.Level())
}

// newLogger writes to stderr so that the child processes keep stdout to
// themselves.
func newLogger(level zap.AtomicLevel) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = level
	config.Sampling = nil
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	if json, err := BoolEnv("LOG_JSON", false); err != nil || !json {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return config.Build()
}
