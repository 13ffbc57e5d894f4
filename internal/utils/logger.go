package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the structured logger used by the compiler phases.
// "debug" gives the development logger; other levels use the production config.
// An empty level or "off" returns a no-op logger.
func NewLogger(level string) (*zap.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "", "off", "none":
		return zap.NewNop(), nil
	case "debug":
		return zap.NewDevelopment()
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// MustLogger is NewLogger falling back to a no-op logger on an invalid level
func MustLogger(level string) *zap.Logger {
	logger, err := NewLogger(level)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
