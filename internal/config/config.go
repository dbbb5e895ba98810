// Package config builds the structured logger that callers hand to a
// Sheet via sheet.WithLogger. There is
// no file- or environment-based configuration surface — the engine
// has no persistence or network boundary to configure (SPEC_FULL.md,
// DOMAIN STACK) — so this package is deliberately small.
package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the engine's structured logger at the given level.
// Use zapcore.InfoLevel for normal operation and zapcore.DebugLevel
// to see per-edit and dependency-graph diagnostics.
func NewLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	return cfg.Build()
}

// MustNewLogger is NewLogger for call sites (notably cmd/sheetctl)
// that have no better recourse than to fail fast on a broken logging
// pipeline.
func MustNewLogger(level zapcore.Level) *zap.Logger {
	l, err := NewLogger(level)
	if err != nil {
		panic(err)
	}
	return l
}
