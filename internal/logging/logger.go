// Package logging builds the zap logger shared by every command.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv overrides the level chosen from flags when set.
const LevelEnv = "LOG_LEVEL"

type Options struct {
	Verbose bool
	Writer  io.Writer
}

// New returns a console logger writing to opts.Writer (stderr by default) at warn
// level, or debug level when Verbose is set.
func New(opts Options) *zap.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	if env := os.Getenv(LevelEnv); env != "" {
		level = ParseLevel(env, level)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}

// ParseLevel maps a level name to a zap level, returning fallback for unknown names.
func ParseLevel(name string, fallback zapcore.Level) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return fallback
	}
	return level
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.NameKey = "N"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
