// Package logger builds the zerolog loggers handed to every long-lived component.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level      string `toml:"level"`
	Debug      bool   `toml:"-"`
	Output     string `toml:"output"`
	TimeFormat string `toml:"-"`
}

// DefaultConfig logs info and above to stderr so stdout stays free for
// command output.
func DefaultConfig() Config {
	return Config{Level: "info", Output: "stderr"}
}

// New builds a logger from cfg. Output is "stderr", "stdout", "console"
// (human-readable on stderr) or "none".
func New(cfg Config) (zerolog.Logger, error) {
	var output io.Writer

	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	case "console":
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	case "none":
		return zerolog.Nop(), nil
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log output %q", cfg.Output)
	}

	return NewWithWriter(cfg, output)
}

// NewWithWriter builds a logger that writes JSON lines to w.
func NewWithWriter(cfg Config, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel

	if cfg.Debug {
		level = zerolog.DebugLevel
	} else if cfg.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), err
		}
	}

	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// WithComponent tags every event from l with a component name.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// NewTestLogger returns a logger that drops everything.
func NewTestLogger() zerolog.Logger {
	return zerolog.Nop()
}

// DebugfAdapter routes printf-style debug hooks (as used by HTTP client
// libraries) into a zerolog logger at debug level.
type DebugfAdapter struct {
	Logger zerolog.Logger
}

func (a DebugfAdapter) Debugf(format string, args ...interface{}) {
	a.Logger.Debug().Msgf(format, args...)
}
