// Package logging wires zerolog the way the rest of the ambient stack
// expects: level and format read from environment variables, JSON by
// default, never a package-global logger injected into core types.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel  = "NETCFGD_LOG_LEVEL"
	EnvLogFormat = "NETCFGD_LOG_FORMAT"
)

// New builds a zerolog.Logger from the environment. Unset or unparsable
// NETCFGD_LOG_LEVEL falls back to "info"; NETCFGD_LOG_FORMAT=console
// switches to a human-readable writer, otherwise JSON lines go to stdout.
func New() zerolog.Logger {
	levelStr := os.Getenv(EnvLogLevel)
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var w zerolog.Logger
	if os.Getenv(EnvLogFormat) == "console" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		w = zerolog.New(out).With().Timestamp().Logger()
	} else {
		w = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return w.Level(level)
}
