// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package logging builds the process-wide [*slog.Logger].

Production output is JSON on stdout, tagged with the application name, so it
can be shipped as-is. Development output goes through charmbracelet/log, which
implements [slog.Handler] and prints colored, human-readable lines on stderr.
*/
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/taibuivan/springfield/internal/platform/constants"
)

// Options selects the handler and level.
type Options struct {
	Development bool
	Debug       bool

	// Writer overrides the default destination (stdout or stderr).
	Writer io.Writer
}

// New creates a logger carrying the "app" attribute.
func New(options Options) *slog.Logger {
	level := slog.LevelInfo
	if options.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if options.Development {
		writer := options.Writer
		if writer == nil {
			writer = os.Stderr
		}
		charm := log.NewWithOptions(writer, log.Options{
			ReportTimestamp: true,
			Prefix:          constants.AppName,
		})
		charm.SetLevel(log.Level(level))
		handler = charm
	} else {
		writer := options.Writer
		if writer == nil {
			writer = os.Stdout
		}
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler).With(slog.String(constants.FieldApp, constants.AppName))
}

// NewConsole returns a charmbracelet logger for command-line tools.
func NewConsole(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
