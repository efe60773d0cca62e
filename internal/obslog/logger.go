// Package obslog configures the process-wide zerolog logger: a console
// writer for humans, level driven by a repeatable -v flag rather than an
// environment variable.
package obslog

import (
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger and returns it. verbosity
// is the count of -v flags: 0 is Info, 1 is Debug, 2+ is Trace.
func Setup(verbosity int) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case verbosity >= 2:
		level = zerolog.TraceLevel
	case verbosity == 1:
		level = zerolog.DebugLevel
	}

	noColor := os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stderr.Fd())

	writer := zerolog.ConsoleWriter{
		Out:     colorable.NewColorable(os.Stderr),
		NoColor: noColor,
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger
	log = logger
	return logger
}

var log = zerolog.Nop()

// Logger returns the process-wide logger configured by Setup, or a no-op
// logger if Setup has not run yet (e.g. in tests).
func Logger() zerolog.Logger {
	return log
}
