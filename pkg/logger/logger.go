package logger

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New creates the logger for a command. Output goes through a console writer
// at info level, or debug level when verbose.
func New(verbose bool, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: noColor}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
