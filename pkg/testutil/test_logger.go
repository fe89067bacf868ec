package testutil

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// testLogWriter forwards log lines to t.Log.
type testLogWriter struct {
	t *testing.T
}

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewTestLogger creates a debug-level logger that writes to the provided
// testing.T.
func NewTestLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: testLogWriter{t: t}, NoColor: true}).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}
