package testutil

import (
	"testing"

	"goyave.dev/emailvalidator/slog"
)

// LogWriter implementation of `io.Writer` redirecting the logs to `testing.T.Log()`
type LogWriter struct {
	t interface {
		Log(args ...any)
	}
}

// NewLogWriter create a new `LogWriter` writing to the given test's log.
func NewLogWriter(t interface{ Log(args ...any) }) *LogWriter {
	return &LogWriter{t: t}
}

func (w LogWriter) Write(b []byte) (int, error) {
	w.t.Log(string(b))
	return len(b), nil
}

// NewTestLogger create a new logger using the dev mode handler and
// redirecting its output to `testing.T.Log()`.
func NewTestLogger(t *testing.T) *slog.Logger {
	return slog.New(slog.NewHandler(true, NewLogWriter(t)))
}
