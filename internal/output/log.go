// Package output provides the terminal logger of the dsg command.
package output

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/syssam/dsg/compiler/gen"
)

// LogConfig configures a Logger.
type LogConfig struct {
	// Verbose enables debug messages, timestamps and callers.
	Verbose bool
	// Timestamps overrides the timestamp default (on). Verbose forces it on.
	Timestamps *bool
}

func (c LogConfig) timestamps() bool {
	if c.Verbose {
		return true
	}
	if c.Timestamps != nil {
		return *c.Timestamps
	}
	return true
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// Logger writes the progress of a run to the terminal.
type Logger struct {
	*log.Logger
	now func() time.Time
}

var _ gen.Logger = (*Logger)(nil)

// New returns a Logger writing to w. A nil w writes to stderr.
func New(w io.Writer, cfg LogConfig) *Logger {
	if w == nil {
		w = os.Stderr
	}
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	return &Logger{
		Logger: log.NewWithOptions(w, log.Options{
			Level:           level,
			ReportTimestamp: cfg.timestamps(),
			ReportCaller:    cfg.Verbose,
			TimeFormat:      "15:04:05",
		}),
		now: time.Now,
	}
}

// Info implements gen.Logger.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.Logger.Info(msg, keyvals...)
}

// Error implements gen.Logger.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.Logger.Error(msg, keyvals...)
}

// StartTimer implements gen.Logger.
func (l *Logger) StartTimer() gen.Timer {
	return &Timer{logger: l, start: l.now()}
}

// With returns a Logger that adds the key-value pairs to every message.
func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{Logger: l.Logger.With(keyvals...), now: l.now}
}

// Timer measures a step of a run.
type Timer struct {
	logger *Logger
	start  time.Time
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return t.logger.now().Sub(t.start)
}

// Done implements gen.Timer. The elapsed time is logged under "elapsed".
func (t *Timer) Done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", t.Elapsed().Round(time.Millisecond))
	t.logger.Info(msg, keyvals...)
}
