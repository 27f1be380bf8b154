package gen

// Logger receives progress messages of a generation run. Key-value pairs
// follow the message, as in Info("loaded plugins", "count", 2).
type Logger interface {
	Info(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	StartTimer() Timer
}

// Timer measures a step of a run.
type Timer interface {
	// Done logs msg with the elapsed time.
	Done(msg string, keyvals ...any)
}

// NopLogger discards all messages.
type NopLogger struct{}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, ...any) {}

// StartTimer implements Logger.
func (NopLogger) StartTimer() Timer { return nopTimer{} }

type nopTimer struct{}

func (nopTimer) Done(string, ...any) {}
