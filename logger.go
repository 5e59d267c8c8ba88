package tokencount

// Fields carries structured context for one log line.
type Fields map[string]any

// Logger is what the engine logs through. Counter and Dispatcher report failures at
// Error, the provider cache reports self-heal problems at Warn, and Run reports its
// summary at Info. Adapters live in log/zap, log/logrus and log/slog.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards everything; it is the default wherever a Logger is optional.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}
