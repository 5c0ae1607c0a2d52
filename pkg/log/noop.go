package log

// NoopLogger implements Logger by discarding all log messages.
type NoopLogger struct{}

var _ Logger = NoopLogger{}

// NewNoopLogger creates a new no-op logger.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

// Debug discards the message.
func (NoopLogger) Debug(format string, args ...interface{}) {}

// Info discards the message.
func (NoopLogger) Info(format string, args ...interface{}) {}

// Warning discards the message.
func (NoopLogger) Warning(format string, args ...interface{}) {}

// Error discards the message.
func (NoopLogger) Error(format string, args ...interface{}) {}

// Critical discards the message.
func (NoopLogger) Critical(format string, args ...interface{}) {}

// SetLogLevel validates name and otherwise does nothing.
func (NoopLogger) SetLogLevel(name string) error {
	if name == "" {
		return nil
	}
	_, err := ParseLevel(name)
	return err
}
