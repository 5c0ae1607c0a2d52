package log

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Name identifies the shared logger.
const Name = "mininet"

// Logger is the logging surface used across the toolkit. Messages are printf
// templates; with no args the template is written literally.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Critical(format string, args ...interface{})

	// SetLogLevel changes the threshold. An empty name restores DefaultLevel.
	SetLogLevel(name string) error
}

// MininetLogger is a zerolog pipeline with a single no-newline Handler.
// Use Lg to get the process-wide instance.
type MininetLogger struct {
	name     string
	handlers []*Handler
	metrics  *metrics

	base  zerolog.Logger
	zl    atomic.Pointer[zerolog.Logger]
	level atomic.Int32
}

var _ Logger = (*MininetLogger)(nil)

var (
	shared     *MininetLogger
	sharedOnce sync.Once
)

// Lg returns the shared logger, creating it on first use. Every caller gets
// the same instance and observes the same threshold. Records below
// zerolog.GlobalLevel() are dropped as well.
func Lg() *MininetLogger {
	sharedOnce.Do(func() {
		shared = newMininetLogger(os.Stderr)
	})
	return shared
}

func newMininetLogger(w io.Writer) *MininetLogger {
	l := &MininetLogger{
		name:    Name,
		metrics: newMetrics(Name),
	}
	h := NewHandler(w)
	h.metrics = l.metrics
	l.handlers = []*Handler{h}
	l.base = zerolog.New(h)

	// Cannot fail: the empty name selects DefaultLevel.
	_ = l.SetLogLevel("")
	return l
}

// Name returns the logger's identifying name.
func (l *MininetLogger) Name() string {
	return l.name
}

// Level returns the logger threshold.
func (l *MininetLogger) Level() Level {
	return Level(l.level.Load())
}

// Handlers returns the attached handlers.
func (l *MininetLogger) Handlers() []*Handler {
	out := make([]*Handler, len(l.handlers))
	copy(out, l.handlers)
	return out
}

// SetLogLevel resolves name through Levels and applies it to the logger and
// its first handler. An empty name restores DefaultLevel. An unknown name
// returns an error wrapping ErrUnknownLevel and changes nothing.
//
// The two thresholds are updated one after the other, not atomically as a
// pair; a record emitted concurrently may see the old handler threshold.
func (l *MininetLogger) SetLogLevel(name string) error {
	level := DefaultLevel
	if name != "" {
		parsed, err := ParseLevel(name)
		if err != nil {
			return errors.Wrap(err, "set log level")
		}
		level = parsed
	}

	zl := l.base.Level(level.zerolog())
	l.zl.Store(&zl)
	l.level.Store(int32(level))
	l.handlers[0].SetLevel(level)
	return nil
}

// Debug logs at LevelDebug.
func (l *MininetLogger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args)
}

// Info logs at LevelInfo.
func (l *MininetLogger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args)
}

// Warning logs at LevelWarning.
func (l *MininetLogger) Warning(format string, args ...interface{}) {
	l.log(LevelWarning, format, args)
}

// Error logs at LevelError.
func (l *MininetLogger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args)
}

// Critical logs at LevelCritical. It does not exit the process.
func (l *MininetLogger) Critical(format string, args ...interface{}) {
	l.log(LevelCritical, format, args)
}

func (l *MininetLogger) log(level Level, format string, args []interface{}) {
	// WithLevel returns nil below the threshold; Msg on a nil event is a no-op.
	e := l.zl.Load().WithLevel(level.zerolog())
	if len(args) == 0 {
		e.Msg(format)
		return
	}
	e.Msgf(format, args...)
}

// Debug logs at LevelDebug on the shared logger.
func Debug(format string, args ...interface{}) {
	Lg().Debug(format, args...)
}

// Info logs at LevelInfo on the shared logger.
func Info(format string, args ...interface{}) {
	Lg().Info(format, args...)
}

// Warning logs at LevelWarning on the shared logger.
func Warning(format string, args ...interface{}) {
	Lg().Warning(format, args...)
}

// Error logs at LevelError on the shared logger.
func Error(format string, args ...interface{}) {
	Lg().Error(format, args...)
}

// Critical logs at LevelCritical on the shared logger.
func Critical(format string, args ...interface{}) {
	Lg().Critical(format, args...)
}

// SetLogLevel changes the shared logger's threshold.
func SetLogLevel(name string) error {
	return Lg().SetLogLevel(name)
}
