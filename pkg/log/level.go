package log

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Level is a severity rank. Higher values are more severe.
type Level int

// Recognized severities, ordered debug < info < warning < error < critical.
const (
	LevelDebug    Level = 10
	LevelInfo     Level = 20
	LevelWarning  Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50
)

// DefaultLevel is the threshold applied at construction and by SetLogLevel("").
// Change it to LevelInfo to get printouts when running unit tests.
const DefaultLevel = LevelWarning

// MessageParts is the record layout written by a Handler: the message text
// only, with no timestamp, level or logger name.
var MessageParts = []string{zerolog.MessageFieldName}

// Levels maps lowercase level names to their severity rank. Callers that accept
// level names from flags or config files can use it for validation.
var Levels = map[string]Level{
	"debug":    LevelDebug,
	"info":     LevelInfo,
	"warning":  LevelWarning,
	"error":    LevelError,
	"critical": LevelCritical,
}

var (
	// ErrUnknownLevel is returned when a level name is not a key of Levels.
	ErrUnknownLevel = errors.New("unknown loglevel")

	// ErrTerminate marks a panic raised by an output destination that must
	// reach the caller instead of being reported as an emission fault.
	ErrTerminate = errors.New("log output terminated")
)

// ParseLevel resolves a lowercase level name. Lookup is case-sensitive.
func ParseLevel(name string) (Level, error) {
	l, ok := Levels[name]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownLevel, "%q", name)
	}
	return l, nil
}

// LevelNames returns the recognized level names ordered by rank.
func LevelNames() []string {
	names := make([]string, 0, len(Levels))
	for name := range Levels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return Levels[names[i]] < Levels[names[j]]
	})
	return names
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// zerolog maps a rank onto the zerolog level used for filtering. Critical
// becomes FatalLevel; records at that level are only ever created with
// WithLevel, which never exits the process.
func (l Level) zerolog() zerolog.Level {
	switch {
	case l >= LevelCritical:
		return zerolog.FatalLevel
	case l >= LevelError:
		return zerolog.ErrorLevel
	case l >= LevelWarning:
		return zerolog.WarnLevel
	case l >= LevelInfo:
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}

// levelName is the metric label for a zerolog level.
func levelName(zl zerolog.Level) string {
	switch zl {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return LevelDebug.String()
	case zerolog.InfoLevel:
		return LevelInfo.String()
	case zerolog.WarnLevel:
		return LevelWarning.String()
	case zerolog.ErrorLevel:
		return LevelError.String()
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return LevelCritical.String()
	}
	return "none"
}
