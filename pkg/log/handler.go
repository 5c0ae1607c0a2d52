package log

import (
	"bytes"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Handler is a zerolog.LevelWriter that writes the message text of each record
// without a trailing newline. Callers include any newline they want in the
// message itself, which lets progress output be built one character at a time.
//
// A Handler has its own threshold, independent of the logger it is attached to.
// Records below it are dropped silently.
type Handler struct {
	out     atomic.Pointer[output]
	level   atomic.Int32
	format  zerolog.ConsoleWriter
	metrics *metrics
}

type output struct {
	w io.Writer
}

type flusher interface {
	Flush() error
}

var _ zerolog.LevelWriter = (*Handler)(nil)

// NewHandler creates a handler writing to w with the DefaultLevel threshold.
func NewHandler(w io.Writer) *Handler {
	h := &Handler{
		format: zerolog.ConsoleWriter{
			NoColor:       true,
			PartsOrder:    MessageParts,
			FormatMessage: formatMessage,
		},
	}
	h.SetOutput(w)
	h.SetLevel(DefaultLevel)
	return h
}

// SetOutput replaces the destination stream.
func (h *Handler) SetOutput(w io.Writer) {
	h.out.Store(&output{w: w})
}

// Output returns the destination stream.
func (h *Handler) Output() io.Writer {
	return h.out.Load().w
}

// SetLevel sets the handler threshold.
func (h *Handler) SetLevel(l Level) {
	h.level.Store(int32(l))
}

// Level returns the handler threshold.
func (h *Handler) Level() Level {
	return Level(h.level.Load())
}

// Write emits p with no level attached; it is never filtered.
func (h *Handler) Write(p []byte) (int, error) {
	return h.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel formats the encoded event p and writes it to the destination,
// flushing afterwards when the destination supports it.
//
// Any failure, including a panic raised by the destination, is returned as an
// error so zerolog reports it through zerolog.ErrorHandler. A panic whose value
// wraps ErrTerminate is re-raised.
func (h *Handler) WriteLevel(level zerolog.Level, p []byte) (n int, err error) {
	if level < h.Level().zerolog() {
		h.metrics.drop(level)
		return len(p), nil
	}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, ErrTerminate) {
				panic(r)
			}
			n, err = 0, errors.Errorf("log handler: panic during emit: %v", r)
		}
		if err != nil {
			h.metrics.fault()
			return
		}
		h.metrics.write(level)
	}()

	msg, err := h.render(p)
	if err != nil {
		return 0, errors.Wrap(err, "log handler: format record")
	}

	w := h.Output()
	if _, err := w.Write(msg); err != nil {
		return 0, errors.Wrap(err, "log handler: write record")
	}
	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return 0, errors.Wrap(err, "log handler: flush")
		}
	}
	return len(p), nil
}

// render decodes the event and keeps the message text. The console writer
// always terminates a line; that one newline is removed.
func (h *Handler) render(p []byte) ([]byte, error) {
	var buf bytes.Buffer
	cw := h.format
	cw.Out = &buf
	if _, err := cw.Write(p); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func formatMessage(i interface{}) string {
	switch v := i.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
