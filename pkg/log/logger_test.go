package log

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func newTestLogger(t *testing.T) (*MininetLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return newMininetLogger(&buf), &buf
}

func emit(l *MininetLogger, level Level, format string, args ...interface{}) {
	switch level {
	case LevelDebug:
		l.Debug(format, args...)
	case LevelInfo:
		l.Info(format, args...)
	case LevelWarning:
		l.Warning(format, args...)
	case LevelError:
		l.Error(format, args...)
	case LevelCritical:
		l.Critical(format, args...)
	}
}

func TestNewMininetLogger(t *testing.T) {
	l, _ := newTestLogger(t)

	if l.Name() != "mininet" {
		t.Errorf("Name() = %q, want mininet", l.Name())
	}
	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}
	handlers := l.Handlers()
	if len(handlers) != 1 {
		t.Fatalf("len(Handlers()) = %d, want 1", len(handlers))
	}
	if handlers[0].Level() != DefaultLevel {
		t.Errorf("handler Level() = %v, want %v", handlers[0].Level(), DefaultLevel)
	}
}

func TestSetLogLevel_Threshold(t *testing.T) {
	names := LevelNames()
	for i, name := range names {
		t.Run(name, func(t *testing.T) {
			l, buf := newTestLogger(t)
			if err := l.SetLogLevel(name); err != nil {
				t.Fatalf("SetLogLevel(%q) unexpected error: %v", name, err)
			}

			emit(l, Levels[name], "visible")
			if got := buf.String(); got != "visible" {
				t.Errorf("output at %s = %q, want %q", name, got, "visible")
			}

			if i == 0 {
				return
			}
			buf.Reset()
			emit(l, Levels[names[i-1]], "hidden")
			if buf.Len() != 0 {
				t.Errorf("output at %s with threshold %s = %q, want nothing", names[i-1], name, buf.String())
			}
		})
	}
}

func TestSetLogLevel_UpdatesHandler(t *testing.T) {
	l, _ := newTestLogger(t)
	if err := l.SetLogLevel("debug"); err != nil {
		t.Fatalf("SetLogLevel unexpected error: %v", err)
	}
	if got := l.Handlers()[0].Level(); got != LevelDebug {
		t.Errorf("handler Level() = %v, want debug", got)
	}
}

func TestSetLogLevel_Reset(t *testing.T) {
	l, buf := newTestLogger(t)
	if err := l.SetLogLevel("debug"); err != nil {
		t.Fatalf("SetLogLevel unexpected error: %v", err)
	}
	if err := l.SetLogLevel(""); err != nil {
		t.Fatalf("SetLogLevel(\"\") unexpected error: %v", err)
	}

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}
	if l.Handlers()[0].Level() != DefaultLevel {
		t.Errorf("handler Level() = %v, want %v", l.Handlers()[0].Level(), DefaultLevel)
	}
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info after reset wrote %q, want nothing", buf.String())
	}
}

func TestSetLogLevel_Unknown(t *testing.T) {
	l, buf := newTestLogger(t)
	if err := l.SetLogLevel("info"); err != nil {
		t.Fatalf("SetLogLevel unexpected error: %v", err)
	}

	err := l.SetLogLevel("bogus")
	if !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("SetLogLevel(bogus) error = %v, want ErrUnknownLevel", err)
	}
	if l.Level() != LevelInfo {
		t.Errorf("Level() after failed set = %v, want info", l.Level())
	}
	if l.Handlers()[0].Level() != LevelInfo {
		t.Errorf("handler Level() after failed set = %v, want info", l.Handlers()[0].Level())
	}

	l.Info("still info")
	if got := buf.String(); got != "still info" {
		t.Errorf("output = %q, want %q", got, "still info")
	}
}

func TestEmit_Scenarios(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Error("disk full")
	if got := buf.String(); got != "disk full" {
		t.Errorf("error in default state = %q, want %q", got, "disk full")
	}

	buf.Reset()
	l.Info("starting")
	if buf.Len() != 0 {
		t.Errorf("info in default state = %q, want nothing", buf.String())
	}

	if err := l.SetLogLevel("info"); err != nil {
		t.Fatalf("SetLogLevel unexpected error: %v", err)
	}
	l.Info("starting")
	if got := buf.String(); got != "starting" {
		t.Errorf("info at info = %q, want %q", got, "starting")
	}

	buf.Reset()
	if err := l.SetLogLevel("debug"); err != nil {
		t.Fatalf("SetLogLevel unexpected error: %v", err)
	}
	l.Debug("x=%d", 5)
	if got := buf.String(); got != "x=5" {
		t.Errorf("debug with args = %q, want %q", got, "x=5")
	}
}

func TestEmit_Formatting(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []interface{}
		want   string
	}{
		{name: "caller newline kept", format: "line\n", want: "line\n"},
		{name: "only newline", format: "\n", want: "\n"},
		{name: "single character", format: ".", want: "."},
		{name: "literal percent without args", format: "100%", want: "100%"},
		{name: "substitution", format: "%s: %d hosts\n", args: []interface{}{"h1", 3}, want: "h1: 3 hosts\n"},
		{name: "inner newlines", format: "a\nb\n", want: "a\nb\n"},
		{name: "leading space", format: "  indented", want: "  indented"},
		{name: "quotes and tabs", format: "\"q\"\t", want: "\"q\"\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newTestLogger(t)
			l.Error(tt.format, tt.args...)
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmit_ComposesPartialLines(t *testing.T) {
	l, buf := newTestLogger(t)
	if err := l.SetLogLevel("info"); err != nil {
		t.Fatalf("SetLogLevel unexpected error: %v", err)
	}

	l.Info("*** Adding hosts:\n")
	for _, h := range []string{"h1", "h2", "h3"} {
		l.Info("%s ", h)
	}
	l.Info("\n")

	want := "*** Adding hosts:\nh1 h2 h3 \n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEmit_Critical(t *testing.T) {
	l, buf := newTestLogger(t)
	if err := l.SetLogLevel("critical"); err != nil {
		t.Fatalf("SetLogLevel unexpected error: %v", err)
	}

	l.Error("hidden")
	l.Critical("still running")
	if got := buf.String(); got != "still running" {
		t.Errorf("output = %q, want %q", got, "still running")
	}
}

func TestEmit_GlobalLevelMutes(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.FatalLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	l, buf := newTestLogger(t)
	if err := l.SetLogLevel("debug"); err != nil {
		t.Fatalf("SetLogLevel unexpected error: %v", err)
	}

	l.Error("global")
	if buf.Len() != 0 {
		t.Errorf("error under global fatal level = %q, want nothing", buf.String())
	}
	l.Critical("still shown")
	if got := buf.String(); got != "still shown" {
		t.Errorf("critical under global fatal level = %q, want %q", got, "still shown")
	}
}

func TestLg_Singleton(t *testing.T) {
	a := Lg()
	b := Lg()
	if a != b {
		t.Fatal("Lg() returned different instances")
	}

	var buf bytes.Buffer
	h := a.Handlers()[0]
	prevOut := h.Output()
	prevLevel := a.Level().String()
	h.SetOutput(&buf)
	t.Cleanup(func() {
		h.SetOutput(prevOut)
		_ = a.SetLogLevel(prevLevel)
	})

	if err := SetLogLevel("info"); err != nil {
		t.Fatalf("SetLogLevel unexpected error: %v", err)
	}
	if b.Level() != LevelInfo {
		t.Errorf("Level() through second reference = %v, want info", b.Level())
	}

	Info("starting")
	Debug("hidden")
	Warning("w ")
	Error("e ")
	Critical("c")
	if got, want := buf.String(), "startingw e c"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEmit_Concurrent(t *testing.T) {
	l, buf := newTestLogger(t)
	var mu sync.Mutex
	l.Handlers()[0].SetOutput(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return buf.Write(p)
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Error(".")
				if j%10 == 0 {
					_ = l.SetLogLevel(LevelNames()[i%5])
				}
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if buf.Len() == 0 {
		t.Error("expected some output from concurrent emitters")
	}
	if got := bytes.Count(buf.Bytes(), []byte(".")); got != buf.Len() {
		t.Errorf("output contains unexpected bytes: %q", buf.String())
	}
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}
