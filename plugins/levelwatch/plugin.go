// Package levelwatch keeps the log threshold in step with a config file.
// When enabled, it watches the file's log_level key and applies it whenever
// the file is written or replaced.
package levelwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mininet/mininet-go/internal/cliconfig"
	"github.com/mininet/mininet-go/pkg/log"
)

// LevelSetter applies a level name. *log.MininetLogger satisfies it.
type LevelSetter interface {
	SetLogLevel(name string) error
}

// Config holds configuration options for the level watcher plugin.
type Config struct {
	// Path is the config file to follow.
	Path string

	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Path:          cliconfig.DefaultConfigPath(),
		DebounceDelay: 100 * time.Millisecond,
	}
}

// Plugin reapplies log_level from a config file on every change.
type Plugin struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration
	setter        LevelSetter
	logger        log.Logger

	applied  string
	onApply  func(level string)
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// New creates a level watcher applying levels through setter and reporting
// problems to logger.
func New(cfg Config, setter LevelSetter, logger log.Logger) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
		setter:        setter,
		logger:        logger,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "levelwatch"
}

// OnApply registers fn to be called after each successful reload.
func (p *Plugin) OnApply(fn func(level string)) {
	p.mu.Lock()
	p.onApply = fn
	p.mu.Unlock()
}

// Applied returns the last level applied from the file; empty means the
// default level.
func (p *Plugin) Applied() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applied
}

// Start applies the file's current level and begins watching. The watch
// stops when ctx is cancelled or Shutdown is called.
func (p *Plugin) Start(ctx context.Context) error {
	if p.path == "" {
		p.logger.Warning("level watcher disabled: no config path\n")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("level watcher: create watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("level watcher: watch %s: %w", filepath.Dir(p.path), err)
	}

	if cliconfig.FileExists(p.path) {
		if err := p.Reload(); err != nil {
			p.logger.Error("level watcher: %v\n", err)
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	p.logger.Debug("level watcher: following %s\n", p.path)

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)
	return nil
}

// Shutdown stops the watcher and waits for it to exit.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.stopDebounceLocked()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload reads the config file and applies its log_level. A missing key
// restores the default level. An unknown level is returned and the current
// threshold is kept.
func (p *Plugin) Reload() error {
	fc, err := cliconfig.LoadFileConfig(p.path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", p.path, err)
	}
	if err := p.setter.SetLogLevel(fc.LogLevel); err != nil {
		return fmt.Errorf("reload %s: %w", p.path, err)
	}

	p.mu.Lock()
	p.applied = fc.LogLevel
	fn := p.onApply
	p.mu.Unlock()

	if fc.LogLevel == "" {
		p.logger.Info("level watcher: log level reset to %s\n", log.DefaultLevel)
	} else {
		p.logger.Info("level watcher: log level set to %s\n", fc.LogLevel)
	}
	if fn != nil {
		fn(fc.LogLevel)
	}
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("level watcher: %v\n", err)
		}
	}
}

// debounceReload schedules a reload, replacing any pending one. Each
// scheduled reload holds a wg slot until it runs or is stopped, so Shutdown
// also waits for a reload already in progress.
func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopDebounceLocked()

	p.wg.Add(1)
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		defer p.wg.Done()
		if ctx.Err() != nil {
			return
		}
		if err := p.Reload(); err != nil {
			p.logger.Error("level watcher: %v\n", err)
		}
	})
}

// stopDebounceLocked cancels a pending reload and releases its wg slot.
// A reload that already fired releases its own slot. p.mu must be held.
func (p *Plugin) stopDebounceLocked() {
	if p.debounce == nil {
		return
	}
	if p.debounce.Stop() {
		p.wg.Done()
	}
	p.debounce = nil
}
