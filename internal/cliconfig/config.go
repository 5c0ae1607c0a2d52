package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mininet/mininet-go/pkg/log"
)

// Config holds CLI configuration for mnlog.
type Config struct {
	LogLevel string

	WatchDebounce time.Duration

	ProgressCount    int
	ProgressInterval time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:         log.DefaultLevel.String(),
		WatchDebounce:    100 * time.Millisecond,
		ProgressCount:    10,
		ProgressInterval: 100 * time.Millisecond,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("verbosity: %w", err)
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}
	if c.ProgressCount < 0 {
		return fmt.Errorf("progress count must not be negative")
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress interval must not be negative")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setLevel validates and sets a level name if not empty and flag not changed.
func (s *configSetter) setLevel(flag, value string, dst *string) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	if _, err := log.ParseLevel(value); err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = value
	return nil
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
