package cliconfig

import "os"

// Environment variables read by ApplyEnvConfig.
const (
	EnvLogLevel         = "MININET_LOG_LEVEL"
	EnvWatchDebounce    = "MININET_WATCH_DEBOUNCE"
	EnvProgressCount    = "MININET_PROGRESS_COUNT"
	EnvProgressInterval = "MININET_PROGRESS_INTERVAL"
)

// ApplyEnvConfig applies configuration from environment variables (MININET_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setLevel("verbosity", os.Getenv(EnvLogLevel), &cfg.LogLevel); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv(EnvWatchDebounce), &cfg.WatchDebounce); err != nil {
		return err
	}
	if err := s.setIntFromString("count", os.Getenv(EnvProgressCount), &cfg.ProgressCount); err != nil {
		return err
	}
	if err := s.setDuration("interval", os.Getenv(EnvProgressInterval), &cfg.ProgressInterval); err != nil {
		return err
	}

	return nil
}

// Load resolves cfg from the config file at path (when it exists) and the
// environment, leaving values whose flags were set on the command line alone,
// then validates the result.
func Load(cfg *Config, path string, changed map[string]bool) error {
	if path != "" && FileExists(path) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return err
		}
		if err := ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}
