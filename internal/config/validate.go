package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSidecar(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSidecar() error {
	if c.Sidecar.Binary == "" {
		return errors.New("sidecar.binary must be set")
	}
	if c.Sidecar.TimeoutSeconds <= 0 {
		return errors.New("sidecar.timeout_seconds must be positive")
	}
	if c.Sidecar.UpdateTimeoutSeconds <= 0 {
		return errors.New("sidecar.update_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.AutoConfirmSeconds < 0 {
		return errors.New("sync.auto_confirm_seconds must be zero or positive")
	}
	if c.Sync.WatchDebounceMS <= 0 {
		return errors.New("sync.watch_debounce_ms must be positive")
	}
	switch c.Sync.CommitMode {
	case CommitModeSequential, CommitModeTransactional:
	default:
		return fmt.Errorf("sync.commit_mode: unsupported value %q (want %q or %q)",
			c.Sync.CommitMode, CommitModeSequential, CommitModeTransactional)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero or positive")
	}
	return nil
}
