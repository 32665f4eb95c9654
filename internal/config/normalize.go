package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSidecar(); err != nil {
		return err
	}
	c.normalizeSync()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSidecar() error {
	if value, ok := os.LookupEnv(SidecarEnv); ok && strings.TrimSpace(value) != "" {
		c.Sidecar.Binary = value
	}
	c.Sidecar.Binary = strings.TrimSpace(c.Sidecar.Binary)
	if c.Sidecar.Binary == "" {
		c.Sidecar.Binary = defaultSidecarBinary
	}
	// Bare names resolve through PATH; anything with a separator is a file path.
	if strings.ContainsRune(c.Sidecar.Binary, filepath.Separator) || strings.HasPrefix(c.Sidecar.Binary, "~") {
		expanded, err := expandPath(c.Sidecar.Binary)
		if err != nil {
			return fmt.Errorf("sidecar.binary: %w", err)
		}
		c.Sidecar.Binary = expanded
	}
	return nil
}

func (c *Config) normalizeSync() {
	c.Sync.CommitMode = strings.ToLower(strings.TrimSpace(c.Sync.CommitMode))
	if c.Sync.CommitMode == "" {
		c.Sync.CommitMode = CommitModeSequential
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
