package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"dynastysync/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.SidecarEnv, "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "dynastysync", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}

	wantData := filepath.Join(tempHome, ".local", "share", "dynastysync")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "dynastysync.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Sidecar.Binary != "dynasty-sidecar" {
		t.Fatalf("unexpected sidecar binary: %q", cfg.Sidecar.Binary)
	}
	if cfg.SidecarTimeout() != 60*time.Second {
		t.Fatalf("unexpected sidecar timeout: %s", cfg.SidecarTimeout())
	}
	if cfg.Sync.AutoConfirmSeconds != 10 {
		t.Fatalf("unexpected auto confirm: %d", cfg.Sync.AutoConfirmSeconds)
	}
	if cfg.WatchDebounce() != 2*time.Second {
		t.Fatalf("unexpected debounce: %s", cfg.WatchDebounce())
	}
	if cfg.Transactional() {
		t.Fatal("expected sequential commit mode by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv(config.SidecarEnv, "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "dynastysync.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Sidecar struct {
			Binary string `toml:"binary"`
		} `toml:"sidecar"`
		Sync struct {
			AutoConfirmSeconds int    `toml:"auto_confirm_seconds"`
			CommitMode         string `toml:"commit_mode"`
		} `toml:"sync"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Sidecar.Binary = filepath.Join(tempDir, "bin", "sidecar")
	custom.Sync.AutoConfirmSeconds = 0
	custom.Sync.CommitMode = "Transactional"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.DataDir != custom.Paths.DataDir {
		t.Fatalf("unexpected data dir %q", cfg.Paths.DataDir)
	}
	if cfg.Sidecar.Binary != custom.Sidecar.Binary {
		t.Fatalf("unexpected sidecar binary %q", cfg.Sidecar.Binary)
	}
	if cfg.Sync.AutoConfirmSeconds != 0 {
		t.Fatalf("expected auto confirm disabled, got %d", cfg.Sync.AutoConfirmSeconds)
	}
	if !cfg.Transactional() {
		t.Fatalf("expected transactional mode, got %q", cfg.Sync.CommitMode)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dynastysync.toml")
	if err := os.WriteFile(configPath, []byte("[sync]\nauto_confirm = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to fail")
	}
}

func TestEnvOverridesSidecarBinary(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dynastysync.toml")
	if err := os.WriteFile(configPath, []byte("[sidecar]\nbinary = \"from-file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.SidecarEnv, "from-env")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Sidecar.Binary != "from-env" {
		t.Fatalf("expected env override, got %q", cfg.Sidecar.Binary)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	defaults := config.Default()
	if cfg.Sync != defaults.Sync {
		t.Fatalf("sample sync section %+v drifted from defaults %+v", cfg.Sync, defaults.Sync)
	}
	if cfg.Sidecar != defaults.Sidecar {
		t.Fatalf("sample sidecar section %+v drifted from defaults %+v", cfg.Sidecar, defaults.Sidecar)
	}
	if cfg.Logging != defaults.Logging {
		t.Fatalf("sample logging section %+v drifted from defaults %+v", cfg.Logging, defaults.Logging)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero sidecar timeout", func(c *config.Config) { c.Sidecar.TimeoutSeconds = 0 }},
		{"zero update timeout", func(c *config.Config) { c.Sidecar.UpdateTimeoutSeconds = 0 }},
		{"empty sidecar", func(c *config.Config) { c.Sidecar.Binary = "" }},
		{"negative auto confirm", func(c *config.Config) { c.Sync.AutoConfirmSeconds = -1 }},
		{"zero debounce", func(c *config.Config) { c.Sync.WatchDebounceMS = 0 }},
		{"unknown commit mode", func(c *config.Config) { c.Sync.CommitMode = "batched" }},
		{"unknown log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "trace" }},
		{"negative retention", func(c *config.Config) { c.Logging.RetentionDays = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "auto_confirm_seconds = 10") {
		t.Fatalf("encoded config missing sync values:\n%s", data)
	}
}
