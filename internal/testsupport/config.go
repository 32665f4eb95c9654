package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"dynastysync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Sidecar.Binary = filepath.Join(base, "bin", "dynasty-sidecar")
	cfgVal.Sidecar.TimeoutSeconds = 10
	cfgVal.Sync.WatchDebounceMS = 50

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithCommitMode sets sync.commit_mode.
func WithCommitMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.CommitMode = mode
	}
}

// WithAutoConfirmSeconds sets sync.auto_confirm_seconds.
func WithAutoConfirmSeconds(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.AutoConfirmSeconds = seconds
	}
}

// WithStubbedSidecar writes an executable shell script as the configured
// sidecar binary. The script prints responses[subcommand] for known
// subcommands and exits 3 with a stderr message otherwise.
func WithStubbedSidecar(responses map[string]string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "dynasty-sidecar")
		if err := os.WriteFile(target, []byte(SidecarScript(responses)), 0o755); err != nil {
			b.t.Fatalf("write sidecar stub: %v", err)
		}
		b.cfg.Sidecar.Binary = target
	}
}

// SidecarScript renders a POSIX shell script answering each subcommand with a
// canned stdout body.
func SidecarScript(responses map[string]string) string {
	script := "#!/bin/sh\ncase \"$1\" in\n"
	for sub, body := range responses {
		script += sub + ")\ncat <<'SIDECAR_EOF'\n" + body + "\nSIDECAR_EOF\n;;\n"
	}
	script += "*)\necho \"unknown subcommand $1\" >&2\nexit 3\n;;\nesac\n"
	return script
}

// WriteSave creates a placeholder save file under the config's base dir.
func WriteSave(t testing.TB, cfg *config.Config, name string) string {
	t.Helper()
	path := filepath.Join(BaseDir(cfg), "saves", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir saves: %v", err)
	}
	if err := os.WriteFile(path, []byte("opaque save bytes"), 0o644); err != nil {
		t.Fatalf("write save: %v", err)
	}
	return path
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
