package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dynastysync/internal/config"
	"dynastysync/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("save validated", String(FieldSavePath, "/saves/DYNASTY-01"))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "dynastysync.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("decode record %q: %v", data, err)
	}
	if record["msg"] != "save validated" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key in %v", record)
	}
}

func TestPrettyHandlerHoistsComponent(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	NewComponentLogger(logger, "reconcile").Info("diff computed", Int("games", 3), String("note", "two words"))

	line := buf.String()
	if !strings.Contains(line, " INFO reconcile: diff computed") {
		t.Fatalf("component prefix missing: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not repeat as a key: %q", line)
	}
	if !strings.Contains(line, "games=3") || !strings.Contains(line, `note="two words"`) {
		t.Fatalf("attributes missing: %q", line)
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	logger.Info("quiet")
	logger.Warn("loud")

	if strings.Contains(buf.String(), "quiet") {
		t.Fatalf("info should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "WARN loud") {
		t.Fatalf("warn should be written: %q", buf.String())
	}
}

func TestSessionIDHandlerStampsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSessionIDHandler(slog.NewJSONHandler(&buf, nil), "session-abc")).
		WithGroup("sync").With("extra", "value")
	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, `"session_id":"session-abc"`) {
		t.Fatalf("expected session_id, got: %s", output)
	}
	if !strings.Contains(output, `"sync":{"extra":"value"`) {
		t.Fatalf("expected grouped attr, got: %s", output)
	}
}

func TestSessionIDHandlerNilBase(t *testing.T) {
	if _, ok := newSessionIDHandler(nil, "x").(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for nil base")
	}
}

func TestWarnWithContextFillsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WarnWithContext(logger, "sidecar slow", "sidecar_slow", String(FieldImpact, "sync delayed"))

	output := buf.String()
	for _, want := range []string{`"event_type":"sidecar_slow"`, `"error_hint":"see the dynastysync log for details"`, `"impact":"sync delayed"`} {
		if !strings.Contains(output, want) {
			t.Fatalf("missing %s in %s", want, output)
		}
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := services.WithDynastyID(context.Background(), 7)
	ctx = services.WithState(ctx, "confirming")
	ctx = services.WithRequestID(ctx, "run-1")
	WithContext(ctx, logger).Info("tick")

	output := buf.String()
	for _, want := range []string{`"dynasty_id":7`, `"sync_state":"confirming"`, `"correlation_id":"run-1"`} {
		if !strings.Contains(output, want) {
			t.Fatalf("missing %s in %s", want, output)
		}
	}
}

func TestPruneLogsRemovesOnlyStaleMatches(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "dynastysync-old.log")
	fresh := filepath.Join(dir, "dynastysync.log")
	kept := filepath.Join(dir, "dynastysync-active.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{stale, fresh, kept, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().AddDate(0, 0, -30)
	for _, path := range []string{stale, kept, other} {
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatal(err)
		}
	}

	removed := PruneLogs(NewNop(), dir, 7, kept)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale log should be gone, stat err = %v", err)
	}
	for _, path := range []string{fresh, kept, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s should remain: %v", filepath.Base(path), err)
		}
	}
}

func TestPruneLogsDisabled(t *testing.T) {
	if n := PruneLogs(nil, t.TempDir(), 0); n != 0 {
		t.Fatalf("expected no pruning, got %d", n)
	}
}
