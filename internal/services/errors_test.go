package services_test

import (
	"errors"
	"strings"
	"testing"

	"dynastysync/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "sidecar", "extract", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"sidecar", "extract", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestRetryable(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "savefile", "validate", "unsupported", nil)
	if services.Retryable(validationErr) {
		t.Fatal("expected validation error to be non-retryable")
	}
	toolErr := services.Wrap(services.ErrExternalTool, "sidecar", "run", "crashed", errors.New("exit 1"))
	if !services.Retryable(toolErr) {
		t.Fatal("expected tool error to be retryable")
	}
	if services.Retryable(nil) {
		t.Fatal("expected nil error to be non-retryable")
	}
}
