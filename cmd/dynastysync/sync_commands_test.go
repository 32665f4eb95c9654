package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"dynastysync/internal/logging"
	"dynastysync/internal/syncflow"
	"dynastysync/internal/syncrun"
)

func TestAwaitCountdownInterruptedAfterCommitReportsCounts(t *testing.T) {
	env := setupCLITestEnv(t, defaultResponses())
	addDynasty(t, env)

	ctx := context.Background()
	rt, err := syncrun.Open(ctx, env.cfg, logging.NewNop(), syncrun.Target{DynastyID: 1, Year: 2025}, syncflow.WithAutoConfirm(0))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rt.Close()

	if _, err := rt.Orchestrator.Validate(ctx, env.savePath); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, err := rt.Orchestrator.Extract(ctx); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, err := rt.Orchestrator.Confirm(ctx); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	settled := make(chan syncflow.Snapshot, 1)
	settled <- rt.Orchestrator.Snapshot()

	stdin, stdinWriter := io.Pipe()
	defer stdinWriter.Close()

	interrupted, cancel := context.WithCancel(ctx)
	cancel()

	var out bytes.Buffer
	if err := awaitCountdown(interrupted, stdin, &out, rt.Orchestrator, settled); err != nil {
		t.Fatalf("awaitCountdown: %v", err)
	}
	requireContains(t, out.String(), "Added 2 games, 1 players, 1 draft picks")
	if strings.Contains(out.String(), "Sync cancelled") {
		t.Fatalf("commit already ran but output reports a cancel: %q", out.String())
	}
}
