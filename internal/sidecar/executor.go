package sidecar

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Executor abstracts command execution for testability. Run streams each
// stdout and stderr line to the callbacks and returns once the process exits.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error
}

// StartError reports that the process could not be spawned at all.
type StartError struct {
	Err error
}

func (e *StartError) Error() string { return "start command: " + e.Err.Error() }

func (e *StartError) Unwrap() error { return e.Err }

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &StartError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &StartError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}
	if err := cmd.Start(); err != nil {
		return &StartError{Err: err}
	}

	var (
		wg      sync.WaitGroup
		once    sync.Once
		scanErr error
	)
	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		// Extract payloads arrive as one JSON line of unbounded size.
		reader := bufio.NewReader(r)
		for {
			line, err := reader.ReadString('\n')
			if line != "" && forward != nil {
				forward(strings.TrimRight(line, "\r\n"))
			}
			if err == nil {
				continue
			}
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				once.Do(func() { scanErr = err })
				// Keep the pipe flowing so the child never blocks on a full buffer.
				_, _ = io.Copy(io.Discard, r)
			}
			return
		}
	}

	wg.Add(2)
	go scan(stdout, onStdout)
	go scan(stderr, onStderr)
	wg.Wait()

	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("read output: %w", scanErr)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
