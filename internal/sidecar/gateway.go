package sidecar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"dynastysync/internal/config"
	"dynastysync/internal/logging"
)

// Subcommand names understood by the extraction tool.
type Subcommand string

const (
	SubcommandValidate Subcommand = "validate"
	SubcommandExtract  Subcommand = "extract"
	SubcommandVersion  Subcommand = "version"
	SubcommandUpdate   Subcommand = "update"
)

const (
	defaultTimeout       = 60 * time.Second
	defaultUpdateTimeout = 5 * time.Minute
	maxStderrInMessage   = 2048
)

// Option configures the gateway.
type Option func(*Gateway)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(g *Gateway) {
		if exec != nil {
			g.exec = exec
		}
	}
}

// WithTimeout bounds validate and extract calls. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithUpdateTimeout bounds the update subcommand. Non-positive values are ignored.
func WithUpdateTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.updateTimeout = d
		}
	}
}

// WithLogger attaches a logger; the gateway logs under the "sidecar" component.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logging.NewComponentLogger(logger, "sidecar")
	}
}

// Gateway invokes the extraction tool.
type Gateway struct {
	binary        string
	timeout       time.Duration
	updateTimeout time.Duration
	exec          Executor
	logger        *slog.Logger
}

// New constructs a gateway for binary.
func New(binary string, opts ...Option) (*Gateway, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("sidecar binary required")
	}
	g := &Gateway{
		binary:        binary,
		timeout:       defaultTimeout,
		updateTimeout: defaultUpdateTimeout,
		exec:          commandExecutor{},
		logger:        logging.NewComponentLogger(nil, "sidecar"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewFromConfig builds a gateway from the [sidecar] section.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Gateway, error) {
	base := []Option{
		WithTimeout(cfg.SidecarTimeout()),
		WithUpdateTimeout(cfg.SidecarUpdateTimeout()),
		WithLogger(logger),
	}
	return New(cfg.Sidecar.Binary, append(base, opts...)...)
}

// Binary returns the executable the gateway spawns.
func (g *Gateway) Binary() string {
	return g.binary
}

// Run spawns the tool with [subcommand, filePath] (or just [subcommand] when
// filePath is empty) and returns the trimmed stdout. Process trouble is
// reported through Result.Failure, never as a panic or error return.
func (g *Gateway) Run(ctx context.Context, subcommand Subcommand, filePath string) Result {
	timeout := g.timeout
	if subcommand == SubcommandUpdate {
		timeout = g.updateTimeout
	}
	return g.run(ctx, subcommand, filePath, timeout)
}

// Version reports the tool's version string.
func (g *Gateway) Version(ctx context.Context) (string, *Failure) {
	res := g.Run(ctx, SubcommandVersion, "")
	if res.Failed() {
		return "", res.Failure
	}
	if res.Output == "" {
		return "", &Failure{Kind: KindSidecar, Message: "version subcommand printed nothing"}
	}
	return res.Output, nil
}

// Update asks the tool to update itself, under the longer update timeout.
func (g *Gateway) Update(ctx context.Context) Result {
	return g.Run(ctx, SubcommandUpdate, "")
}

func (g *Gateway) run(ctx context.Context, subcommand Subcommand, filePath string, timeout time.Duration) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	args := []string{string(subcommand)}
	if filePath != "" {
		args = append(args, filePath)
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var (
		mu     sync.Mutex
		stdout strings.Builder
		stderr strings.Builder
	)
	appendLine := func(b *strings.Builder) func(string) {
		return func(line string) {
			mu.Lock()
			defer mu.Unlock()
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(line)
		}
	}

	started := time.Now()
	g.logger.Debug("sidecar started",
		logging.String("subcommand", string(subcommand)),
		logging.String(logging.FieldSavePath, filePath),
		logging.String(logging.FieldEventType, "sidecar_start"),
	)
	err := g.exec.Run(runCtx, g.binary, args, appendLine(&stdout), appendLine(&stderr))
	elapsed := time.Since(started)

	mu.Lock()
	output := strings.TrimSpace(stdout.String())
	errText := strings.TrimSpace(stderr.String())
	mu.Unlock()

	res := g.classify(runCtx, ctx, subcommand, timeout, output, errText, err)
	if res.Failed() {
		logging.WarnWithContext(g.logger, "sidecar call failed", "sidecar_failed",
			logging.String("subcommand", string(subcommand)),
			logging.String(logging.FieldErrorKind, res.Failure.Kind),
			logging.String("detail", res.Failure.Message),
			logging.Duration("elapsed", elapsed),
			logging.String(logging.FieldErrorHint, "run `dynastysync status` to check the sidecar binary"),
			logging.String(logging.FieldImpact, "save file could not be read"),
		)
		return res
	}
	g.logger.Debug("sidecar finished",
		logging.String("subcommand", string(subcommand)),
		logging.Int("output_bytes", len(output)),
		logging.Duration("elapsed", elapsed),
		logging.String(logging.FieldEventType, "sidecar_done"),
	)
	return res
}

func (g *Gateway) classify(runCtx, parent context.Context, subcommand Subcommand, timeout time.Duration, output, errText string, err error) Result {
	var startErr *StartError
	switch {
	case err == nil:
		return Result{Output: output}
	case errors.As(err, &startErr):
		return failed(KindSpawn, fmt.Sprintf("could not start %s: %v", g.binary, startErr.Err))
	case parent.Err() != nil:
		return failed(KindSidecar, fmt.Sprintf("%s cancelled: %v", subcommand, parent.Err()))
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return failed(KindSidecar, fmt.Sprintf("%s timed out after %s", subcommand, timeout))
	case output != "":
		// The tool reports its own errors as JSON on stdout and may still exit
		// non-zero; the payload is authoritative.
		return Result{Output: output}
	default:
		msg := fmt.Sprintf("%s exited: %v", subcommand, err)
		if errText != "" {
			if len(errText) > maxStderrInMessage {
				errText = errText[len(errText)-maxStderrInMessage:]
			}
			msg += ": " + errText
		}
		return failed(KindSidecar, msg)
	}
}
