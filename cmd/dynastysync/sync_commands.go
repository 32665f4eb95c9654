package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dynastysync/internal/commit"
	"dynastysync/internal/config"
	"dynastysync/internal/reconcile"
	"dynastysync/internal/savefile"
	"dynastysync/internal/sidecar"
	"dynastysync/internal/syncflow"
	"dynastysync/internal/syncrun"
)

type targetFlags struct {
	dynastyID int64
	year      int
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.dynastyID, "dynasty", 0, "Dynasty ID")
	cmd.Flags().IntVar(&f.year, "year", 0, "Season year the save belongs to")
	_ = cmd.MarkFlagRequired("dynasty")
	_ = cmd.MarkFlagRequired("year")
}

func (f *targetFlags) target() syncrun.Target {
	return syncrun.Target{DynastyID: f.dynastyID, Year: f.year}
}

func expandSave(arg string) (string, error) {
	path, err := config.ExpandPath(strings.TrimSpace(arg))
	if err != nil {
		return "", fmt.Errorf("resolve save path: %w", err)
	}
	return path, nil
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "validate <save>",
		Short: "Check whether a save file can be synced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			save, err := expandSave(args[0])
			if err != nil {
				return err
			}
			logger := ctx.commandLogger()
			gateway, err := sidecar.NewFromConfig(cfg, logger)
			if err != nil {
				return err
			}
			verdict := savefile.NewReader(gateway, logger).Validate(cmd.Context(), save)
			if jsonOutput {
				if err := writeJSON(cmd, verdict); err != nil {
					return err
				}
			} else {
				writeVerdict(cmd.OutOrStdout(), verdict, shouldColorize(cmd.OutOrStdout()))
			}
			if verdict.Failure != nil {
				return fmt.Errorf("validation failed (%s)", verdict.Failure.Kind)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// prepare validates and extracts save, leaving the orchestrator confirming.
// A nil diff with a nil error means the save cannot be synced and the
// verdict has been reported.
func prepare(cmd *cobra.Command, orch *syncflow.Orchestrator, save string, quiet bool) (*reconcile.SyncDiff, error) {
	out := cmd.OutOrStdout()
	verdict, err := orch.Validate(cmd.Context(), save)
	if err != nil {
		return nil, err
	}
	if !quiet || !verdict.Ready() {
		writeVerdict(out, verdict, shouldColorize(out))
	}
	if verdict.Failure != nil {
		return nil, fmt.Errorf("validation failed (%s)", verdict.Failure.Kind)
	}
	if !verdict.Ready() {
		return nil, nil
	}
	diff, err := orch.Extract(cmd.Context())
	if err != nil {
		return nil, err
	}
	return &diff, nil
}

func newDiffCommand(ctx *commandContext) *cobra.Command {
	var (
		flags      targetFlags
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "diff <save>",
		Short: "Show what a sync would add without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			save, err := expandSave(args[0])
			if err != nil {
				return err
			}
			rt, err := syncrun.Open(cmd.Context(), cfg, ctx.commandLogger(), flags.target(), syncflow.WithAutoConfirm(0))
			if err != nil {
				return err
			}
			defer rt.Close()

			diff, err := prepare(cmd, rt.Orchestrator, save, jsonOutput)
			if err != nil || diff == nil {
				return err
			}
			defer func() { _ = rt.Orchestrator.Cancel() }()
			if jsonOutput {
				return writeJSON(cmd, diff)
			}
			writeDiff(cmd.OutOrStdout(), *diff)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var (
		flags       targetFlags
		yes         bool
		noCountdown bool
	)
	cmd := &cobra.Command{
		Use:   "sync <save>",
		Short: "Sync a save file into the dynasty season",
		Long: "Validate the save, show what is new, and commit it. Without --yes the commit " +
			"happens when the auto-confirm countdown ends; press Enter to commit sooner or " +
			"type c to cancel.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			save, err := expandSave(args[0])
			if err != nil {
				return err
			}

			var opts []syncrun.Option
			if yes || noCountdown {
				opts = append(opts, syncflow.WithAutoConfirm(0))
			}
			rt, err := syncrun.Open(cmd.Context(), cfg, ctx.commandLogger(), flags.target(), opts...)
			if err != nil {
				return err
			}
			defer rt.Close()

			settled := make(chan syncflow.Snapshot, 1)
			out := cmd.OutOrStdout()
			rt.Orchestrator.OnChange(func(s syncflow.Snapshot) {
				switch {
				case s.State == syncflow.StateConfirming && s.Countdown > 0:
					fmt.Fprintf(out, "Committing in %ds (Enter to commit now, c to cancel)\n", s.Countdown)
				case s.State == syncflow.StateDone:
					select {
					case settled <- s:
					default:
					}
				}
			})

			diff, err := prepare(cmd, rt.Orchestrator, save, false)
			if err != nil || diff == nil {
				return err
			}
			writeDiff(out, *diff)
			if diff.Empty() {
				_ = rt.Orchestrator.Cancel()
				fmt.Fprintln(out, "Nothing new to sync")
				return nil
			}

			switch {
			case yes:
				outcome, err := rt.Orchestrator.Confirm(cmd.Context())
				return reportOutcome(out, outcome, err)
			case rt.Orchestrator.Countdown() == 0:
				if !askYesNo(cmd.InOrStdin(), out, "Commit these records? [y/N] ") {
					_ = rt.Orchestrator.Cancel()
					fmt.Fprintln(out, "Sync cancelled")
					return nil
				}
				outcome, err := rt.Orchestrator.Confirm(cmd.Context())
				return reportOutcome(out, outcome, err)
			default:
				return awaitCountdown(cmd.Context(), cmd.InOrStdin(), out, rt.Orchestrator, settled)
			}
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Commit without confirmation")
	cmd.Flags().BoolVar(&noCountdown, "no-countdown", false, "Ask before committing instead of counting down")
	return cmd
}

func awaitCountdown(ctx context.Context, in io.Reader, out io.Writer, orch *syncflow.Orchestrator, settled <-chan syncflow.Snapshot) error {
	answers := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return
		}
		answers <- strings.ToLower(strings.TrimSpace(line))
	}()

	select {
	case snap := <-settled:
		return reportSnapshot(out, snap)
	case answer := <-answers:
		if answer == "c" || answer == "n" || answer == "cancel" {
			if err := orch.Cancel(); err == nil {
				fmt.Fprintln(out, "Sync cancelled")
				return nil
			}
			// Countdown already expired; fall through to its result.
			return reportSnapshot(out, <-settled)
		}
		outcome, err := orch.Confirm(ctx)
		if errors.Is(err, syncflow.ErrBusy) || errors.Is(err, syncflow.ErrInvalidState) {
			return reportSnapshot(out, <-settled)
		}
		return reportOutcome(out, outcome, err)
	case <-ctx.Done():
		if err := orch.Cancel(); err != nil {
			// The countdown already handed off to the commit; wait for it so
			// the counts written so far are reported before the store closes.
			return reportSnapshot(out, <-settled)
		}
		fmt.Fprintln(out, "Sync cancelled")
		return ctx.Err()
	}
}

func askYesNo(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func reportSnapshot(out io.Writer, snap syncflow.Snapshot) error {
	var outcome commit.Outcome
	if snap.Outcome != nil {
		outcome = *snap.Outcome
	}
	if snap.LastError != "" {
		return reportOutcome(out, outcome, errors.New(snap.LastError))
	}
	return reportOutcome(out, outcome, nil)
}

func reportOutcome(out io.Writer, outcome commit.Outcome, err error) error {
	fmt.Fprintf(out, "Added %d games, %d players, %d draft picks\n",
		outcome.GamesAdded, outcome.PlayersAdded, outcome.DraftPicksAdded)
	if err != nil {
		return fmt.Errorf("sync incomplete: %w", err)
	}
	return nil
}
