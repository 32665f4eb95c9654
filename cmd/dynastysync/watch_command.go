package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dynastysync/internal/syncflow"
	"dynastysync/internal/syncrun"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var (
		flags    targetFlags
		logLevel string
		devMode  bool
	)
	cmd := &cobra.Command{
		Use:   "watch <save>",
		Short: "Sync the save every time the game writes it",
		Long: "Run in the foreground, watching the save file. Each debounced write validates, " +
			"extracts and diffs the save, then commits after the auto-confirm countdown. " +
			"Writes that land while a sync is already underway are ignored.",
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
			out := cmd.OutOrStdout()
			return syncrun.Watch(cmd.Context(), cfg, syncrun.WatchOptions{
				Target:      flags.target(),
				SavePath:    save,
				LogLevel:    logLevel,
				Development: devMode,
				OnChange: func(s syncflow.Snapshot) {
					switch s.State {
					case syncflow.StateConfirming:
						if s.Diff != nil && s.Countdown == cfg.Sync.AutoConfirmSeconds {
							fmt.Fprintf(out, "%d new records found; committing in %ds\n", s.Diff.Additions(), s.Countdown)
						}
					case syncflow.StateDone:
						if s.Outcome != nil {
							fmt.Fprintf(out, "Synced %d records\n", s.Outcome.Total())
						}
						if s.LastError != "" {
							fmt.Fprintf(out, "Sync incomplete: %s\n", s.LastError)
						}
					case syncflow.StateUnsupported:
						fmt.Fprintln(out, "Save version unsupported; enter results manually")
					}
				},
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Include source locations in logs")
	return cmd
}
