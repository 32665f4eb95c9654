package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dynastysync/internal/preflight"
	"dynastysync/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var savePath string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the extraction tool, directories and database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			save := strings.TrimSpace(savePath)
			if save != "" {
				if save, err = expandSave(save); err != nil {
					return err
				}
			}

			fmt.Fprintln(out, "Readiness")
			results := preflight.RunAll(cfg, save)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Auto-confirm", statusInfo, autoConfirmLabel(cfg.Sync.AutoConfirmSeconds), colorize))
			fmt.Fprintln(out, renderStatusLine("Transactional", statusInfo, yesNo(cfg.Transactional()), colorize))

			if err := ctx.withStore(func(st *store.Store) error {
				summaries, err := summarizeDynasties(cmd.Context(), st)
				if err != nil {
					return err
				}
				kind := statusOK
				if len(summaries) == 0 {
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine("Database", kind,
					fmt.Sprintf("%s (%d dynasties)", st.Path(), len(summaries)), colorize))
				return nil
			}); err != nil {
				fmt.Fprintln(out, renderStatusLine("Database", statusError, err.Error(), colorize))
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d readiness checks failed", len(failed))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&savePath, "save", "", "Also check this save file")
	return cmd
}

func autoConfirmLabel(seconds int) string {
	if seconds <= 0 {
		return "disabled"
	}
	return fmt.Sprintf("%ds", seconds)
}
