package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dynastysync/internal/sidecar"
)

func newSidecarCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sidecar",
		Short: "Extraction tool utilities",
	}
	cmd.AddCommand(newSidecarVersionCommand(ctx))
	cmd.AddCommand(newSidecarUpdateCommand(ctx))
	return cmd
}

func newSidecarVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the extraction tool version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			gateway, err := sidecar.NewFromConfig(cfg, ctx.commandLogger())
			if err != nil {
				return err
			}
			version, failure := gateway.Version(cmd.Context())
			if failure != nil {
				return fmt.Errorf("sidecar version: %w", failure)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", gateway.Binary(), version)
			return nil
		},
	}
}

func newSidecarUpdateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Ask the extraction tool to update itself",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			gateway, err := sidecar.NewFromConfig(cfg, ctx.commandLogger())
			if err != nil {
				return err
			}
			res := gateway.Update(cmd.Context())
			if res.Failed() {
				return fmt.Errorf("sidecar update: %w", res.Failure)
			}
			if res.Output != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Extraction tool up to date")
			return nil
		},
	}
}
