package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dynastysync/internal/store"
)

func newSeasonCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "Manage dynasty seasons",
	}
	cmd.AddCommand(newSeasonAddCommand(ctx))
	cmd.AddCommand(newSeasonListCommand(ctx))
	return cmd
}

func newSeasonAddCommand(ctx *commandContext) *cobra.Command {
	var (
		dynastyID int64
		year      int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a season to a dynasty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				dynasty, err := requireDynasty(cmd.Context(), st, dynastyID)
				if err != nil {
					return err
				}
				season, err := st.CreateSeason(cmd.Context(), dynasty.ID, year)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d season to %s (season %d)\n", season.Year, dynasty.Name, season.ID)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&dynastyID, "dynasty", 0, "Dynasty ID")
	cmd.Flags().IntVar(&year, "year", 0, "Season year")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newSeasonListCommand(ctx *commandContext) *cobra.Command {
	var dynastyID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a dynasty's seasons",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				dynasty, err := requireDynasty(cmd.Context(), st, dynastyID)
				if err != nil {
					return err
				}
				seasons, err := st.ListSeasons(cmd.Context(), dynasty.ID)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(seasons))
				for _, s := range seasons {
					games, err := st.GamesBySeason(cmd.Context(), s.ID)
					if err != nil {
						return err
					}
					wins, losses, ties := record(games)
					rows = append(rows, []string{
						strconv.FormatInt(s.ID, 10),
						strconv.Itoa(s.Year),
						strconv.Itoa(len(games)),
						fmt.Sprintf("%d-%d-%d", wins, losses, ties),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(dynasty.Name,
					[]string{"ID", "Year", "Games", "Record"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&dynastyID, "dynasty", 0, "Dynasty ID")
	return cmd
}

func record(games []*store.Game) (wins, losses, ties int) {
	for _, g := range games {
		switch g.Result {
		case "W":
			wins++
		case "L":
			losses++
		case "T":
			ties++
		}
	}
	return wins, losses, ties
}
