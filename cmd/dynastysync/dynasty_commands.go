package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dynastysync/internal/store"
)

func newDynastyCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dynasty",
		Short: "Manage tracked dynasties",
	}
	cmd.AddCommand(newDynastyAddCommand(ctx))
	cmd.AddCommand(newDynastyListCommand(ctx))
	return cmd
}

func newDynastyAddCommand(ctx *commandContext) *cobra.Command {
	var (
		name      string
		team      string
		startYear int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a dynasty",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = team
			}
			return ctx.withStore(func(st *store.Store) error {
				dynasty, err := st.CreateDynasty(cmd.Context(), name, team, startYear)
				if err != nil {
					return err
				}
				if _, err := st.CreateSeason(cmd.Context(), dynasty.ID, startYear); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created dynasty %d (%s, %s) starting %d\n",
					dynasty.ID, dynasty.Name, dynasty.TeamName, dynasty.StartYear)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the team name)")
	cmd.Flags().StringVar(&team, "team", "", "Team you play as, matched against save game teams")
	cmd.Flags().IntVar(&startYear, "start-year", 0, "First season year")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("start-year")
	return cmd
}

func newDynastyListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dynasties and their record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				summaries, err := summarizeDynasties(cmd.Context(), st)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, summaries)
				}
				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No dynasties yet; create one with `dynastysync dynasty add`")
					return nil
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{
						strconv.FormatInt(s.ID, 10),
						s.Name,
						s.Team,
						strconv.Itoa(s.StartYear),
						strconv.Itoa(s.Counts.Seasons),
						strconv.Itoa(s.Counts.Games),
						strconv.Itoa(s.Counts.Players),
						strconv.Itoa(s.Counts.DraftPicks),
					})
				}
				fmt.Fprintln(out, renderTable("",
					[]string{"ID", "Name", "Team", "Start", "Seasons", "Games", "Players", "Picks"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type dynastySummary struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Team      string       `json:"team"`
	StartYear int          `json:"startYear"`
	Counts    store.Counts `json:"counts"`
}

func summarizeDynasties(ctx context.Context, st *store.Store) ([]dynastySummary, error) {
	dynasties, err := st.ListDynasties(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dynastySummary, 0, len(dynasties))
	for _, d := range dynasties {
		counts, err := st.CountsForDynasty(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dynastySummary{ID: d.ID, Name: d.Name, Team: d.TeamName, StartYear: d.StartYear, Counts: counts})
	}
	return out, nil
}

func requireDynasty(ctx context.Context, st *store.Store, id int64) (*store.Dynasty, error) {
	if id <= 0 {
		return nil, errors.New("--dynasty is required")
	}
	dynasty, err := st.GetDynasty(ctx, id)
	if err != nil {
		return nil, err
	}
	if dynasty == nil {
		return nil, fmt.Errorf("dynasty %d not found", id)
	}
	return dynasty, nil
}
