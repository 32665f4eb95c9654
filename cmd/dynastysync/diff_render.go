package main

import (
	"fmt"
	"io"
	"strconv"

	"dynastysync/internal/reconcile"
	"dynastysync/internal/savefile"
)

func writeDiff(out io.Writer, diff reconcile.SyncDiff) {
	if diff.DetectedYear != 0 {
		fmt.Fprintf(out, "Save season: %d\n", diff.DetectedYear)
	}
	fmt.Fprintf(out, "New: %d games, %d players, %d draft picks\n",
		len(diff.GamesToAdd), len(diff.PlayersToAdd), len(diff.DraftPicksToAdd))
	fmt.Fprintf(out, "Skipped: %d games, %d players, %d draft picks\n",
		diff.GamesSkippedCount, diff.PlayersSkippedCount, diff.DraftPicksSkippedCount)

	if len(diff.GamesToAdd) > 0 {
		rows := make([][]string, 0, len(diff.GamesToAdd))
		for _, g := range diff.GamesToAdd {
			rows = append(rows, []string{
				strconv.Itoa(g.Week),
				g.Location(),
				g.Opponent,
				fmt.Sprintf("%s %d-%d", g.Result, g.OurScore, g.OpponentScore),
				string(g.GameType),
			})
		}
		fmt.Fprintln(out, renderTable("Games",
			[]string{"Week", "Site", "Opponent", "Result", "Type"}, rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}))
	}
	if len(diff.PlayersToAdd) > 0 {
		rows := make([][]string, 0, len(diff.PlayersToAdd))
		for _, p := range diff.PlayersToAdd {
			rows = append(rows, []string{str(p.Name), str(p.Position), num(p.JerseyNumber), num(p.Overall)})
		}
		fmt.Fprintln(out, renderTable("Players",
			[]string{"Name", "Pos", "No.", "OVR"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight}))
	}
	if len(diff.DraftPicksToAdd) > 0 {
		rows := make([][]string, 0, len(diff.DraftPicksToAdd))
		for _, d := range diff.DraftPicksToAdd {
			rows = append(rows, []string{num(d.Round), num(d.Pick), str(d.Team)})
		}
		fmt.Fprintln(out, renderTable("Draft picks",
			[]string{"Round", "Pick", "Team"}, rows,
			[]columnAlignment{alignRight, alignRight, alignLeft}))
	}
}

func writeVerdict(out io.Writer, verdict savefile.ValidationVerdict, colorize bool) {
	switch {
	case verdict.Failure != nil:
		fmt.Fprintln(out, renderStatusLine("Save", statusError, verdict.Failure.Error(), colorize))
	case verdict.Unsupported():
		fmt.Fprintln(out, renderStatusLine("Save", statusWarn, "unsupported game version", colorize))
		if verdict.UnsupportedReason != "" {
			fmt.Fprintf(out, "  %s\n", verdict.UnsupportedReason)
		}
		fmt.Fprintln(out, "  Enter this season's results manually; syncing will not work for this save.")
	case verdict.Ready():
		fmt.Fprintln(out, renderStatusLine("Save", statusOK, labelOr(verdict.DetectedVersion, "supported"), colorize))
	default:
		fmt.Fprintln(out, renderStatusLine("Save", statusError, "not a dynasty save", colorize))
	}
}

func labelOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func str(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func num(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
