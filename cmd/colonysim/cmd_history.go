package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/colonysim/internal/persistence"
	"github.com/talgya/colonysim/internal/report"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := persistence.Open(storePath(cmd))
			if err != nil {
				return err
			}
			defer db.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := db.RecentRuns(limit)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stored runs.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWHEN\tMODE\tSEED\tMONTHS\tFINAL\tCOST")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t$%s\n",
					r.ID, humanize.Time(r.CreatedAt), r.Mode, r.Seed, r.Months,
					humanize.Comma(int64(r.FinalPopulation)),
					humanize.FormatFloat("#,###.##", r.TotalCost))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum runs to list")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := persistence.Open(storePath(cmd))
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := db.GetRun(args[0])
			if err != nil {
				return err
			}
			if path, _ := cmd.Flags().GetString("chart"); path != "" {
				if err := writeChartFile(path, run.Response); err != nil {
					return err
				}
			}
			if wantJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), run)
			}
			return report.WriteTable(cmd.OutOrStdout(), run.Response)
		},
	}
	show.Flags().String("chart", "", "Write a PNG population chart to this path")
	cmd.AddCommand(show)
	return cmd
}
