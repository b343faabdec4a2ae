package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/turtacn/credscore/internal/infrastructure/persistence"
	"github.com/turtacn/credscore/pkg/logger"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate decision statistics from the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			store, err := persistence.OpenStore(ctx, &cfg.Database, "", logger.L())
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Repository.AggregateStats(ctx, time.Now().UTC())
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Total predictions\t%s\n", humanize.Comma(stats.TotalPredictions))
			fmt.Fprintf(w, "Last 24h\t%s\n", humanize.Comma(stats.Last24h))
			fmt.Fprintf(w, "Average score\t%.2f\n", stats.AvgCreditScore)
			tiers := make([]string, 0, len(stats.ByRiskLevel))
			for tier := range stats.ByRiskLevel {
				tiers = append(tiers, tier)
			}
			sort.Strings(tiers)
			for _, tier := range tiers {
				fmt.Fprintf(w, "  %s\t%s\n", tier, humanize.Comma(stats.ByRiskLevel[tier]))
			}
			return w.Flush()
		},
	}
	cmd.Flags().Bool("json", false, "print JSON instead of a table")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent decisions for an applicant",
		RunE: func(cmd *cobra.Command, args []string) error {
			applicantID, _ := cmd.Flags().GetString("applicant")
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			store, err := persistence.OpenStore(ctx, &cfg.Database, "", logger.L())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.History(ctx, applicantID, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DECIDED\tSCORE\tPROBABILITY\tRISK\tDECISION ID")
			for _, r := range records {
				d := r.Decision
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%s\t%s\n",
					humanize.Time(d.DecidedAt), d.Score, d.Probability, d.Tier, d.ID)
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("applicant", "", "applicant id")
	cmd.Flags().Int("limit", 20, "maximum number of decisions")
	_ = cmd.MarkFlagRequired("applicant")
	return cmd
}
