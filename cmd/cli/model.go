package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/turtacn/credscore/internal/infrastructure/scorecard"
	"github.com/turtacn/credscore/pkg/constants"
)

func newModelCmd() *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Work with scorecard artifacts",
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Validate an artifact and print its summary and score band",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("model")
			if path == "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				path = cfg.Model.ArtifactPath
			}

			artifact, err := scorecard.LoadArtifact(path)
			if err != nil {
				return err
			}
			band := artifact.Band()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Path\t%s\n", path)
			fmt.Fprintf(w, "Version\t%s\n", artifact.Version)
			fmt.Fprintf(w, "Factor\t%.4f\n", artifact.Factor)
			fmt.Fprintf(w, "Offset\t%.4f\n", artifact.Offset)
			fmt.Fprintf(w, "Intercept\t%.4f\n", artifact.Intercept)
			fmt.Fprintf(w, "Score band\t%d - %d\n", band.Min, band.Max)
			fmt.Fprintln(w, "Features\t")
			for _, name := range artifact.SelectedFeatures {
				feat := artifact.Features[name]
				fmt.Fprintf(w, "  %s\tcoef=%.4f bins=%d\n", name, feat.Coefficient, len(feat.Bins))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			// 分数区间无法覆盖风险分层阈值时给出提示
			if band.Max < constants.LowRiskMinScore {
				fmt.Fprintf(cmd.OutOrStdout(), "WARNING: no applicant can reach the Low tier (min %d)\n", constants.LowRiskMinScore)
			}
			if band.Min >= constants.MediumRiskMinScore {
				fmt.Fprintf(cmd.OutOrStdout(), "WARNING: no applicant can fall into the High tier (below %d)\n", constants.MediumRiskMinScore)
			}
			return nil
		},
	}
	inspectCmd.Flags().String("model", "", "scorecard artifact (default: model.artifact_path from config)")

	modelCmd.AddCommand(inspectCmd)
	return modelCmd
}
