package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"
	"github.com/turtacn/credscore/internal/application/dto"
	appservice "github.com/turtacn/credscore/internal/application/service"
	"github.com/turtacn/credscore/internal/infrastructure/scorecard"
	"github.com/turtacn/credscore/pkg/errors"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an application offline (nothing is persisted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			modelPath, _ := cmd.Flags().GetString("model")
			if modelPath == "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				modelPath = cfg.Model.ArtifactPath
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read application: %w", err)
			}
			var req dto.CreditScoreRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("failed to parse application: %w", err)
			}
			if err := binding.Validator.ValidateStruct(&req); err != nil {
				return fmt.Errorf("invalid application: %w", err)
			}

			ctx := commandContext(cmd)
			registry := scorecard.NewRegistry(modelPath, nil)
			if err := registry.Load(ctx); err != nil {
				return err
			}

			resp, err := appservice.NewScoringAppService(registry, nil, nil, nil, nil).
				Score(ctx, &req, dto.RequestMeta{ClientIP: "cli"})
			if errors.IsValidationFailed(err) {
				return fmt.Errorf("application rejected due to validation errors:\n  - %s",
					strings.Join(errors.Reasons(err), "\n  - "))
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().String("file", "", "path to an application JSON document")
	cmd.Flags().String("model", "", "scorecard artifact (default: model.artifact_path from config)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
