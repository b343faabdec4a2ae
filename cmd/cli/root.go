// Package cli implements the credscore-admin command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/pkg/logger"
)

// NewRootCmd builds the `credscore-admin` command with all subcommands attached.
// NewRootCmd 构建 `credscore-admin` 根命令并挂载全部子命令。
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "credscore-admin",
		Short: "A CLI tool for operating the credit scoring service.",
		Long: `credscore-admin scores applications offline, inspects scorecard artifacts
and reads decision statistics from the configured store.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file (default: ./config.yaml or /etc/credscore/config.yaml)")

	root.AddCommand(newScoreCmd(), newStatsCmd(), newHistoryCmd(), newModelCmd())
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadConfigFromFile(path)
	}
	return config.LoadConfig(logger.L())
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
