package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gymgate/gymgate/internal/app"
	"github.com/gymgate/gymgate/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// The container runs pending migrations while connecting.
		container, err := app.NewContainer(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		container.Close()

		logger.Info("migrations applied", "driver", cfg.DatabaseDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
