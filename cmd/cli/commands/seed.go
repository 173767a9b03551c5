package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/pkg/core/services"
	"github.com/jakechorley/health-ops/pkg/seed"
)

// SeedCmd creates the seed command
func SeedCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo dataset or a YAML seed file into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reset, _ := cmd.Flags().GetBool("reset")
			file, _ := cmd.Flags().GetString("file")
			if file == "" && app.Cfg != nil {
				file = app.Cfg.Seed.File
			}

			var dataset *seed.Dataset
			if file != "" {
				app.Logger.Info("Loading seed file", zap.String("path", file))
				loaded, err := seed.LoadFile(file)
				if err != nil {
					return err
				}
				dataset = loaded
			} else {
				dataset = seed.Default(app.now())
			}

			if err := services.SeedDatabase(app.Ctx, app.Database, app.Logger, dataset, reset); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Seeded %s\n\n", dataset.Summary())
			return nil
		},
	}

	cmd.Flags().Bool("reset", false, "Remove existing shifts and assignment history first")
	cmd.Flags().String("file", "", "YAML seed file (defaults to seed.file, then the demo dataset)")

	return cmd
}
