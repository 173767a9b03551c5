package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/health-ops/pkg/core/services"
)

// ListShiftsCmd creates the listShifts command
func ListShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listShifts",
		Short: "List every shift with its status and assignee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			shifts, err := services.ListShifts(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), shifts)
			}
			printShifts(cmd.OutOrStdout(), "Shifts", shifts)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print JSON instead of a table")

	return cmd
}
