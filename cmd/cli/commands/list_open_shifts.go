package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/health-ops/pkg/core/services"
)

// ListOpenShiftsCmd creates the listOpenShifts command
func ListOpenShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listOpenShifts <from> <to>",
		Short: "List open shifts starting between two ISO-8601 timestamps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			locationID, _ := cmd.Flags().GetString("location")
			asJSON, _ := cmd.Flags().GetBool("json")

			shifts, err := services.ListOpenShifts(app.Ctx, app.Database, app.Logger, app.Options, locationID, args[0], args[1])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), shifts)
			}
			printShifts(cmd.OutOrStdout(), "Open shifts", shifts)
			return nil
		},
	}

	cmd.Flags().String("location", "", "Only list shifts at this location")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")

	return cmd
}
