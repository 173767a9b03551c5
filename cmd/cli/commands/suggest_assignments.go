package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/health-ops/pkg/core/services"
)

// SuggestAssignmentsCmd creates the suggestAssignments command
func SuggestAssignmentsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestAssignments <location_id> <from> <to>",
		Short: "Suggest a caregiver for each open shift at a location",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			suggestions, err := services.SuggestAssignments(app.Ctx, app.Database, app.Logger, app.Options, args[0], args[1], args[2])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), suggestions)
			}
			printSuggestions(cmd.OutOrStdout(), suggestions)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print JSON instead of a table")

	return cmd
}
