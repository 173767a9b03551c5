package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/health-ops/pkg/core/services"
)

// ListExpiringComplianceCmd creates the listExpiringCompliance command
func ListExpiringComplianceCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listExpiringCompliance",
		Short: "List licences and certifications expiring soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			daysAhead, _ := cmd.Flags().GetInt("days")
			if !cmd.Flags().Changed("days") {
				daysAhead = app.defaultDaysAhead()
			}
			asJSON, _ := cmd.Flags().GetBool("json")

			now := app.now()
			items, err := services.ListExpiringCompliance(app.Ctx, app.Database, app.Logger, now, daysAhead)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			printExpiring(cmd.OutOrStdout(), items, now)
			return nil
		},
	}

	cmd.Flags().Int("days", services.DefaultComplianceDaysAhead, "Lookahead in days (defaults to compliance.defaultDaysAhead)")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")

	return cmd
}
