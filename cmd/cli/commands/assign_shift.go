package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/health-ops/pkg/core/services"
)

// AssignShiftCmd creates the assignShift command
func AssignShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignShift <shift_id> <caregiver_id>",
		Short: "Assign a caregiver to an open shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")

			result, err := services.AssignShift(app.Ctx, app.Database, app.Logger, app.Options, args[0], args[1], source)
			if err != nil {
				return err
			}
			if !result.OK {
				return fmt.Errorf("assignment failed: %w", result.Err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Shift assigned successfully!\n\n")
			fmt.Fprintf(out, "  %s\n", formatShift(*result.Shift))
			fmt.Fprintf(out, "  Source: %s\n\n", result.Source)

			return nil
		},
	}

	cmd.Flags().String("source", services.DefaultSource, "Provenance recorded in the assignment audit")

	return cmd
}
