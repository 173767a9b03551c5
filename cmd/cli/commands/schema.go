package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/health-ops/pkg/core/services"
)

// SchemaCmd creates the schema command
func SchemaCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Describe the workforce entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			entities := services.DescribeSchema()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entities)
			}
			fmt.Fprint(cmd.OutOrStdout(), services.FormatSchema(entities))
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print JSON instead of text")

	return cmd
}
