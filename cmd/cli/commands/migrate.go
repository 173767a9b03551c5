package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// migrator is implemented by the SQL backends
type migrator interface {
	RunMigrations(ctx context.Context) ([]string, error)
}

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := app.Database.(migrator)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "The configured backend has no schema to migrate.")
				return nil
			}

			applied, err := m.RunMigrations(app.Ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "Schema is up to date.")
				return nil
			}
			fmt.Fprintf(out, "\n✓ Applied %d migration(s):\n", len(applied))
			for _, name := range applied {
				fmt.Fprintf(out, "  - %s\n", name)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
