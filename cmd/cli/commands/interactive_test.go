package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{"plain", "assignShift shift_1 cg_alex", []string{"assignShift", "shift_1", "cg_alex"}},
		{"double quotes", `seed --file "my seeds.yaml"`, []string{"seed", "--file", "my seeds.yaml"}},
		{"single quotes", `seed --file 'a b'`, []string{"seed", "--file", "a b"}},
		{"empty quotes", `listOpenShifts "" x`, []string{"listOpenShifts", "", "x"}},
		{"extra spaces", "  listShifts   --json  ", []string{"listShifts", "--json"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := parseCommandLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, args)
		})
	}

	_, err := parseCommandLine(`seed --file "unterminated`)
	assert.Error(t, err)
}

func newTestRoot(app *AppContext) *cobra.Command {
	root := &cobra.Command{Use: "cli"}
	root.AddCommand(ListShiftsCmd(app))
	root.AddCommand(AssignShiftCmd(app))
	root.AddCommand(ListExpiringComplianceCmd(app))
	root.AddCommand(InteractiveCmd(app))
	return root
}

func TestSession_StatePersistsAcrossCommands(t *testing.T) {
	app := newTestApp(t)
	var out bytes.Buffer
	s := newSession(newTestRoot(app), &out)

	assert.False(t, s.run("assignShift shift_1 cg_alex"))
	assert.False(t, s.run("assignShift shift_1 cg_beth"))
	assert.Contains(t, out.String(), "Shift assigned successfully")
	assert.Contains(t, out.String(), model.CodeShiftNotOpen)

	shift, err := app.Database.GetShift(context.Background(), "shift_1")
	require.NoError(t, err)
	assert.Equal(t, "cg_alex", shift.CaregiverID)
}

func TestSession_FlagsResetBetweenRuns(t *testing.T) {
	app := newTestApp(t)
	var out bytes.Buffer
	s := newSession(newTestRoot(app), &out)

	s.run("listExpiringCompliance --days 200")
	assert.Contains(t, out.String(), "Expiring compliance (2)")

	out.Reset()
	s.run("listExpiringCompliance")
	assert.Contains(t, out.String(), "Expiring compliance (1)")
}

func TestSession_HelpUnknownAndExit(t *testing.T) {
	var out bytes.Buffer
	s := newSession(newTestRoot(newTestApp(t)), &out)

	assert.False(t, s.run("help"))
	help := out.String()
	assert.Contains(t, help, "assignShift <shift_id> <caregiver_id>")
	assert.NotContains(t, help, "Start an interactive session")
	assert.Less(t, strings.Index(help, "assignShift"), strings.Index(help, "listShifts"))

	assert.False(t, s.run("bogus"))
	assert.Contains(t, out.String(), "Unknown command: bogus")

	assert.False(t, s.run("assignShift shift_1"))
	assert.Contains(t, out.String(), "❌ Error:")

	assert.True(t, s.run("exit"))
}

func TestInteractiveCmd_ReadsInput(t *testing.T) {
	app := newTestApp(t)
	root := newTestRoot(app)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("listShifts\nquit\n"))
	root.SetArgs([]string{"interactive"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Shifts (2)")
	assert.Contains(t, out.String(), "Goodbye")
}
