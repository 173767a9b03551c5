package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jakechorley/health-ops/pkg/core/matcher"
	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/core/services"
)

const displayTimeLayout = "Mon 2006-01-02 15:04"

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatShift(s model.Shift) string {
	line := fmt.Sprintf("%-12s %-10s %s → %s  %s/%s  [%s]",
		s.ID,
		s.LocationID,
		s.StartsAt.UTC().Format(displayTimeLayout),
		s.EndsAt.UTC().Format("15:04"),
		s.RequiredRole,
		s.RequiredSkill,
		s.Status,
	)
	if s.CaregiverID != "" {
		line += " " + s.CaregiverID
	}
	return line
}

func printShifts(w io.Writer, title string, shifts []model.Shift) {
	if len(shifts) == 0 {
		fmt.Fprintf(w, "\nNo %s.\n", strings.ToLower(title))
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n\n", title, len(shifts))
	for _, s := range shifts {
		fmt.Fprintf(w, "  %s\n", formatShift(s))
	}
	fmt.Fprintln(w)
}

func printSuggestions(w io.Writer, suggestions []matcher.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "\nNo eligible caregivers for the open shifts in this window.")
		return
	}
	fmt.Fprintf(w, "\nSuggestions (%d):\n\n", len(suggestions))
	for _, s := range suggestions {
		fmt.Fprintf(w, "  %-12s → %-12s score=%.1f  %s\n", s.ShiftID, s.CaregiverID, s.Score, s.Reason)
	}
	fmt.Fprintln(w)
}

func printExpiring(w io.Writer, items []services.ExpiringCompliance, now time.Time) {
	if len(items) == 0 {
		fmt.Fprintln(w, "\nNo compliance items expiring in this window.")
		return
	}
	fmt.Fprintf(w, "\nExpiring compliance (%d):\n\n", len(items))
	for _, item := range items {
		fmt.Fprintf(w, "  %-20s %-10s %s (%s)\n",
			item.CaregiverName,
			item.Type,
			item.ExpiresAt.UTC().Format("2006-01-02"),
			daysUntil(now, item.ExpiresAt))
	}
	fmt.Fprintln(w)
}

// daysUntil renders the whole days between now and t
func daysUntil(now, t time.Time) string {
	days := int(t.Sub(now).Hours() / 24)
	switch days {
	case 0:
		return "today"
	case 1:
		return "in 1 day"
	}
	return fmt.Sprintf("in %d days", days)
}
