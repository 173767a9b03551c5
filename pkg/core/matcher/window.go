package matcher

import (
	"fmt"
	"time"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

// WindowMode controls which part of a shift is compared against a window
type WindowMode string

const (
	// WindowModeStart only requires the shift to start inside the window.
	// A shift that starts inside but ends after the window still qualifies.
	WindowModeStart WindowMode = "start"

	// WindowModeContained requires the shift to both start and end inside the window
	WindowModeContained WindowMode = "contained"
)

func (m WindowMode) IsValid() bool {
	return m == WindowModeStart || m == WindowModeContained
}

// WindowFilter selects open shifts for consideration
type WindowFilter struct {
	// LocationID restricts results to one location; empty means all locations
	LocationID string

	// Start and End are both inclusive
	Start time.Time
	End   time.Time

	// Mode defaults to WindowModeStart when empty
	Mode WindowMode
}

// Validate checks the window mode. An inverted window is not an error;
// it simply selects nothing.
func (f WindowFilter) Validate() error {
	if f.Mode != "" && !f.Mode.IsValid() {
		return &model.ValidationError{
			Entity:   "window",
			Problems: []string{fmt.Sprintf("window mode must be one of [start contained], got %q", f.Mode)},
		}
	}
	return nil
}

// Matches reports whether a single shift passes the filter
func (f WindowFilter) Matches(shift *model.Shift) bool {
	if !shift.IsOpen() {
		return false
	}
	if f.LocationID != "" && shift.LocationID != f.LocationID {
		return false
	}
	if shift.StartsAt.Before(f.Start) || shift.StartsAt.After(f.End) {
		return false
	}
	if f.Mode == WindowModeContained && shift.EndsAt.After(f.End) {
		return false
	}
	return true
}

// SelectOpenShifts returns the shifts that pass the filter, in input order.
// An empty window (End before Start) selects nothing.
func SelectOpenShifts(shifts []model.Shift, filter WindowFilter) []model.Shift {
	selected := make([]model.Shift, 0)
	for i := range shifts {
		if filter.Matches(&shifts[i]) {
			selected = append(selected, shifts[i])
		}
	}
	return selected
}
