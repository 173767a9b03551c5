package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/pkg/core/matcher"
	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/metrics"
)

// SuggestAssignmentsStore defines the database operations needed for suggesting assignments
type SuggestAssignmentsStore interface {
	AllShifts(ctx context.Context) ([]model.Shift, error)
	AllCaregivers(ctx context.Context) ([]model.Caregiver, error)
}

// SuggestAssignments proposes at most one caregiver for each open shift at
// locationID starting within [fromTS, toTS]. Shifts with no eligible caregiver
// are left out of the result.
func SuggestAssignments(
	ctx context.Context,
	database SuggestAssignmentsStore,
	logger *zap.Logger,
	opts Options,
	locationID string,
	fromTS string,
	toTS string,
) ([]matcher.Suggestion, error) {
	defer metrics.ObserveDuration("suggest_assignments", time.Now())

	if strings.TrimSpace(locationID) == "" {
		return nil, &model.ValidationError{Entity: "request", Problems: []string{"location_id is required"}}
	}

	from, to, err := parseWindow(fromTS, toTS)
	if err != nil {
		return nil, err
	}

	m := opts.matcher()
	if err := (matcher.WindowFilter{Mode: m.WindowMode()}).Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Suggesting assignments",
		zap.String("location_id", locationID),
		zap.Time("from", from),
		zap.Time("to", to))

	shifts, err := database.AllShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	caregivers, err := database.AllCaregivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch caregivers: %w", err)
	}
	logger.Debug("Loaded matching inputs",
		zap.Int("shifts", len(shifts)),
		zap.Int("caregivers", len(caregivers)))

	considered := matcher.SelectOpenShifts(shifts, matcher.WindowFilter{
		LocationID: locationID,
		Start:      from,
		End:        to,
		Mode:       m.WindowMode(),
	})

	suggestions := m.Suggest(shifts, caregivers, locationID, from, to)

	for _, s := range suggestions {
		logger.Debug("Suggested caregiver",
			zap.String("shift_id", s.ShiftID),
			zap.String("caregiver_id", s.CaregiverID),
			zap.String("reason", s.Reason))
	}

	unmatched := len(considered) - len(suggestions)
	metrics.SuggestionsTotal.Add(float64(len(suggestions)))
	metrics.UnmatchedShiftsTotal.Add(float64(unmatched))

	logger.Info("Suggestions produced",
		zap.String("location_id", locationID),
		zap.Int("open_shifts", len(considered)),
		zap.Int("suggestions", len(suggestions)),
		zap.Int("unmatched", unmatched))

	return suggestions, nil
}
