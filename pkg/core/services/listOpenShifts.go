package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/pkg/core/matcher"
	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/metrics"
)

// ListOpenShiftsStore defines the database operations needed for listing open shifts
type ListOpenShiftsStore interface {
	AllShifts(ctx context.Context) ([]model.Shift, error)
}

// ListOpenShifts returns the open shifts starting within [fromTS, toTS].
// An empty locationID matches every location. No results is an empty slice, not an error.
func ListOpenShifts(
	ctx context.Context,
	database ListOpenShiftsStore,
	logger *zap.Logger,
	opts Options,
	locationID string,
	fromTS string,
	toTS string,
) ([]model.Shift, error) {
	defer metrics.ObserveDuration("list_open_shifts", time.Now())

	from, to, err := parseWindow(fromTS, toTS)
	if err != nil {
		return nil, err
	}

	filter := matcher.WindowFilter{
		LocationID: locationID,
		Start:      from,
		End:        to,
		Mode:       opts.WindowMode,
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Listing open shifts",
		zap.String("location_id", locationID),
		zap.Time("from", from),
		zap.Time("to", to))

	shifts, err := database.AllShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	logger.Debug("Found shifts", zap.Int("count", len(shifts)))

	open := matcher.SelectOpenShifts(shifts, filter)
	logger.Info("Open shifts listed", zap.Int("count", len(open)))

	return open, nil
}
