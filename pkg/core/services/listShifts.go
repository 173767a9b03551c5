package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

// ListShiftsStore defines the database operations needed for listing the schedule
type ListShiftsStore interface {
	AllShifts(ctx context.Context) ([]model.Shift, error)
}

// ListShifts returns every shift with its status and assignee, in store order
func ListShifts(ctx context.Context, database ListShiftsStore, logger *zap.Logger) ([]model.Shift, error) {
	shifts, err := database.AllShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	if shifts == nil {
		shifts = make([]model.Shift, 0)
	}

	logger.Debug("Listed shifts", zap.Int("count", len(shifts)))
	return shifts, nil
}
