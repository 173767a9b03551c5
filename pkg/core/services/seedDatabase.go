package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/seed"
)

// SeedDatabaseStore defines the database operations needed for seeding
type SeedDatabaseStore interface {
	SaveLocation(ctx context.Context, location *model.Location) error
	SaveCaregiver(ctx context.Context, caregiver *model.Caregiver) error
	SaveShift(ctx context.Context, shift *model.Shift) error
	SaveComplianceItem(ctx context.Context, item *model.ComplianceItem) error
	Reset(ctx context.Context) error
}

// SeedDatabase writes dataset to the store. Existing records with the same IDs
// are overwritten. With reset, all shifts and assignment audits are removed first.
func SeedDatabase(ctx context.Context, database SeedDatabaseStore, logger *zap.Logger, dataset *seed.Dataset, reset bool) error {
	if err := dataset.Validate(); err != nil {
		return err
	}

	if reset {
		logger.Info("Resetting shifts and assignment history")
		if err := database.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}

	for i := range dataset.Locations {
		if err := database.SaveLocation(ctx, &dataset.Locations[i]); err != nil {
			return fmt.Errorf("failed to save location %s: %w", dataset.Locations[i].ID, err)
		}
	}
	for i := range dataset.Caregivers {
		if err := database.SaveCaregiver(ctx, &dataset.Caregivers[i]); err != nil {
			return fmt.Errorf("failed to save caregiver %s: %w", dataset.Caregivers[i].ID, err)
		}
	}
	for i := range dataset.Shifts {
		if err := database.SaveShift(ctx, &dataset.Shifts[i]); err != nil {
			return fmt.Errorf("failed to save shift %s: %w", dataset.Shifts[i].ID, err)
		}
	}
	for i := range dataset.Compliance {
		if err := database.SaveComplianceItem(ctx, &dataset.Compliance[i]); err != nil {
			return fmt.Errorf("failed to save compliance item %s: %w", dataset.Compliance[i].ID, err)
		}
	}

	logger.Info("Database seeded", zap.String("records", dataset.Summary()))
	return nil
}
