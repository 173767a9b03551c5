package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/db"
)

const caregiverColumns = `id, name, role, skills, home_location_id, max_hours_per_week, preferred_shift_types`

func scanCaregiver(row pgx.Row) (*model.Caregiver, error) {
	var c model.Caregiver
	if err := row.Scan(&c.ID, &c.Name, &c.Role, &c.Skills, &c.HomeLocationID, &c.MaxHoursPerWeek, &c.PreferredShiftTypes); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCaregiver retrieves a single caregiver by ID
func (d *DB) GetCaregiver(ctx context.Context, id string) (*model.Caregiver, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+caregiverColumns+` FROM caregivers WHERE id = $1`, id)
	caregiver, err := scanCaregiver(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("caregiver %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query caregiver: %w", err)
	}
	return caregiver, nil
}

// AllCaregivers retrieves every caregiver in insertion order
func (d *DB) AllCaregivers(ctx context.Context) ([]model.Caregiver, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+caregiverColumns+` FROM caregivers ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query caregivers: %w", err)
	}
	defer rows.Close()

	caregivers := make([]model.Caregiver, 0)
	for rows.Next() {
		caregiver, err := scanCaregiver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan caregiver: %w", err)
		}
		caregivers = append(caregivers, *caregiver)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating caregivers: %w", err)
	}

	return caregivers, nil
}

// SaveCaregiver inserts or replaces a caregiver
func (d *DB) SaveCaregiver(ctx context.Context, caregiver *model.Caregiver) error {
	if err := caregiver.Validate(); err != nil {
		return err
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO caregivers (`+caregiverColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			skills = EXCLUDED.skills,
			home_location_id = EXCLUDED.home_location_id,
			max_hours_per_week = EXCLUDED.max_hours_per_week,
			preferred_shift_types = EXCLUDED.preferred_shift_types
	`, caregiver.ID, caregiver.Name, caregiver.Role, nonNil(caregiver.Skills), caregiver.HomeLocationID,
		caregiver.MaxHoursPerWeek, nonNil(caregiver.PreferredShiftTypes))
	if err != nil {
		return fmt.Errorf("failed to save caregiver: %w", err)
	}
	return nil
}

// AllLocations retrieves every location in insertion order
func (d *DB) AllLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, name, timezone FROM locations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	locations := make([]model.Location, 0)
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Timezone); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}

// SaveLocation inserts or replaces a location
func (d *DB) SaveLocation(ctx context.Context, location *model.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO locations (id, name, timezone)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, timezone = EXCLUDED.timezone
	`, location.ID, location.Name, location.Timezone)
	if err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
