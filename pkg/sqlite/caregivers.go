package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/db"
)

const caregiverColumns = `id, name, role, skills, home_location_id, max_hours_per_week, preferred_shift_types`

func scanCaregiver(row scanner) (*model.Caregiver, error) {
	var c model.Caregiver
	var skills, preferred string
	if err := row.Scan(&c.ID, &c.Name, &c.Role, &skills, &c.HomeLocationID, &c.MaxHoursPerWeek, &preferred); err != nil {
		return nil, err
	}

	var err error
	if c.Skills, err = decodeList("skills", skills); err != nil {
		return nil, err
	}
	if c.PreferredShiftTypes, err = decodeList("preferred_shift_types", preferred); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCaregiver retrieves a single caregiver by ID
func (s *Store) GetCaregiver(ctx context.Context, id string) (*model.Caregiver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+caregiverColumns+` FROM caregivers WHERE id = ?`, id)
	caregiver, err := scanCaregiver(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("caregiver %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query caregiver: %w", err)
	}
	return caregiver, nil
}

// AllCaregivers retrieves every caregiver in insertion order
func (s *Store) AllCaregivers(ctx context.Context) ([]model.Caregiver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+caregiverColumns+` FROM caregivers ORDER BY rowid`)
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
func (s *Store) SaveCaregiver(ctx context.Context, caregiver *model.Caregiver) error {
	if err := caregiver.Validate(); err != nil {
		return err
	}
	skills, err := encodeList(caregiver.Skills)
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}
	preferred, err := encodeList(caregiver.PreferredShiftTypes)
	if err != nil {
		return fmt.Errorf("failed to encode preferred shift types: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO caregivers (`+caregiverColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			skills = excluded.skills,
			home_location_id = excluded.home_location_id,
			max_hours_per_week = excluded.max_hours_per_week,
			preferred_shift_types = excluded.preferred_shift_types
	`, caregiver.ID, caregiver.Name, caregiver.Role, skills, caregiver.HomeLocationID,
		caregiver.MaxHoursPerWeek, preferred)
	if err != nil {
		return fmt.Errorf("failed to save caregiver: %w", err)
	}
	return nil
}

// AllLocations retrieves every location in insertion order
func (s *Store) AllLocations(ctx context.Context) ([]model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, timezone FROM locations ORDER BY rowid`)
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
func (s *Store) SaveLocation(ctx context.Context, location *model.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (id, name, timezone)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, timezone = excluded.timezone
	`, location.ID, location.Name, location.Timezone)
	if err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	return nil
}
