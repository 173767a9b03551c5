package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/db"
)

const shiftColumns = `id, location_id, starts_at, ends_at, required_role, required_skill, status, caregiver_id`

func scanShift(row pgx.Row) (*model.Shift, error) {
	var s model.Shift
	var status string
	var caregiverID *string
	if err := row.Scan(&s.ID, &s.LocationID, &s.StartsAt, &s.EndsAt, &s.RequiredRole, &s.RequiredSkill, &status, &caregiverID); err != nil {
		return nil, err
	}
	s.StartsAt = s.StartsAt.UTC()
	s.EndsAt = s.EndsAt.UTC()
	s.Status = model.ShiftStatus(status)
	if caregiverID != nil {
		s.CaregiverID = *caregiverID
	}
	return &s, nil
}

// GetShift retrieves a single shift by ID
func (d *DB) GetShift(ctx context.Context, id string) (*model.Shift, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id)
	shift, err := scanShift(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("shift %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shift: %w", err)
	}
	return shift, nil
}

// AllShifts retrieves every shift in insertion order
func (d *DB) AllShifts(ctx context.Context) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]model.Shift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, *shift)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// SaveShift inserts or replaces a shift
func (d *DB) SaveShift(ctx context.Context, shift *model.Shift) error {
	if err := shift.Validate(); err != nil {
		return err
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO shifts (`+shiftColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			location_id = EXCLUDED.location_id,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			required_role = EXCLUDED.required_role,
			required_skill = EXCLUDED.required_skill,
			status = EXCLUDED.status,
			caregiver_id = EXCLUDED.caregiver_id
	`, shift.ID, shift.LocationID, shift.StartsAt, shift.EndsAt, shift.RequiredRole, shift.RequiredSkill,
		string(shift.Status), nullable(shift.CaregiverID))
	if err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}
	return nil
}

// CommitAssignment writes shift only if its stored status is still expected,
// and records audit in the same transaction
func (d *DB) CommitAssignment(ctx context.Context, shift *model.Shift, expected model.ShiftStatus, audit *model.AssignmentAudit) error {
	if err := shift.Validate(); err != nil {
		return err
	}
	if err := audit.Validate(); err != nil {
		return err
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE shifts SET status = $2, caregiver_id = $3
		WHERE id = $1 AND status = $4
	`, shift.ID, string(shift.Status), nullable(shift.CaregiverID), string(expected))
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shifts WHERE id = $1)`, shift.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check shift: %w", err)
		}
		if !exists {
			return fmt.Errorf("shift %s: %w", shift.ID, db.ErrNotFound)
		}
		return fmt.Errorf("shift %s is no longer %s: %w", shift.ID, expected, db.ErrConflict)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO assignment_audit (id, shift_id, caregiver_id, source, assigned_at)
		VALUES ($1, $2, $3, $4, $5)
	`, audit.ID, audit.ShiftID, audit.CaregiverID, audit.Source, audit.AssignedAt)
	if err != nil {
		return fmt.Errorf("failed to insert assignment audit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetAssignmentAudits retrieves the audit trail for a shift, oldest first
func (d *DB) GetAssignmentAudits(ctx context.Context, shiftID string) ([]model.AssignmentAudit, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, shift_id, caregiver_id, source, assigned_at
		FROM assignment_audit
		WHERE shift_id = $1
		ORDER BY assigned_at
	`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignment audits: %w", err)
	}
	defer rows.Close()

	audits := make([]model.AssignmentAudit, 0)
	for rows.Next() {
		var a model.AssignmentAudit
		if err := rows.Scan(&a.ID, &a.ShiftID, &a.CaregiverID, &a.Source, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment audit: %w", err)
		}
		a.AssignedAt = a.AssignedAt.UTC()
		audits = append(audits, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment audits: %w", err)
	}

	return audits, nil
}

// Reset removes all shifts and their assignment audits
func (d *DB) Reset(ctx context.Context) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM assignment_audit`); err != nil {
		return fmt.Errorf("failed to clear assignment audits: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM shifts`); err != nil {
		return fmt.Errorf("failed to clear shifts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
