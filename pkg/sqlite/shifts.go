package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/db"
)

const shiftColumns = `id, location_id, starts_at, ends_at, required_role, required_skill, status, caregiver_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanShift(row scanner) (*model.Shift, error) {
	var s model.Shift
	var startsAt, endsAt, status string
	var caregiverID sql.NullString
	if err := row.Scan(&s.ID, &s.LocationID, &startsAt, &endsAt, &s.RequiredRole, &s.RequiredSkill, &status, &caregiverID); err != nil {
		return nil, err
	}

	var err error
	if s.StartsAt, err = parseTime("starts_at", startsAt); err != nil {
		return nil, err
	}
	if s.EndsAt, err = parseTime("ends_at", endsAt); err != nil {
		return nil, err
	}
	s.Status = model.ShiftStatus(status)
	s.CaregiverID = caregiverID.String
	return &s, nil
}

// GetShift retrieves a single shift by ID
func (s *Store) GetShift(ctx context.Context, id string) (*model.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, id)
	shift, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shift %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shift: %w", err)
	}
	return shift, nil
}

// AllShifts retrieves every shift in insertion order
func (s *Store) AllShifts(ctx context.Context) ([]model.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY rowid`)
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
func (s *Store) SaveShift(ctx context.Context, shift *model.Shift) error {
	if err := shift.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (`+shiftColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			location_id = excluded.location_id,
			starts_at = excluded.starts_at,
			ends_at = excluded.ends_at,
			required_role = excluded.required_role,
			required_skill = excluded.required_skill,
			status = excluded.status,
			caregiver_id = excluded.caregiver_id
	`, shift.ID, shift.LocationID, formatTime(shift.StartsAt), formatTime(shift.EndsAt),
		shift.RequiredRole, shift.RequiredSkill, string(shift.Status), nullable(shift.CaregiverID))
	if err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}
	return nil
}

// CommitAssignment writes shift only if its stored status is still expected,
// and records audit in the same transaction
func (s *Store) CommitAssignment(ctx context.Context, shift *model.Shift, expected model.ShiftStatus, audit *model.AssignmentAudit) error {
	if err := shift.Validate(); err != nil {
		return err
	}
	if err := audit.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE shifts SET status = ?, caregiver_id = ?
		WHERE id = ? AND status = ?
	`, string(shift.Status), nullable(shift.CaregiverID), shift.ID, string(expected))
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM shifts WHERE id = ?)`, shift.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check shift: %w", err)
		}
		if !exists {
			return fmt.Errorf("shift %s: %w", shift.ID, db.ErrNotFound)
		}
		return fmt.Errorf("shift %s is no longer %s: %w", shift.ID, expected, db.ErrConflict)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assignment_audit (id, shift_id, caregiver_id, source, assigned_at)
		VALUES (?, ?, ?, ?, ?)
	`, audit.ID, audit.ShiftID, audit.CaregiverID, audit.Source, formatTime(audit.AssignedAt))
	if err != nil {
		return fmt.Errorf("failed to insert assignment audit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetAssignmentAudits retrieves the audit trail for a shift, oldest first
func (s *Store) GetAssignmentAudits(ctx context.Context, shiftID string) ([]model.AssignmentAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, shift_id, caregiver_id, source, assigned_at
		FROM assignment_audit
		WHERE shift_id = ?
		ORDER BY assigned_at
	`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignment audits: %w", err)
	}
	defer rows.Close()

	audits := make([]model.AssignmentAudit, 0)
	for rows.Next() {
		var a model.AssignmentAudit
		var assignedAt string
		if err := rows.Scan(&a.ID, &a.ShiftID, &a.CaregiverID, &a.Source, &assignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment audit: %w", err)
		}
		if a.AssignedAt, err = parseTime("assigned_at", assignedAt); err != nil {
			return nil, err
		}
		audits = append(audits, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment audits: %w", err)
	}
	return audits, nil
}

// Reset removes all shifts and their assignment audits
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignment_audit`); err != nil {
		return fmt.Errorf("failed to clear assignment audits: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shifts`); err != nil {
		return fmt.Errorf("failed to clear shifts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
