package db

import (
	"context"
	"errors"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

var (
	// ErrNotFound is returned by single-record lookups when no record matches
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned by CommitAssignment when the stored shift no
	// longer has the expected status
	ErrConflict = errors.New("concurrent modification detected")
)

// ShiftStore defines the shift operations the engine needs
type ShiftStore interface {
	GetShift(ctx context.Context, id string) (*model.Shift, error)
	AllShifts(ctx context.Context) ([]model.Shift, error)
	SaveShift(ctx context.Context, shift *model.Shift) error
}

// CaregiverStore defines the caregiver operations the engine needs
type CaregiverStore interface {
	GetCaregiver(ctx context.Context, id string) (*model.Caregiver, error)
	AllCaregivers(ctx context.Context) ([]model.Caregiver, error)
}

// ComplianceStore defines the compliance operations the engine needs
type ComplianceStore interface {
	AllCompliance(ctx context.Context) ([]model.ComplianceItem, error)
}

// AssignmentCommitter applies an assignment atomically.
//
// CommitAssignment must write shift only if the stored shift still has status
// expected, and must record audit in the same atomic step. If the stored status
// differs it returns ErrConflict and writes nothing.
type AssignmentCommitter interface {
	CommitAssignment(ctx context.Context, shift *model.Shift, expected model.ShiftStatus, audit *model.AssignmentAudit) error
}

// Database defines the interface for all database operations.
// The memory, SQLite and Postgres stores implement this interface.
type Database interface {
	ShiftStore
	CaregiverStore
	ComplianceStore
	AssignmentCommitter

	AllLocations(ctx context.Context) ([]model.Location, error)
	SaveLocation(ctx context.Context, location *model.Location) error
	SaveCaregiver(ctx context.Context, caregiver *model.Caregiver) error
	SaveComplianceItem(ctx context.Context, item *model.ComplianceItem) error
	GetAssignmentAudits(ctx context.Context, shiftID string) ([]model.AssignmentAudit, error)

	// Reset removes all shifts and assignment audits. Reference data is kept.
	Reset(ctx context.Context) error

	Close() error
}
