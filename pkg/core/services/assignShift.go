package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/db"
	"github.com/jakechorley/health-ops/pkg/metrics"
)

// AssignShiftStore defines the database operations needed for committing an assignment
type AssignShiftStore interface {
	GetShift(ctx context.Context, id string) (*model.Shift, error)
	GetCaregiver(ctx context.Context, id string) (*model.Caregiver, error)
	CommitAssignment(ctx context.Context, shift *model.Shift, expected model.ShiftStatus, audit *model.AssignmentAudit) error
}

// AssignResult is the outcome of an assignment attempt.
// OK is true and Shift is set on success; otherwise Error holds the failure code.
type AssignResult struct {
	OK     bool         `json:"ok"`
	Shift  *model.Shift `json:"shift,omitempty"`
	Source string       `json:"source,omitempty"`
	Error  string       `json:"error,omitempty"`

	// Err is the typed failure behind Error
	Err error `json:"-"`
}

func failed(err error) *AssignResult {
	return &AssignResult{OK: false, Error: model.ErrorCode(err), Err: err}
}

// AssignShift commits caregiverID to shiftID.
//
// Expected failures (unknown shift or caregiver, shift no longer open, caregiver
// not eligible) are returned in the result. The error return is reserved for
// store failures and malformed records.
func AssignShift(
	ctx context.Context,
	database AssignShiftStore,
	logger *zap.Logger,
	opts Options,
	shiftID string,
	caregiverID string,
	source string,
) (*AssignResult, error) {
	defer metrics.ObserveDuration("assign_shift", time.Now())

	if strings.TrimSpace(source) == "" {
		source = DefaultSource
	}

	logger.Debug("Assigning shift",
		zap.String("shift_id", shiftID),
		zap.String("caregiver_id", caregiverID),
		zap.String("source", source))

	result, err := assignShift(ctx, database, logger, opts, shiftID, caregiverID, source)
	if err != nil {
		metrics.AssignmentsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if result.OK {
		metrics.AssignmentsTotal.WithLabelValues("ok").Inc()
		logger.Info("Shift assigned",
			zap.String("shift_id", shiftID),
			zap.String("caregiver_id", caregiverID),
			zap.String("source", source))
	} else {
		metrics.AssignmentsTotal.WithLabelValues(result.Error).Inc()
		logger.Info("Assignment rejected",
			zap.String("shift_id", shiftID),
			zap.String("caregiver_id", caregiverID),
			zap.String("error", result.Error))
	}
	return result, nil
}

func assignShift(
	ctx context.Context,
	database AssignShiftStore,
	logger *zap.Logger,
	opts Options,
	shiftID string,
	caregiverID string,
	source string,
) (*AssignResult, error) {
	shift, err := database.GetShift(ctx, shiftID)
	if errors.Is(err, db.ErrNotFound) {
		return failed(&model.NotFoundError{Code: model.CodeShiftNotFound, ID: shiftID}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift: %w", err)
	}

	caregiver, err := database.GetCaregiver(ctx, caregiverID)
	if errors.Is(err, db.ErrNotFound) {
		return failed(&model.NotFoundError{Code: model.CodeCaregiverNotFound, ID: caregiverID}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch caregiver: %w", err)
	}

	if !shift.IsOpen() {
		return failed(&model.ConflictError{ShiftID: shiftID, Status: shift.Status}), nil
	}

	if opts.RevalidateEligibility {
		if criterion := opts.matcher().CheckEligibility(shift, caregiver); criterion != "" {
			logger.Debug("Caregiver failed eligibility check",
				zap.String("caregiver_id", caregiverID),
				zap.String("criterion", criterion))
			return failed(&model.EligibilityError{ShiftID: shiftID, CaregiverID: caregiverID, Criterion: criterion}), nil
		}
	}

	updated := *shift
	updated.Status = model.ShiftStatusAssigned
	updated.CaregiverID = caregiver.ID

	audit := &model.AssignmentAudit{
		ID:          uuid.New().String(),
		ShiftID:     shiftID,
		CaregiverID: caregiver.ID,
		Source:      source,
		AssignedAt:  opts.now(),
	}

	err = database.CommitAssignment(ctx, &updated, model.ShiftStatusOpen, audit)
	switch {
	case errors.Is(err, db.ErrConflict):
		logger.Debug("Lost assignment race", zap.String("shift_id", shiftID))
		return failed(&model.ConflictError{ShiftID: shiftID}), nil
	case errors.Is(err, db.ErrNotFound):
		return failed(&model.NotFoundError{Code: model.CodeShiftNotFound, ID: shiftID}), nil
	case err != nil:
		return nil, fmt.Errorf("failed to commit assignment: %w", err)
	}

	return &AssignResult{OK: true, Shift: &updated, Source: source}, nil
}
