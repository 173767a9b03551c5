package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/metrics"
)

// ListExpiringComplianceStore defines the database operations needed for the compliance lookup
type ListExpiringComplianceStore interface {
	AllCaregivers(ctx context.Context) ([]model.Caregiver, error)
	AllCompliance(ctx context.Context) ([]model.ComplianceItem, error)
}

// ExpiringCompliance is a compliance item joined to its caregiver
type ExpiringCompliance struct {
	CaregiverID   string    `json:"caregiver_id"`
	CaregiverName string    `json:"caregiver_name"`
	Type          string    `json:"type"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ListExpiringCompliance returns the compliance items expiring within
// [now, now+daysAhead days], regardless of their stored status.
// An item owned by an unknown caregiver fails the whole lookup.
func ListExpiringCompliance(
	ctx context.Context,
	database ListExpiringComplianceStore,
	logger *zap.Logger,
	now time.Time,
	daysAhead int,
) ([]ExpiringCompliance, error) {
	defer metrics.ObserveDuration("list_expiring_compliance", time.Now())

	if daysAhead < 0 {
		return nil, &model.ValidationError{
			Entity:   "request",
			Problems: []string{fmt.Sprintf("days_ahead must not be negative, got %d", daysAhead)},
		}
	}

	cutoff := now.Add(time.Duration(daysAhead) * 24 * time.Hour)
	logger.Debug("Listing expiring compliance",
		zap.Time("from", now),
		zap.Time("to", cutoff))

	caregivers, err := database.AllCaregivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch caregivers: %w", err)
	}
	items, err := database.AllCompliance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch compliance items: %w", err)
	}

	names := make(map[string]string, len(caregivers))
	for _, c := range caregivers {
		names[c.ID] = c.Name
	}

	expiring := make([]ExpiringCompliance, 0)
	for _, item := range items {
		if item.ExpiresAt.Before(now) || item.ExpiresAt.After(cutoff) {
			continue
		}

		name, ok := names[item.CaregiverID]
		if !ok {
			return nil, &model.NotFoundError{Code: model.CodeCaregiverNotFound, ID: item.CaregiverID}
		}

		expiring = append(expiring, ExpiringCompliance{
			CaregiverID:   item.CaregiverID,
			CaregiverName: name,
			Type:          item.Type,
			ExpiresAt:     item.ExpiresAt,
		})
	}

	metrics.ComplianceExpiring.Set(float64(len(expiring)))
	logger.Info("Expiring compliance listed",
		zap.Int("days_ahead", daysAhead),
		zap.Int("count", len(expiring)))

	return expiring, nil
}
