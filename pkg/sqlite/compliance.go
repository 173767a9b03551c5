package sqlite

import (
	"context"
	"fmt"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

// AllCompliance retrieves every compliance item in insertion order
func (s *Store) AllCompliance(ctx context.Context) ([]model.ComplianceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, caregiver_id, type, expires_at, status
		FROM compliance_items
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query compliance items: %w", err)
	}
	defer rows.Close()

	items := make([]model.ComplianceItem, 0)
	for rows.Next() {
		var item model.ComplianceItem
		var expiresAt, status string
		if err := rows.Scan(&item.ID, &item.CaregiverID, &item.Type, &expiresAt, &status); err != nil {
			return nil, fmt.Errorf("failed to scan compliance item: %w", err)
		}
		if item.ExpiresAt, err = parseTime("expires_at", expiresAt); err != nil {
			return nil, err
		}
		item.Status = model.ComplianceStatus(status)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compliance items: %w", err)
	}
	return items, nil
}

// SaveComplianceItem inserts or replaces a compliance item
func (s *Store) SaveComplianceItem(ctx context.Context, item *model.ComplianceItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compliance_items (id, caregiver_id, type, expires_at, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			caregiver_id = excluded.caregiver_id,
			type = excluded.type,
			expires_at = excluded.expires_at,
			status = excluded.status
	`, item.ID, item.CaregiverID, item.Type, formatTime(item.ExpiresAt), string(item.Status))
	if err != nil {
		return fmt.Errorf("failed to save compliance item: %w", err)
	}
	return nil
}
