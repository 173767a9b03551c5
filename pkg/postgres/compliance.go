package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

// AllCompliance retrieves every compliance item in insertion order
func (d *DB) AllCompliance(ctx context.Context) ([]model.ComplianceItem, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, caregiver_id, type, expires_at, status
		FROM compliance_items
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query compliance items: %w", err)
	}
	defer rows.Close()

	items := make([]model.ComplianceItem, 0)
	for rows.Next() {
		var item model.ComplianceItem
		var status string
		if err := rows.Scan(&item.ID, &item.CaregiverID, &item.Type, &item.ExpiresAt, &status); err != nil {
			return nil, fmt.Errorf("failed to scan compliance item: %w", err)
		}
		item.ExpiresAt = item.ExpiresAt.UTC()
		item.Status = model.ComplianceStatus(status)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compliance items: %w", err)
	}

	return items, nil
}

// SaveComplianceItem inserts or replaces a compliance item
func (d *DB) SaveComplianceItem(ctx context.Context, item *model.ComplianceItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO compliance_items (id, caregiver_id, type, expires_at, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			caregiver_id = EXCLUDED.caregiver_id,
			type = EXCLUDED.type,
			expires_at = EXCLUDED.expires_at,
			status = EXCLUDED.status
	`, item.ID, item.CaregiverID, item.Type, item.ExpiresAt, string(item.Status))
	if err != nil {
		return fmt.Errorf("failed to save compliance item: %w", err)
	}
	return nil
}
