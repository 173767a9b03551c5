package db

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

// Memory is an in-process Database. Reads return copies so callers can never
// mutate stored records, and iteration follows insertion order.
type Memory struct {
	mu sync.RWMutex

	locations  orderedMap[model.Location]
	caregivers orderedMap[model.Caregiver]
	shifts     orderedMap[model.Shift]
	compliance orderedMap[model.ComplianceItem]
	audits     []model.AssignmentAudit
}

// NewMemory creates an empty in-memory database
func NewMemory() *Memory {
	return &Memory{
		locations:  newOrderedMap[model.Location](),
		caregivers: newOrderedMap[model.Caregiver](),
		shifts:     newOrderedMap[model.Shift](),
		compliance: newOrderedMap[model.ComplianceItem](),
	}
}

func (m *Memory) GetShift(_ context.Context, id string) (*model.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shift, ok := m.shifts.get(id)
	if !ok {
		return nil, fmt.Errorf("shift %s: %w", id, ErrNotFound)
	}
	return &shift, nil
}

func (m *Memory) AllShifts(_ context.Context) ([]model.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shifts.values(nil), nil
}

func (m *Memory) SaveShift(_ context.Context, shift *model.Shift) error {
	if err := shift.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts.put(shift.ID, *shift)
	return nil
}

func (m *Memory) CommitAssignment(_ context.Context, shift *model.Shift, expected model.ShiftStatus, audit *model.AssignmentAudit) error {
	if err := shift.Validate(); err != nil {
		return err
	}
	if err := audit.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.shifts.get(shift.ID)
	if !ok {
		return fmt.Errorf("shift %s: %w", shift.ID, ErrNotFound)
	}
	if current.Status != expected {
		return fmt.Errorf("shift %s is %s, expected %s: %w", shift.ID, current.Status, expected, ErrConflict)
	}

	m.shifts.put(shift.ID, *shift)
	m.audits = append(m.audits, *audit)
	return nil
}

func (m *Memory) GetCaregiver(_ context.Context, id string) (*model.Caregiver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	caregiver, ok := m.caregivers.get(id)
	if !ok {
		return nil, fmt.Errorf("caregiver %s: %w", id, ErrNotFound)
	}
	return cloneCaregiver(caregiver), nil
}

func (m *Memory) AllCaregivers(_ context.Context) ([]model.Caregiver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.caregivers.values(func(c model.Caregiver) model.Caregiver { return *cloneCaregiver(c) }), nil
}

func (m *Memory) SaveCaregiver(_ context.Context, caregiver *model.Caregiver) error {
	if err := caregiver.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.caregivers.put(caregiver.ID, *cloneCaregiver(*caregiver))
	return nil
}

func (m *Memory) AllCompliance(_ context.Context) ([]model.ComplianceItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.compliance.values(nil), nil
}

func (m *Memory) SaveComplianceItem(_ context.Context, item *model.ComplianceItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.compliance.put(item.ID, *item)
	return nil
}

func (m *Memory) AllLocations(_ context.Context) ([]model.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.locations.values(nil), nil
}

func (m *Memory) SaveLocation(_ context.Context, location *model.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations.put(location.ID, *location)
	return nil
}

func (m *Memory) GetAssignmentAudits(_ context.Context, shiftID string) ([]model.AssignmentAudit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	audits := make([]model.AssignmentAudit, 0)
	for _, a := range m.audits {
		if a.ShiftID == shiftID {
			audits = append(audits, a)
		}
	}
	return audits, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shifts = newOrderedMap[model.Shift]()
	m.audits = nil
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// orderedMap is a map that remembers insertion order.
// Not safe for concurrent use; Memory guards it with its mutex.
type orderedMap[V any] struct {
	keys  []string
	items map[string]V
}

func newOrderedMap[V any]() orderedMap[V] {
	return orderedMap[V]{items: make(map[string]V)}
}

func (o *orderedMap[V]) get(key string) (V, bool) {
	v, ok := o.items[key]
	return v, ok
}

func (o *orderedMap[V]) put(key string, v V) {
	if _, exists := o.items[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.items[key] = v
}

func (o *orderedMap[V]) values(clone func(V) V) []V {
	out := make([]V, 0, len(o.keys))
	for _, key := range o.keys {
		v := o.items[key]
		if clone != nil {
			v = clone(v)
		}
		out = append(out, v)
	}
	return out
}

func cloneCaregiver(c model.Caregiver) *model.Caregiver {
	c.Skills = slices.Clone(c.Skills)
	c.PreferredShiftTypes = slices.Clone(c.PreferredShiftTypes)
	return &c
}
