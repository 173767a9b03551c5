package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

var start = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func openShift(id string) *model.Shift {
	return &model.Shift{
		ID:            id,
		LocationID:    "loc_nyc",
		StartsAt:      start,
		EndsAt:        start.Add(8 * time.Hour),
		RequiredRole:  "RN",
		RequiredSkill: "wound_care",
		Status:        model.ShiftStatusOpen,
	}
}

func assigned(shift *model.Shift, caregiverID string) *model.Shift {
	updated := *shift
	updated.Status = model.ShiftStatusAssigned
	updated.CaregiverID = caregiverID
	return &updated
}

func audit(shiftID, caregiverID string) *model.AssignmentAudit {
	return &model.AssignmentAudit{
		ID:          "audit-" + caregiverID,
		ShiftID:     shiftID,
		CaregiverID: caregiverID,
		Source:      "agent",
		AssignedAt:  start,
	}
}

func TestMemory_GetShift_NotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.GetShift(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemory_AllShifts_InsertionOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, m.SaveShift(ctx, openShift(id)))
	}
	// Upsert keeps original position
	require.NoError(t, m.SaveShift(ctx, openShift("a")))

	shifts, err := m.AllShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 3)
	assert.Equal(t, "c", shifts[0].ID)
	assert.Equal(t, "a", shifts[1].ID)
	assert.Equal(t, "b", shifts[2].ID)
}

func TestMemory_SaveShift_RejectsInvalid(t *testing.T) {
	m := NewMemory()

	bad := openShift("s1")
	bad.EndsAt = bad.StartsAt

	err := m.SaveShift(context.Background(), bad)
	assert.True(t, errors.Is(err, model.ErrValidation))

	shifts, _ := m.AllShifts(context.Background())
	assert.Empty(t, shifts)
}

func TestMemory_ReadsAreCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SaveShift(ctx, openShift("s1")))
	require.NoError(t, m.SaveCaregiver(ctx, &model.Caregiver{
		ID: "cg_alex", Name: "Alex", Role: "RN", Skills: []string{"wound_care"}, HomeLocationID: "loc_nyc",
	}))

	shift, err := m.GetShift(ctx, "s1")
	require.NoError(t, err)
	shift.Status = model.ShiftStatusAssigned

	cg, err := m.GetCaregiver(ctx, "cg_alex")
	require.NoError(t, err)
	cg.Skills[0] = "tampered"

	stored, _ := m.GetShift(ctx, "s1")
	assert.Equal(t, model.ShiftStatusOpen, stored.Status)

	storedCg, _ := m.GetCaregiver(ctx, "cg_alex")
	assert.Equal(t, []string{"wound_care"}, storedCg.Skills)
}

func TestMemory_CommitAssignment(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	shift := openShift("s1")
	require.NoError(t, m.SaveShift(ctx, shift))

	err := m.CommitAssignment(ctx, assigned(shift, "cg_alex"), model.ShiftStatusOpen, audit("s1", "cg_alex"))
	require.NoError(t, err)

	stored, err := m.GetShift(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.ShiftStatusAssigned, stored.Status)
	assert.Equal(t, "cg_alex", stored.CaregiverID)

	audits, err := m.GetAssignmentAudits(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, "agent", audits[0].Source)
}

func TestMemory_CommitAssignment_Conflict(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	shift := openShift("s1")
	require.NoError(t, m.SaveShift(ctx, shift))
	require.NoError(t, m.CommitAssignment(ctx, assigned(shift, "cg_alex"), model.ShiftStatusOpen, audit("s1", "cg_alex")))

	err := m.CommitAssignment(ctx, assigned(shift, "cg_beth"), model.ShiftStatusOpen, audit("s1", "cg_beth"))
	assert.True(t, errors.Is(err, ErrConflict))

	stored, _ := m.GetShift(ctx, "s1")
	assert.Equal(t, "cg_alex", stored.CaregiverID)

	audits, _ := m.GetAssignmentAudits(ctx, "s1")
	assert.Len(t, audits, 1)
}

func TestMemory_CommitAssignment_UnknownShift(t *testing.T) {
	m := NewMemory()

	err := m.CommitAssignment(context.Background(), assigned(openShift("ghost"), "cg_alex"), model.ShiftStatusOpen, audit("ghost", "cg_alex"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemory_CommitAssignment_Concurrent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	shift := openShift("s1")
	require.NoError(t, m.SaveShift(ctx, shift))

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caregiverID := "cg_" + string(rune('a'+i))
			results <- m.CommitAssignment(ctx, assigned(shift, caregiverID), model.ShiftStatusOpen, audit("s1", caregiverID))
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded, conflicted := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicted)
}

func TestMemory_Reset(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SaveLocation(ctx, &model.Location{ID: "loc_nyc", Name: "NYC", Timezone: "America/New_York"}))
	require.NoError(t, m.SaveShift(ctx, openShift("s1")))
	require.NoError(t, m.Reset(ctx))

	shifts, _ := m.AllShifts(ctx)
	assert.Empty(t, shifts)

	locations, _ := m.AllLocations(ctx)
	assert.Len(t, locations, 1)
}
