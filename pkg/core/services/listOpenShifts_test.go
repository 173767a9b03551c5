package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/pkg/core/matcher"
	"github.com/jakechorley/health-ops/pkg/core/model"
)

// mockShiftStore implements ListOpenShiftsStore and ListShiftsStore for testing
type mockShiftStore struct {
	shifts []model.Shift
	err    error
}

func (m *mockShiftStore) AllShifts(ctx context.Context) ([]model.Shift, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.shifts, nil
}

func TestListOpenShifts_FiltersStatusAndLocation(t *testing.T) {
	assigned := openShift("assigned", testNow.Add(time.Hour), "wound_care")
	assigned.Status = model.ShiftStatusAssigned
	assigned.CaregiverID = "cg_alex"

	boston := openShift("boston", testNow.Add(time.Hour), "wound_care")
	boston.LocationID = "loc_bos"

	store := &mockShiftStore{shifts: []model.Shift{
		openShift("open", testNow.Add(time.Hour), "wound_care"),
		assigned,
		boston,
	}}

	shifts, err := ListOpenShifts(context.Background(), store, zap.NewNop(), testOptions(),
		"loc_nyc", ts(testNow), ts(testNow.Add(24*time.Hour)))
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "open", shifts[0].ID)

	// No location lists every location
	shifts, err = ListOpenShifts(context.Background(), store, zap.NewNop(), testOptions(),
		"", ts(testNow), ts(testNow.Add(24*time.Hour)))
	require.NoError(t, err)
	assert.Len(t, shifts, 2)
}

func TestListOpenShifts_ContainedMode(t *testing.T) {
	store := &mockShiftStore{shifts: []model.Shift{
		openShift("inside", testNow, "wound_care"),
		openShift("overhang", testNow.Add(20*time.Hour), "wound_care"),
	}}

	opts := testOptions()
	shifts, err := ListOpenShifts(context.Background(), store, zap.NewNop(), opts,
		"loc_nyc", ts(testNow), ts(testNow.Add(24*time.Hour)))
	require.NoError(t, err)
	assert.Len(t, shifts, 2)

	opts.WindowMode = matcher.WindowModeContained
	shifts, err = ListOpenShifts(context.Background(), store, zap.NewNop(), opts,
		"loc_nyc", ts(testNow), ts(testNow.Add(24*time.Hour)))
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "inside", shifts[0].ID)
}

func TestListOpenShifts_NaiveTimestampsAreUTC(t *testing.T) {
	store := &mockShiftStore{shifts: []model.Shift{openShift("s1", testNow, "wound_care")}}

	shifts, err := ListOpenShifts(context.Background(), store, zap.NewNop(), testOptions(),
		"loc_nyc", "2025-03-10T06:00:00", "2025-03-10T06:00:00")

	require.NoError(t, err)
	assert.Len(t, shifts, 1)
}

func TestListOpenShifts_MalformedTimestamp(t *testing.T) {
	store := &mockShiftStore{}

	_, err := ListOpenShifts(context.Background(), store, zap.NewNop(), testOptions(),
		"loc_nyc", ts(testNow), "10/03/2025")

	require.Error(t, err)
	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "to", parseErr.Field)
	assert.Equal(t, "10/03/2025", parseErr.Value)
}

func TestListOpenShifts_InvalidWindowMode(t *testing.T) {
	opts := testOptions()
	opts.WindowMode = "overlap"

	_, err := ListOpenShifts(context.Background(), &mockShiftStore{}, zap.NewNop(), opts,
		"loc_nyc", ts(testNow), ts(testNow.Add(time.Hour)))

	require.Error(t, err)
	assert.Equal(t, model.CodeValidation, model.ErrorCode(err))
}

func TestListOpenShifts_StoreError(t *testing.T) {
	store := &mockShiftStore{err: errors.New("timeout")}

	_, err := ListOpenShifts(context.Background(), store, zap.NewNop(), testOptions(),
		"loc_nyc", ts(testNow), ts(testNow.Add(time.Hour)))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch shifts")
}

func TestListShifts_IncludesEveryStatus(t *testing.T) {
	assigned := openShift("assigned", testNow.Add(time.Hour), "wound_care")
	assigned.Status = model.ShiftStatusAssigned
	assigned.CaregiverID = "cg_alex"

	store := &mockShiftStore{shifts: []model.Shift{openShift("open", testNow, "wound_care"), assigned}}

	shifts, err := ListShifts(context.Background(), store, zap.NewNop())

	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "cg_alex", shifts[1].CaregiverID)
}

func TestListShifts_EmptyStore(t *testing.T) {
	shifts, err := ListShifts(context.Background(), &mockShiftStore{}, zap.NewNop())

	require.NoError(t, err)
	require.NotNil(t, shifts)
	assert.Empty(t, shifts)
}
