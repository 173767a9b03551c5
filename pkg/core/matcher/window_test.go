package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

var windowStart = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
var windowEnd = windowStart.Add(48 * time.Hour)

func makeShift(id, locationID string, startsAt time.Time, status model.ShiftStatus) model.Shift {
	shift := model.Shift{
		ID:            id,
		LocationID:    locationID,
		StartsAt:      startsAt,
		EndsAt:        startsAt.Add(8 * time.Hour),
		RequiredRole:  "RN",
		RequiredSkill: "wound_care",
		Status:        status,
	}
	if status == model.ShiftStatusAssigned {
		shift.CaregiverID = "cg_someone"
	}
	return shift
}

func shiftIDs(shifts []model.Shift) []string {
	ids := make([]string, 0, len(shifts))
	for _, s := range shifts {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestSelectOpenShifts_ExcludesNonOpen(t *testing.T) {
	shifts := []model.Shift{
		makeShift("open", "loc_nyc", windowStart.Add(time.Hour), model.ShiftStatusOpen),
		makeShift("held", "loc_nyc", windowStart.Add(time.Hour), model.ShiftStatusHeld),
		makeShift("assigned", "loc_nyc", windowStart.Add(time.Hour), model.ShiftStatusAssigned),
	}

	selected := SelectOpenShifts(shifts, WindowFilter{Start: windowStart, End: windowEnd})

	assert.Equal(t, []string{"open"}, shiftIDs(selected))
	for _, s := range selected {
		assert.Equal(t, model.ShiftStatusOpen, s.Status)
	}
}

func TestSelectOpenShifts_LocationFilter(t *testing.T) {
	shifts := []model.Shift{
		makeShift("nyc_1", "loc_nyc", windowStart.Add(time.Hour), model.ShiftStatusOpen),
		makeShift("bos_1", "loc_bos", windowStart.Add(time.Hour), model.ShiftStatusOpen),
		makeShift("nyc_2", "loc_nyc", windowStart.Add(2*time.Hour), model.ShiftStatusOpen),
	}

	selected := SelectOpenShifts(shifts, WindowFilter{LocationID: "loc_nyc", Start: windowStart, End: windowEnd})
	assert.ElementsMatch(t, []string{"nyc_1", "nyc_2"}, shiftIDs(selected))
	for _, s := range selected {
		assert.Equal(t, "loc_nyc", s.LocationID)
	}

	// No location means all locations
	all := SelectOpenShifts(shifts, WindowFilter{Start: windowStart, End: windowEnd})
	assert.Len(t, all, 3)
}

func TestSelectOpenShifts_InclusiveBounds(t *testing.T) {
	shifts := []model.Shift{
		makeShift("at_start", "loc_nyc", windowStart, model.ShiftStatusOpen),
		makeShift("at_end", "loc_nyc", windowEnd, model.ShiftStatusOpen),
		makeShift("before", "loc_nyc", windowStart.Add(-time.Nanosecond), model.ShiftStatusOpen),
		makeShift("after", "loc_nyc", windowEnd.Add(time.Nanosecond), model.ShiftStatusOpen),
	}

	selected := SelectOpenShifts(shifts, WindowFilter{Start: windowStart, End: windowEnd})
	assert.ElementsMatch(t, []string{"at_start", "at_end"}, shiftIDs(selected))
}

func TestSelectOpenShifts_StartModeIgnoresEnd(t *testing.T) {
	// Starts one hour before the window closes and runs for eight hours
	overhanging := makeShift("overhang", "loc_nyc", windowEnd.Add(-time.Hour), model.ShiftStatusOpen)

	selected := SelectOpenShifts([]model.Shift{overhanging}, WindowFilter{Start: windowStart, End: windowEnd})
	assert.Len(t, selected, 1)

	selected = SelectOpenShifts([]model.Shift{overhanging}, WindowFilter{Start: windowStart, End: windowEnd, Mode: WindowModeStart})
	assert.Len(t, selected, 1)
}

func TestSelectOpenShifts_ContainedMode(t *testing.T) {
	shifts := []model.Shift{
		makeShift("inside", "loc_nyc", windowStart.Add(time.Hour), model.ShiftStatusOpen),
		makeShift("overhang", "loc_nyc", windowEnd.Add(-time.Hour), model.ShiftStatusOpen),
	}

	selected := SelectOpenShifts(shifts, WindowFilter{Start: windowStart, End: windowEnd, Mode: WindowModeContained})
	assert.Equal(t, []string{"inside"}, shiftIDs(selected))
}

func TestSelectOpenShifts_InvertedWindowSelectsNothing(t *testing.T) {
	shifts := []model.Shift{makeShift("s1", "loc_nyc", windowStart.Add(time.Hour), model.ShiftStatusOpen)}

	selected := SelectOpenShifts(shifts, WindowFilter{Start: windowEnd, End: windowStart})
	assert.Empty(t, selected)
}

func TestSelectOpenShifts_EmptyResultIsNotNil(t *testing.T) {
	selected := SelectOpenShifts(nil, WindowFilter{Start: windowStart, End: windowEnd})
	require.NotNil(t, selected)
	assert.Empty(t, selected)
}

func TestSelectOpenShifts_DoesNotMutateInput(t *testing.T) {
	shifts := []model.Shift{makeShift("s1", "loc_nyc", windowStart.Add(time.Hour), model.ShiftStatusOpen)}

	selected := SelectOpenShifts(shifts, WindowFilter{Start: windowStart, End: windowEnd})
	selected[0].Status = model.ShiftStatusAssigned

	assert.Equal(t, model.ShiftStatusOpen, shifts[0].Status)
}

func TestWindowFilter_Validate(t *testing.T) {
	assert.NoError(t, WindowFilter{Start: windowStart, End: windowEnd}.Validate())
	assert.NoError(t, WindowFilter{Start: windowStart, End: windowStart}.Validate())

	assert.NoError(t, WindowFilter{Start: windowEnd, End: windowStart}.Validate())

	err := WindowFilter{Start: windowStart, End: windowEnd, Mode: "overlap"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window mode")
}
