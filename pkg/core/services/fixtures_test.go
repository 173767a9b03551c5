package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/db"
	"github.com/jakechorley/health-ops/pkg/seed"
)

// testNow puts the demo shift_1 (now+4h) at 10:00, a day shift
var testNow = time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return testNow }
	return opts
}

func ts(t time.Time) string {
	return t.Format(time.RFC3339)
}

// seededMemory returns a memory store loaded with the demo dataset at testNow
func seededMemory(t *testing.T) *db.Memory {
	t.Helper()
	store := db.NewMemory()
	err := SeedDatabase(context.Background(), store, zap.NewNop(), seed.Default(testNow), false)
	require.NoError(t, err)
	return store
}

func alex() model.Caregiver {
	return model.Caregiver{
		ID:                  "cg_alex",
		Name:                "Alex Nurse",
		Role:                "RN",
		Skills:              []string{"wound_care", "pediatrics"},
		HomeLocationID:      "loc_nyc",
		MaxHoursPerWeek:     40,
		PreferredShiftTypes: []string{"day"},
	}
}

func beth() model.Caregiver {
	return model.Caregiver{
		ID:                  "cg_beth",
		Name:                "Beth Care",
		Role:                "RN",
		Skills:              []string{"wound_care"},
		HomeLocationID:      "loc_nyc",
		MaxHoursPerWeek:     30,
		PreferredShiftTypes: []string{"night"},
	}
}

func openShift(id string, startsAt time.Time, skill string) model.Shift {
	return model.Shift{
		ID:            id,
		LocationID:    "loc_nyc",
		StartsAt:      startsAt,
		EndsAt:        startsAt.Add(8 * time.Hour),
		RequiredRole:  "RN",
		RequiredSkill: skill,
		Status:        model.ShiftStatusOpen,
	}
}
