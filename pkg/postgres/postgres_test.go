package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/db"
)

func TestConnString(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		requireSSL bool
		want       string
		wantErr    bool
	}{
		{"ssl not required", "postgres://u:p@localhost/health", false, "postgres://u:p@localhost/health", false},
		{"sslmode added", "postgres://u:p@db.example.com/health", true, "postgres://u:p@db.example.com/health?sslmode=require", false},
		{"existing sslmode kept", "postgresql://db.example.com/health?sslmode=verify-full", true, "postgresql://db.example.com/health?sslmode=verify-full", false},
		{"other params kept", "postgres://db.example.com/health?application_name=ops", true, "postgres://db.example.com/health?application_name=ops&sslmode=require", false},
		{"wrong scheme", "mysql://db.example.com/health", true, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConnString(tt.url, tt.requireSSL)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrationFiles(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0])
}

// openTestDB connects to HEALTH_OPS_TEST_DATABASE_URL, skipping when unset
func openTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("HEALTH_OPS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("HEALTH_OPS_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := NewDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.RunMigrations(ctx)
	require.NoError(t, err)
	require.NoError(t, database.Reset(ctx))

	require.NoError(t, database.SaveLocation(ctx, &model.Location{ID: "loc_nyc", Name: "NYC Home Care", Timezone: "America/New_York"}))
	for _, c := range []model.Caregiver{
		{ID: "cg_alex", Name: "Alex Nurse", Role: "RN", Skills: []string{"wound_care", "pediatrics"}, HomeLocationID: "loc_nyc", MaxHoursPerWeek: 40, PreferredShiftTypes: []string{"day"}},
		{ID: "cg_beth", Name: "Beth Care", Role: "RN", Skills: []string{"wound_care"}, HomeLocationID: "loc_nyc", MaxHoursPerWeek: 30, PreferredShiftTypes: []string{"night"}},
	} {
		require.NoError(t, database.SaveCaregiver(ctx, &c))
	}
	return database
}

func testShift(id string) *model.Shift {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
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

func assignedCopy(shift *model.Shift, caregiverID string) (*model.Shift, *model.AssignmentAudit) {
	updated := *shift
	updated.Status = model.ShiftStatusAssigned
	updated.CaregiverID = caregiverID
	return &updated, &model.AssignmentAudit{
		ID:          caregiverID + "-" + shift.ID + "-" + time.Now().Format(time.RFC3339Nano),
		ShiftID:     shift.ID,
		CaregiverID: caregiverID,
		Source:      "agent",
		AssignedAt:  time.Now().UTC(),
	}
}

func TestDB_ShiftRoundTrip(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.SaveShift(ctx, testShift("pg_shift_b")))
	require.NoError(t, database.SaveShift(ctx, testShift("pg_shift_a")))

	shift, err := database.GetShift(ctx, "pg_shift_a")
	require.NoError(t, err)
	assert.Equal(t, testShift("pg_shift_a"), shift)

	shifts, err := database.AllShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "pg_shift_b", shifts[0].ID)

	_, err = database.GetShift(ctx, "pg_missing")
	assert.ErrorIs(t, err, db.ErrNotFound)

	caregiver, err := database.GetCaregiver(ctx, "cg_alex")
	require.NoError(t, err)
	assert.Equal(t, []string{"wound_care", "pediatrics"}, caregiver.Skills)
}

func TestDB_CommitAssignment(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	shift := testShift("pg_commit")
	require.NoError(t, database.SaveShift(ctx, shift))

	updated, audit := assignedCopy(shift, "cg_alex")
	require.NoError(t, database.CommitAssignment(ctx, updated, model.ShiftStatusOpen, audit))

	again, audit2 := assignedCopy(shift, "cg_beth")
	err := database.CommitAssignment(ctx, again, model.ShiftStatusOpen, audit2)
	assert.ErrorIs(t, err, db.ErrConflict)

	stored, err := database.GetShift(ctx, "pg_commit")
	require.NoError(t, err)
	assert.Equal(t, "cg_alex", stored.CaregiverID)

	audits, err := database.GetAssignmentAudits(ctx, "pg_commit")
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, "cg_alex", audits[0].CaregiverID)

	missing, audit3 := assignedCopy(testShift("pg_nowhere"), "cg_alex")
	err = database.CommitAssignment(ctx, missing, model.ShiftStatusOpen, audit3)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDB_ConcurrentCommit(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	shift := testShift("pg_race")
	require.NoError(t, database.SaveShift(ctx, shift))

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caregiverID := []string{"cg_alex", "cg_beth"}[i%2]
			updated, audit := assignedCopy(shift, caregiverID)
			audit.ID = audit.ID + "-" + string(rune('a'+i))
			errs[i] = database.CommitAssignment(ctx, updated, model.ShiftStatusOpen, audit)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, db.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
}
