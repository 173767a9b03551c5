// Package seed builds the records loaded into a fresh store: either the
// built-in demo dataset or a YAML seed file.
package seed

import (
	"fmt"
	"time"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

// Dataset is a set of records to load into a store
type Dataset struct {
	Locations  []model.Location
	Caregivers []model.Caregiver
	Shifts     []model.Shift
	Compliance []model.ComplianceItem
}

// Default returns the demo dataset with times relative to now: one location,
// two caregivers, two open shifts and two licences.
func Default(now time.Time) *Dataset {
	now = now.UTC()

	return &Dataset{
		Locations: []model.Location{
			{ID: "loc_nyc", Name: "NYC Home Care", Timezone: "America/New_York"},
		},
		Caregivers: []model.Caregiver{
			{
				ID:                  "cg_alex",
				Name:                "Alex Nurse",
				Role:                "RN",
				Skills:              []string{"wound_care", "pediatrics"},
				HomeLocationID:      "loc_nyc",
				MaxHoursPerWeek:     40,
				PreferredShiftTypes: []string{"day"},
			},
			{
				ID:                  "cg_beth",
				Name:                "Beth Care",
				Role:                "RN",
				Skills:              []string{"wound_care"},
				HomeLocationID:      "loc_nyc",
				MaxHoursPerWeek:     30,
				PreferredShiftTypes: []string{"night"},
			},
		},
		Shifts: []model.Shift{
			{
				ID:            "shift_1",
				LocationID:    "loc_nyc",
				StartsAt:      now.Add(4 * time.Hour),
				EndsAt:        now.Add(12 * time.Hour),
				RequiredRole:  "RN",
				RequiredSkill: "wound_care",
				Status:        model.ShiftStatusOpen,
			},
			{
				ID:            "shift_2",
				LocationID:    "loc_nyc",
				StartsAt:      now.AddDate(0, 0, 1),
				EndsAt:        now.AddDate(0, 0, 1).Add(8 * time.Hour),
				RequiredRole:  "RN",
				RequiredSkill: "pediatrics",
				Status:        model.ShiftStatusOpen,
			},
		},
		Compliance: []model.ComplianceItem{
			{
				ID:          "comp_1",
				CaregiverID: "cg_alex",
				Type:        "license",
				ExpiresAt:   now.AddDate(0, 0, 20),
				Status:      model.ComplianceStatusExpiring,
			},
			{
				ID:          "comp_2",
				CaregiverID: "cg_beth",
				Type:        "license",
				ExpiresAt:   now.AddDate(0, 0, 120),
				Status:      model.ComplianceStatusValid,
			},
		},
	}
}

// Validate checks every record and that IDs are unique within each entity
func (d *Dataset) Validate() error {
	seen := map[string]map[string]bool{
		"location": {}, "caregiver": {}, "shift": {}, "compliance item": {},
	}
	check := func(entity, id string) error {
		if seen[entity][id] {
			return &model.ValidationError{Entity: entity, ID: id, Problems: []string{"duplicate id in dataset"}}
		}
		seen[entity][id] = true
		return nil
	}

	for i := range d.Locations {
		if err := d.Locations[i].Validate(); err != nil {
			return err
		}
		if err := check("location", d.Locations[i].ID); err != nil {
			return err
		}
	}
	for i := range d.Caregivers {
		if err := d.Caregivers[i].Validate(); err != nil {
			return err
		}
		if err := check("caregiver", d.Caregivers[i].ID); err != nil {
			return err
		}
	}
	for i := range d.Shifts {
		if err := d.Shifts[i].Validate(); err != nil {
			return err
		}
		if err := check("shift", d.Shifts[i].ID); err != nil {
			return err
		}
	}
	for i := range d.Compliance {
		if err := d.Compliance[i].Validate(); err != nil {
			return err
		}
		if err := check("compliance item", d.Compliance[i].ID); err != nil {
			return err
		}
	}
	return nil
}

// Summary returns a short description of the record counts
func (d *Dataset) Summary() string {
	return fmt.Sprintf("%d locations, %d caregivers, %d shifts, %d compliance items",
		len(d.Locations), len(d.Caregivers), len(d.Shifts), len(d.Compliance))
}
