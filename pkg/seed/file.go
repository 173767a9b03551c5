package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

// File is the YAML seed file format
type File struct {
	Locations      []LocationEntry      `yaml:"locations" validate:"dive"`
	Caregivers     []CaregiverEntry     `yaml:"caregivers" validate:"dive"`
	Shifts         []ShiftEntry         `yaml:"shifts" validate:"dive"`
	ShiftTemplates []ShiftTemplateEntry `yaml:"shiftTemplates" validate:"dive"`
	Compliance     []ComplianceEntry    `yaml:"compliance" validate:"dive"`
}

type LocationEntry struct {
	ID       string `yaml:"id" validate:"required"`
	Name     string `yaml:"name" validate:"required"`
	Timezone string `yaml:"timezone" validate:"required"`
}

type CaregiverEntry struct {
	ID                  string   `yaml:"id" validate:"required"`
	Name                string   `yaml:"name" validate:"required"`
	Role                string   `yaml:"role" validate:"required"`
	Skills              []string `yaml:"skills"`
	HomeLocationID      string   `yaml:"homeLocationId" validate:"required"`
	MaxHoursPerWeek     int      `yaml:"maxHoursPerWeek"`
	PreferredShiftTypes []string `yaml:"preferredShiftTypes"`
}

type ShiftEntry struct {
	ID            string    `yaml:"id" validate:"required"`
	LocationID    string    `yaml:"locationId" validate:"required"`
	StartsAt      time.Time `yaml:"startsAt" validate:"required"`
	EndsAt        time.Time `yaml:"endsAt" validate:"required"`
	RequiredRole  string    `yaml:"requiredRole" validate:"required"`
	RequiredSkill string    `yaml:"requiredSkill" validate:"required"`
}

// ShiftTemplateEntry describes a run of shifts with the same requirements.
// Each occurrence of RRule from Start becomes an independent open shift
// lasting Duration. The rule must be bounded by COUNT or UNTIL.
type ShiftTemplateEntry struct {
	IDPrefix      string    `yaml:"idPrefix" validate:"required"`
	LocationID    string    `yaml:"locationId" validate:"required"`
	Start         time.Time `yaml:"start" validate:"required"`
	RRule         string    `yaml:"rrule" validate:"required"`
	Duration      string    `yaml:"duration" validate:"required"`
	RequiredRole  string    `yaml:"requiredRole" validate:"required"`
	RequiredSkill string    `yaml:"requiredSkill" validate:"required"`
}

type ComplianceEntry struct {
	ID          string    `yaml:"id" validate:"required"`
	CaregiverID string    `yaml:"caregiverId" validate:"required"`
	Type        string    `yaml:"type" validate:"required"`
	ExpiresAt   time.Time `yaml:"expiresAt" validate:"required"`
	Status      string    `yaml:"status" validate:"required"`
}

// maxOccurrences caps how many shifts one template may produce
const maxOccurrences = 1000

// LoadFile reads and expands a YAML seed file
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML seed document and expands its shift templates
func Parse(data []byte) (*Dataset, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	if err := validator.New().Struct(&file); err != nil {
		return nil, fmt.Errorf("seed file validation failed: %w", err)
	}

	return file.Dataset()
}

// Dataset converts the file into records, expanding every shift template
func (f *File) Dataset() (*Dataset, error) {
	ds := &Dataset{
		Locations:  make([]model.Location, 0, len(f.Locations)),
		Caregivers: make([]model.Caregiver, 0, len(f.Caregivers)),
		Shifts:     make([]model.Shift, 0, len(f.Shifts)),
		Compliance: make([]model.ComplianceItem, 0, len(f.Compliance)),
	}

	for _, l := range f.Locations {
		ds.Locations = append(ds.Locations, model.Location{ID: l.ID, Name: l.Name, Timezone: l.Timezone})
	}
	for _, c := range f.Caregivers {
		ds.Caregivers = append(ds.Caregivers, model.Caregiver{
			ID:                  c.ID,
			Name:                c.Name,
			Role:                c.Role,
			Skills:              c.Skills,
			HomeLocationID:      c.HomeLocationID,
			MaxHoursPerWeek:     c.MaxHoursPerWeek,
			PreferredShiftTypes: c.PreferredShiftTypes,
		})
	}
	for _, s := range f.Shifts {
		ds.Shifts = append(ds.Shifts, model.Shift{
			ID:            s.ID,
			LocationID:    s.LocationID,
			StartsAt:      s.StartsAt.UTC(),
			EndsAt:        s.EndsAt.UTC(),
			RequiredRole:  s.RequiredRole,
			RequiredSkill: s.RequiredSkill,
			Status:        model.ShiftStatusOpen,
		})
	}
	for i, tmpl := range f.ShiftTemplates {
		shifts, err := tmpl.Expand()
		if err != nil {
			return nil, fmt.Errorf("shiftTemplates[%d]: %w", i, err)
		}
		ds.Shifts = append(ds.Shifts, shifts...)
	}
	for _, c := range f.Compliance {
		ds.Compliance = append(ds.Compliance, model.ComplianceItem{
			ID:          c.ID,
			CaregiverID: c.CaregiverID,
			Type:        c.Type,
			ExpiresAt:   c.ExpiresAt.UTC(),
			Status:      model.ComplianceStatus(c.Status),
		})
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Expand turns the template into one open shift per occurrence
func (t ShiftTemplateEntry) Expand() ([]model.Shift, error) {
	duration, err := time.ParseDuration(t.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", t.Duration, err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", t.Duration)
	}

	rule, err := rrule.StrToRRule(t.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", t.RRule, err)
	}
	if rule.OrigOptions.Count == 0 && rule.OrigOptions.Until.IsZero() {
		return nil, fmt.Errorf("rrule %q must set COUNT or UNTIL", t.RRule)
	}
	rule.DTStart(t.Start.UTC())

	occurrences := rule.All()
	if len(occurrences) > maxOccurrences {
		return nil, fmt.Errorf("rrule %q produces %d shifts, limit is %d", t.RRule, len(occurrences), maxOccurrences)
	}

	shifts := make([]model.Shift, 0, len(occurrences))
	for i, startsAt := range occurrences {
		startsAt = startsAt.UTC()
		shifts = append(shifts, model.Shift{
			ID:            fmt.Sprintf("%s_%d", t.IDPrefix, i+1),
			LocationID:    t.LocationID,
			StartsAt:      startsAt,
			EndsAt:        startsAt.Add(duration),
			RequiredRole:  t.RequiredRole,
			RequiredSkill: t.RequiredSkill,
			Status:        model.ShiftStatusOpen,
		})
	}
	return shifts, nil
}
