package model

import (
	"slices"
	"time"
)

// ShiftStatus is the lifecycle state of a shift
type ShiftStatus string

const (
	ShiftStatusOpen     ShiftStatus = "open"
	ShiftStatusHeld     ShiftStatus = "held"
	ShiftStatusAssigned ShiftStatus = "assigned"
)

func (s ShiftStatus) IsValid() bool {
	return s == ShiftStatusOpen || s == ShiftStatusHeld || s == ShiftStatusAssigned
}

// ComplianceStatus is precomputed by whoever imports compliance records
type ComplianceStatus string

const (
	ComplianceStatusValid    ComplianceStatus = "valid"
	ComplianceStatusExpiring ComplianceStatus = "expiring"
	ComplianceStatusExpired  ComplianceStatus = "expired"
)

func (s ComplianceStatus) IsValid() bool {
	return s == ComplianceStatusValid || s == ComplianceStatusExpiring || s == ComplianceStatusExpired
}

// ShiftType is the coarse time-of-day category used for preference matching
type ShiftType string

const (
	ShiftTypeDay   ShiftType = "day"
	ShiftTypeNight ShiftType = "night"
)

// Location is a care site. Caregivers and shifts reference it by ID.
type Location struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Timezone string `json:"timezone" validate:"required,timezone"`
}

// Caregiver represents a staff member who can be matched to shifts
type Caregiver struct {
	ID                  string   `json:"id" validate:"required"`
	Name                string   `json:"name" validate:"required"`
	Role                string   `json:"role" validate:"required"`
	Skills              []string `json:"skills" validate:"dive,required"`
	HomeLocationID      string   `json:"home_location_id" validate:"required"`
	MaxHoursPerWeek     int      `json:"max_hours_per_week" validate:"gte=0"`
	PreferredShiftTypes []string `json:"preferred_shift_types" validate:"dive,oneof=day night"`
}

// HasSkill reports whether skill is in the caregiver's skill set
func (c *Caregiver) HasSkill(skill string) bool {
	return slices.Contains(c.Skills, skill)
}

// Prefers reports whether the caregiver lists shiftType as a preferred shift type
func (c *Caregiver) Prefers(shiftType ShiftType) bool {
	return slices.Contains(c.PreferredShiftTypes, string(shiftType))
}

// Shift is a bounded interval at a location that needs one caregiver
// with a specific role and skill.
type Shift struct {
	ID            string      `json:"id" validate:"required"`
	LocationID    string      `json:"location_id" validate:"required"`
	StartsAt      time.Time   `json:"starts_at" validate:"required"`
	EndsAt        time.Time   `json:"ends_at" validate:"required,gtfield=StartsAt"`
	RequiredRole  string      `json:"required_role" validate:"required"`
	RequiredSkill string      `json:"required_skill" validate:"required"`
	Status        ShiftStatus `json:"status" validate:"required,oneof=open held assigned"`
	CaregiverID   string      `json:"caregiver_id,omitempty"`
}

// IsOpen returns true if the shift can still be assigned
func (s *Shift) IsOpen() bool {
	return s.Status == ShiftStatusOpen
}

// Duration returns the length of the shift
func (s *Shift) Duration() time.Duration {
	return s.EndsAt.Sub(s.StartsAt)
}

// ComplianceItem is a credential (licence, CPR certificate...) held by a caregiver
type ComplianceItem struct {
	ID          string           `json:"id" validate:"required"`
	CaregiverID string           `json:"caregiver_id" validate:"required"`
	Type        string           `json:"type" validate:"required"`
	ExpiresAt   time.Time        `json:"expires_at" validate:"required"`
	Status      ComplianceStatus `json:"status" validate:"required,oneof=valid expiring expired"`
}

// AssignmentAudit records who committed an assignment and through which channel
type AssignmentAudit struct {
	ID          string    `json:"id" validate:"required"`
	ShiftID     string    `json:"shift_id" validate:"required"`
	CaregiverID string    `json:"caregiver_id" validate:"required"`
	Source      string    `json:"source" validate:"required"`
	AssignedAt  time.Time `json:"assigned_at" validate:"required"`
}
