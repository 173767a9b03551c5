package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report json field names so messages match what callers send
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// NewLocation validates and returns a location
func NewLocation(id, name, timezone string) (*Location, error) {
	loc := &Location{ID: id, Name: name, Timezone: timezone}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return loc, nil
}

// NewCaregiver validates and returns a copy of c
func NewCaregiver(c Caregiver) (*Caregiver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// NewShift returns an open shift after checking its fields
func NewShift(id, locationID string, startsAt, endsAt time.Time, requiredRole, requiredSkill string) (*Shift, error) {
	shift := &Shift{
		ID:            id,
		LocationID:    locationID,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		RequiredRole:  requiredRole,
		RequiredSkill: requiredSkill,
		Status:        ShiftStatusOpen,
	}
	if err := shift.Validate(); err != nil {
		return nil, err
	}
	return shift, nil
}

// NewComplianceItem validates and returns a copy of item
func NewComplianceItem(item ComplianceItem) (*ComplianceItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return &item, nil
}

func (l *Location) Validate() error {
	return validateStruct("location", l.ID, l)
}

func (c *Caregiver) Validate() error {
	return validateStruct("caregiver", c.ID, c)
}

func (c *ComplianceItem) Validate() error {
	return validateStruct("compliance item", c.ID, c)
}

func (a *AssignmentAudit) Validate() error {
	return validateStruct("assignment audit", a.ID, a)
}

// Validate checks field constraints and the caregiver/status invariant:
// a caregiver is set if and only if the shift is assigned.
func (s *Shift) Validate() error {
	var problems []string
	if err := validate.Struct(s); err != nil {
		problems = describe(err)
	}

	switch {
	case s.Status == ShiftStatusAssigned && s.CaregiverID == "":
		problems = append(problems, "caregiver_id is required when status is assigned")
	case s.Status != ShiftStatusAssigned && s.CaregiverID != "":
		problems = append(problems, fmt.Sprintf("caregiver_id must be empty when status is %s", s.Status))
	}

	if len(problems) > 0 {
		return &ValidationError{Entity: "shift", ID: s.ID, Problems: problems}
	}
	return nil
}

func validateStruct(entity, id string, v any) error {
	if err := validate.Struct(v); err != nil {
		return &ValidationError{Entity: entity, ID: id, Problems: describe(err)}
	}
	return nil
}

// describe turns validator output into short human readable problems
func describe(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			problems = append(problems, fmt.Sprintf("%s is required", field))
		case "gtfield":
			problems = append(problems, fmt.Sprintf("%s must be after %s", field, toSnake(fe.Param())))
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value())))
		case "timezone":
			problems = append(problems, fmt.Sprintf("%s %q is not an IANA timezone", field, fmt.Sprint(fe.Value())))
		case "gte":
			problems = append(problems, fmt.Sprintf("%s must be >= %s", field, fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return problems
}

// toSnake converts a Go field name such as StartsAt to starts_at
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
