package matcher

import (
	"fmt"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

const (
	DefaultDayStartHour = 7
	DefaultDayEndHour   = 19
)

// Classifier buckets shifts into day and night by start hour.
// Hours in [DayStartHour, DayEndHour) are day, everything else is night.
// The stored hour is used as-is; no conversion to the location's timezone.
type Classifier struct {
	DayStartHour int
	DayEndHour   int
}

// DefaultClassifier treats 07:00 to 18:59 as day
func DefaultClassifier() Classifier {
	return Classifier{DayStartHour: DefaultDayStartHour, DayEndHour: DefaultDayEndHour}
}

// NewClassifier validates the hour bounds
func NewClassifier(dayStartHour, dayEndHour int) (Classifier, error) {
	if dayStartHour < 0 || dayEndHour > 24 || dayStartHour >= dayEndHour {
		return Classifier{}, &model.ValidationError{
			Entity:   "classifier",
			Problems: []string{fmt.Sprintf("day hours must satisfy 0 <= start < end <= 24, got [%d, %d)", dayStartHour, dayEndHour)},
		}
	}
	return Classifier{DayStartHour: dayStartHour, DayEndHour: dayEndHour}, nil
}

// Classify returns the shift type for a shift
func (c Classifier) Classify(shift *model.Shift) model.ShiftType {
	return c.ClassifyHour(shift.StartsAt.Hour())
}

// ClassifyHour returns the shift type for a start hour
func (c Classifier) ClassifyHour(hour int) model.ShiftType {
	if hour >= c.DayStartHour && hour < c.DayEndHour {
		return model.ShiftTypeDay
	}
	return model.ShiftTypeNight
}
