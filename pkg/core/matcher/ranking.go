package matcher

import (
	"fmt"
	"time"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

// SuggestionScore is emitted for every suggestion; ranking is by partition, not score
const SuggestionScore = 1.0

// Suggestion proposes one caregiver for one open shift
type Suggestion struct {
	ShiftID     string  `json:"shift_id"`
	CaregiverID string  `json:"caregiver_id"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
}

// Matcher proposes caregivers for open shifts using a greedy first-fit heuristic.
//
// Each shift is handled independently: no workload carries across shifts, so the
// same caregiver may be proposed for overlapping shifts. Double-booking is
// prevented at commit time, not here.
type Matcher struct {
	classifier Classifier
	windowMode WindowMode
	criteria   []Criterion
}

// NewMatcher creates a Matcher. DefaultCriteria are used when none are given.
func NewMatcher(classifier Classifier, windowMode WindowMode, criteria ...Criterion) *Matcher {
	if len(criteria) == 0 {
		criteria = DefaultCriteria()
	}
	if windowMode == "" {
		windowMode = WindowModeStart
	}
	return &Matcher{
		classifier: classifier,
		windowMode: windowMode,
		criteria:   criteria,
	}
}

// Classifier returns the classifier used to derive shift types
func (m *Matcher) Classifier() Classifier {
	return m.classifier
}

// WindowMode returns the window mode used to select shifts
func (m *Matcher) WindowMode() WindowMode {
	return m.windowMode
}

// CheckEligibility returns the name of the first hard criterion the caregiver
// fails for the shift, or an empty string if the caregiver is eligible
func (m *Matcher) CheckEligibility(shift *model.Shift, caregiver *model.Caregiver) string {
	return CheckEligibility(shift, caregiver, m.criteria)
}

// Suggest proposes at most one caregiver per open shift at locationID that
// starts within [start, end]. Shifts without an eligible caregiver are skipped.
func (m *Matcher) Suggest(shifts []model.Shift, caregivers []model.Caregiver, locationID string, start, end time.Time) []Suggestion {
	filter := WindowFilter{
		LocationID: locationID,
		Start:      start,
		End:        end,
		Mode:       m.windowMode,
	}

	pool := buildPool(caregivers, locationID)

	suggestions := make([]Suggestion, 0)
	for _, shift := range SelectOpenShifts(shifts, filter) {
		if suggestion, ok := m.suggestForShift(&shift, pool); ok {
			suggestions = append(suggestions, suggestion)
		}
	}
	return suggestions
}

// suggestForShift picks the first eligible caregiver who prefers the shift type,
// falling back to the first eligible caregiver overall
func (m *Matcher) suggestForShift(shift *model.Shift, pool []*model.Caregiver) (Suggestion, bool) {
	shiftType := m.classifier.Classify(shift)

	var primary, secondary *model.Caregiver
	for _, caregiver := range pool {
		if m.CheckEligibility(shift, caregiver) != "" {
			continue
		}

		if caregiver.Prefers(shiftType) {
			primary = caregiver
			break
		}
		if secondary == nil {
			secondary = caregiver
		}
	}

	switch {
	case primary != nil:
		return Suggestion{
			ShiftID:     shift.ID,
			CaregiverID: primary.ID,
			Score:       SuggestionScore,
			Reason:      fmt.Sprintf("role_and_skill_match; shift_type=%s", shiftType),
		}, true
	case secondary != nil:
		return Suggestion{
			ShiftID:     shift.ID,
			CaregiverID: secondary.ID,
			Score:       SuggestionScore,
			Reason:      fmt.Sprintf("role_and_skill_match; shift_type=%s; no_preference_match", shiftType),
		}, true
	}
	return Suggestion{}, false
}

// buildPool returns the caregivers based at locationID, preserving order
func buildPool(caregivers []model.Caregiver, locationID string) []*model.Caregiver {
	pool := make([]*model.Caregiver, 0)
	for i := range caregivers {
		if caregivers[i].HomeLocationID == locationID {
			pool = append(pool, &caregivers[i])
		}
	}
	return pool
}
