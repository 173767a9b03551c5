package matcher

import "github.com/jakechorley/health-ops/pkg/core/model"

// Criterion is a hard constraint between a shift and a caregiver.
// If ANY criterion rejects a pair, the caregiver cannot take the shift.
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsEligible returns false if assigning the caregiver would violate the constraint
	IsEligible(shift *model.Shift, caregiver *model.Caregiver) bool
}

// RoleCriterion requires the caregiver's role to equal the shift's required role
type RoleCriterion struct{}

func (RoleCriterion) Name() string {
	return "Role"
}

func (RoleCriterion) IsEligible(shift *model.Shift, caregiver *model.Caregiver) bool {
	return caregiver.Role == shift.RequiredRole
}

// SkillCriterion requires the shift's required skill to be in the caregiver's skill set
type SkillCriterion struct{}

func (SkillCriterion) Name() string {
	return "Skill"
}

func (SkillCriterion) IsEligible(shift *model.Shift, caregiver *model.Caregiver) bool {
	return caregiver.HasSkill(shift.RequiredSkill)
}

// HomeLocationCriterion requires the caregiver to be based at the shift's location
type HomeLocationCriterion struct{}

func (HomeLocationCriterion) Name() string {
	return "HomeLocation"
}

func (HomeLocationCriterion) IsEligible(shift *model.Shift, caregiver *model.Caregiver) bool {
	return caregiver.HomeLocationID == shift.LocationID
}

// DefaultCriteria are the hard constraints applied when ranking candidates.
// The location constraint is applied when the pool is built.
func DefaultCriteria() []Criterion {
	return []Criterion{RoleCriterion{}, SkillCriterion{}}
}

// CheckEligibility runs every criterion and returns the name of the first
// one that rejects the pair, or an empty string if all pass
func CheckEligibility(shift *model.Shift, caregiver *model.Caregiver, criteria []Criterion) string {
	for _, criterion := range criteria {
		if !criterion.IsEligible(shift, caregiver) {
			return criterion.Name()
		}
	}
	return ""
}
