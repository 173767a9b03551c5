package services

import (
	"time"

	"github.com/jakechorley/health-ops/pkg/core/matcher"
)

// DefaultSource is the provenance tag recorded when a caller does not name one
const DefaultSource = "agent"

// DefaultComplianceDaysAhead is the lookahead used when none is configured
const DefaultComplianceDaysAhead = 30

// Options holds the matching behaviour shared by the services
type Options struct {
	// Classifier derives day/night from a shift's start hour
	Classifier matcher.Classifier

	// WindowMode controls whether only a shift's start, or its whole
	// interval, must fall inside a requested window
	WindowMode matcher.WindowMode

	// RevalidateEligibility re-checks role and skill when committing an
	// assignment instead of trusting an earlier suggestion
	RevalidateEligibility bool

	// Now returns the current time; defaults to time.Now
	Now func() time.Time
}

// DefaultOptions returns the documented behaviour: 07:00-19:00 is day, only
// the shift start is checked against windows, eligibility is re-checked on commit
func DefaultOptions() Options {
	return Options{
		Classifier:            matcher.DefaultClassifier(),
		WindowMode:            matcher.WindowModeStart,
		RevalidateEligibility: true,
		Now:                   time.Now,
	}
}

func (o Options) matcher() *matcher.Matcher {
	return matcher.NewMatcher(o.Classifier, o.WindowMode)
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now().UTC()
	}
	return o.Now().UTC()
}
