// Package policies implements the built-in policy checks spec.md §4.3
// enumerates: age, RC-bug regression, build-completeness/out-of-date
// carry-through, dependency regressions, piuparts, block hints, and the
// single external-policy contract.
package policies

import (
	"context"

	"github.com/debarchive/britney/internal/hints"
	"github.com/debarchive/britney/internal/policy"
)

// AgePolicy enforces the per-urgency minimum number of days a candidate
// must have sat unmigrated, modulated by urgent/age-days/force hints
// (spec.md §4.3's age-based aging policy).
type AgePolicy struct {
	MinDaysByUrgency map[string]int
	DefaultMinDays   int
	UrgencyOf        func(source, version string) string
}

// NewAgePolicy builds an AgePolicy. urgencyOf looks up a candidate's
// recorded urgency (from the Urgency state file); a nil func always
// falls back to "low".
func NewAgePolicy(minDaysByUrgency map[string]int, defaultMinDays int, urgencyOf func(source, version string) string) *AgePolicy {
	if urgencyOf == nil {
		urgencyOf = func(string, string) string { return "low" }
	}
	return &AgePolicy{MinDaysByUrgency: minDaysByUrgency, DefaultMinDays: defaultMinDays, UrgencyOf: urgencyOf}
}

func (p *AgePolicy) Name() string { return "age" }

func (p *AgePolicy) Check(_ context.Context, c *policy.Candidate) (policy.Verdict, error) {
	urgency := p.UrgencyOf(c.Source, c.SourceVersion)
	minDays, ok := p.MinDaysByUrgency[urgency]
	if !ok {
		minDays = p.DefaultMinDays
	}

	if c.Hints != nil {
		if forced := c.Hints.Search(hints.SearchQuery{Type: hints.TypeForce, Package: c.Source, Version: c.SourceVersion, ActiveOnly: true}); len(forced) > 0 {
			c.Forced = true
		}
		if urgent := c.Hints.Search(hints.SearchQuery{Type: hints.TypeUrgent, Package: c.Source, Version: c.SourceVersion, ActiveOnly: true}); len(urgent) > 0 {
			c.AddReason("urgent")
			minDays = 0
		}
		if aged := c.Hints.Search(hints.SearchQuery{Type: hints.TypeAgeDays, Package: c.Source, Version: c.SourceVersion, ActiveOnly: true}); len(aged) > 0 {
			if n, ok := atoi(aged[0].PolicyParameter); ok {
				minDays = n
			}
		}
	}

	c.MinAgeDays = float64(minDays)
	c.PolicyInfo["age"] = map[string]any{"current-age": c.AgeDays, "min-age": c.MinAgeDays, "urgency": urgency}

	if c.AgeDays >= c.MinAgeDays {
		return policy.VerdictPass, nil
	}
	c.AddReason("age")
	return policy.VerdictRejectedTemporarily, nil
}

func atoi(s string) (int, bool) {
	n := 0
	neg := false
	if s == "" {
		return 0, false
	}
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
