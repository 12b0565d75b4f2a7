package policies

import (
	"context"

	"github.com/debarchive/britney/internal/policy"
)

// PiupartsStatus is the per-source verdict recorded in
// piuparts-summary-<suite>.json (spec.md §6).
type PiupartsStatus string

const (
	PiupartsPass    PiupartsStatus = "pass"
	PiupartsFail    PiupartsStatus = "fail"
	PiupartsUnknown PiupartsStatus = "unknown"
)

// PiupartsPolicy rejects a candidate whose piuparts test-in-a-chroot
// status regressed to "fail" on the target version (spec.md §4.3).
type PiupartsPolicy struct {
	StatusOf func(source, version string) PiupartsStatus
}

func NewPiupartsPolicy(statusOf func(source, version string) PiupartsStatus) *PiupartsPolicy {
	return &PiupartsPolicy{StatusOf: statusOf}
}

func (p *PiupartsPolicy) Name() string { return "piuparts" }

func (p *PiupartsPolicy) Check(_ context.Context, c *policy.Candidate) (policy.Verdict, error) {
	if p.StatusOf == nil {
		return policy.VerdictNotApplicable, nil
	}
	status := p.StatusOf(c.Source, c.SourceVersion)
	c.PolicyInfo["piuparts"] = status
	switch status {
	case PiupartsFail:
		c.AddReason("piuparts")
		return policy.VerdictRejectedPermanently, nil
	case PiupartsUnknown:
		return policy.VerdictNotApplicable, nil
	default:
		return policy.VerdictPass, nil
	}
}
