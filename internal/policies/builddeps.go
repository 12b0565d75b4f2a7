package policies

import (
	"context"

	"github.com/debarchive/britney/internal/policy"
)

// BuildDepsPolicy doesn't decide anything itself — the out-of-date and
// missing-build detection lives in the excuse finder's
// should_upgrade_src/should_upgrade_srcarch algorithm (spec.md §4.4 item
// 2), which already has the per-architecture context this policy would
// need to recompute. Registering it as a Policy still makes its verdict
// contribution participate in the engine's monotonic-max rule like any
// other policy, and surfaces the reason strings the excuse finder wrote
// into PolicyInfo in the YAML/HTML contract.
type BuildDepsPolicy struct{}

func NewBuildDepsPolicy() *BuildDepsPolicy { return &BuildDepsPolicy{} }

func (p *BuildDepsPolicy) Name() string { return "build-deps" }

func (p *BuildDepsPolicy) Check(_ context.Context, c *policy.Candidate) (policy.Verdict, error) {
	info, ok := c.PolicyInfo["build-deps"].(map[string]any)
	if !ok {
		return policy.VerdictPass, nil
	}
	if reason, _ := info["reason"].(string); reason != "" {
		c.AddReason(reason)
		if permanent, _ := info["permanent"].(bool); permanent {
			return policy.VerdictRejectedPermanently, nil
		}
		return policy.VerdictRejectedCannotDetermineIfPermanent, nil
	}
	return policy.VerdictPass, nil
}
