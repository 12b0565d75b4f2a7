package policies

import (
	"context"

	"github.com/debarchive/britney/internal/hints"
	"github.com/debarchive/britney/internal/policy"
)

// RCBugsPolicy rejects a candidate that would introduce release-critical
// bugs not already present against the target version, honouring an
// active ignore-rc-bugs hint (spec.md §4.3).
type RCBugsPolicy struct{}

func NewRCBugsPolicy() *RCBugsPolicy { return &RCBugsPolicy{} }

func (p *RCBugsPolicy) Name() string { return "rc-bugs" }

func (p *RCBugsPolicy) Check(_ context.Context, c *policy.Candidate) (policy.Verdict, error) {
	c.PolicyInfo["rc-bugs"] = map[string]any{"added": c.BugsAdded, "removed": c.BugsRemoved}
	if len(c.BugsAdded) == 0 {
		return policy.VerdictPass, nil
	}

	if c.Hints != nil {
		if ignored := c.Hints.Search(hints.SearchQuery{Type: hints.TypeIgnoreRCBugs, Package: c.Source, Version: c.SourceVersion, ActiveOnly: true}); len(ignored) > 0 {
			c.AddReason("ignore-rc-bugs")
			return policy.VerdictPassHinted, nil
		}
	}

	c.AddReason("rc-bugs")
	return policy.VerdictRejectedPermanently, nil
}
