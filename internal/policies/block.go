package policies

import (
	"context"

	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/hints"
	"github.com/debarchive/britney/internal/policy"
)

// BlockPolicy rejects a candidate with an active block/block-udeb hint,
// or one named in the ExcuseBugs bulletin file (spec.md §4.3 "user-
// supplied block and excuse-bug bulletins"). block and unblock are
// distinct hint Types, so the store's same-type conflict resolution
// (spec.md §4.2) never deactivates one against the other — both can be
// Active at once. This policy breaks that tie itself: an unblock naming
// the candidate's own version overrides an active block on the same
// source, regardless of which was parsed first (spec.md §8 "Hint
// precedence").
type BlockPolicy struct {
	// ExcuseBugs maps a source name to the bug number that's blocking it
	// administratively, independent of any operator-issued hint.
	ExcuseBugs map[string]int
}

func NewBlockPolicy(excuseBugs map[string]int) *BlockPolicy {
	return &BlockPolicy{ExcuseBugs: excuseBugs}
}

func (p *BlockPolicy) Name() string { return "block" }

func (p *BlockPolicy) Check(_ context.Context, c *policy.Candidate) (policy.Verdict, error) {
	if c.Hints != nil {
		if blocked := c.Hints.Search(hints.SearchQuery{Type: hints.TypeBlock, Package: c.Source, ActiveOnly: true}); len(blocked) > 0 {
			if !p.unblocked(c, hints.TypeUnblock) {
				c.AddReason("block")
				c.PolicyInfo["block"] = map[string]any{"by": blocked[0].User}
				return policy.VerdictRejectedNeedsApproval, nil
			}
		}
		if blocked := c.Hints.Search(hints.SearchQuery{Type: hints.TypeBlockUdeb, Package: c.Source, ActiveOnly: true}); len(blocked) > 0 {
			if !p.unblocked(c, hints.TypeUnblockUdeb) {
				c.AddReason("block-udeb")
				return policy.VerdictRejectedNeedsApproval, nil
			}
		}
	}

	if p.ExcuseBugs != nil {
		if bug, ok := p.ExcuseBugs[c.Source]; ok {
			c.AddReason("block")
			c.PolicyInfo["excuse-bug"] = bug
			return policy.VerdictRejectedNeedsApproval, nil
		}
	}

	return policy.VerdictPass, nil
}

// unblocked reports whether an active unblock/unblock-udeb hint (typ)
// names c.Source at a version no lower than the candidate's own, which
// per spec.md §4.2 overrides a same-source block regardless of parse
// order.
func (p *BlockPolicy) unblocked(c *policy.Candidate, typ hints.Type) bool {
	if c.Hints == nil {
		return false
	}
	for _, h := range c.Hints.Search(hints.SearchQuery{Type: typ, Package: c.Source, ActiveOnly: true}) {
		for _, item := range h.Packages {
			if item.Package == c.Source && core.CompareVersions(item.Version, c.SourceVersion) >= 0 {
				return true
			}
		}
	}
	return false
}
