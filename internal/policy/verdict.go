// Package policy implements the policy engine (spec.md §4.3): an ordered
// list of pluggable policies producing a totally-ordered Verdict per
// candidate, aggregated by the maximum-wins rule.
package policy

// Verdict is spec.md §3's PolicyVerdict, a total order from most to least
// favourable-to-reject. The zero value, VerdictNotApplicable, is the
// identity element of the maximum aggregation (a policy that has nothing
// to say about a candidate never lowers its verdict).
type Verdict int

const (
	VerdictNotApplicable Verdict = iota
	VerdictPass
	VerdictPassHinted
	VerdictRejectedTemporarily
	VerdictRejectedWaitingForAnotherItem
	VerdictRejectedBlockedByAnotherItem
	VerdictRejectedNeedsApproval
	VerdictRejectedCannotDetermineIfPermanent
	VerdictRejectedPermanently
)

func (v Verdict) String() string {
	switch v {
	case VerdictNotApplicable:
		return "NOT_APPLICABLE"
	case VerdictPass:
		return "PASS"
	case VerdictPassHinted:
		return "PASS_HINTED"
	case VerdictRejectedTemporarily:
		return "REJECTED_TEMPORARILY"
	case VerdictRejectedWaitingForAnotherItem:
		return "REJECTED_WAITING_FOR_ANOTHER_ITEM"
	case VerdictRejectedBlockedByAnotherItem:
		return "REJECTED_BLOCKED_BY_ANOTHER_ITEM"
	case VerdictRejectedNeedsApproval:
		return "REJECTED_NEEDS_APPROVAL"
	case VerdictRejectedCannotDetermineIfPermanent:
		return "REJECTED_CANNOT_DETERMINE_IF_PERMANENT"
	case VerdictRejectedPermanently:
		return "REJECTED_PERMANENTLY"
	default:
		return "UNKNOWN"
	}
}

// IsRejected reports whether v represents any flavour of rejection.
func (v Verdict) IsRejected() bool {
	return v >= VerdictRejectedTemporarily
}

// Max returns the more-rejecting of v and other, implementing the
// engine's "effective verdict is the maximum of all contributions" rule.
func Max(v, other Verdict) Verdict {
	if other > v {
		return other
	}
	return v
}
