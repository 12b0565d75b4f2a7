package policy

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/hints"
)

// Candidate is the data a Policy needs to render a verdict on one
// migration item. It is deliberately a flatter, engine-owned view of an
// excuse rather than *excuses.Excuse itself, so this package has no
// dependency on the excuse finder (which depends on this one for
// Verdict) — the excuse finder adapts Excuse to/from Candidate.
type Candidate struct {
	Item          archive.MigrationItem
	Suite         string
	Source        string
	TargetVersion string
	SourceVersion string

	AgeDays    float64
	MinAgeDays float64

	BugsAdded   []int
	BugsRemoved []int

	Hints *hints.HintStore

	// PolicyInfo is shared scratch space every policy may write
	// diagnostic detail into, surfaced verbatim in the YAML/HTML report.
	PolicyInfo map[string]any

	Bounty  int
	Penalty int
	Forced  bool

	Reasons []string
}

// AddReason appends r if not already present.
func (c *Candidate) AddReason(r string) {
	for _, existing := range c.Reasons {
		if existing == r {
			return
		}
	}
	c.Reasons = append(c.Reasons, r)
}

// Policy is one pluggable check contributing to a Candidate's verdict
// (spec.md §4.3). Implementations are independent and commutative: the
// engine only ever takes the maximum of every Check result.
type Policy interface {
	Name() string
	Check(ctx context.Context, c *Candidate) (Verdict, error)
}

// Engine runs an ordered list of Policy implementations over a Candidate
// and aggregates the result by the maximum-wins rule (spec.md §4.3).
type Engine struct {
	log      zerolog.Logger
	policies []Policy
}

// NewEngine builds an Engine running policies in the given order. Order
// only affects PolicyInfo population order and log sequencing — it
// mustn't affect the aggregated verdict, by contract.
func NewEngine(log zerolog.Logger, policies ...Policy) *Engine {
	return &Engine{log: log, policies: policies}
}

// Evaluate runs every registered policy against c and returns the
// aggregated verdict. A policy that errors contributes
// REJECTED_TEMPORARILY and is logged, rather than aborting the whole run
// (spec.md §4.8: a transient external failure degrades one excuse, not
// the whole britney run).
func (e *Engine) Evaluate(ctx context.Context, c *Candidate) Verdict {
	verdict := VerdictNotApplicable
	for _, p := range e.policies {
		v, err := p.Check(ctx, c)
		if err != nil {
			e.log.Warn().Err(err).Str("policy", p.Name()).Str("item", c.Item.UVName()).
				Msg("policy check failed, treating as temporary rejection")
			v = VerdictRejectedTemporarily
		}
		verdict = Max(verdict, v)
	}

	if c.Forced && verdict.IsRejected() {
		verdict = VerdictPassHinted
	}

	// Bounties only matter once the candidate already passes; penalties
	// can pull a permanent rejection back to a pass only when the
	// candidate accumulated enough of them, never silently.
	switch {
	case verdict == VerdictPass && c.Bounty > 0:
		c.AddReason("bounty")
	case verdict == VerdictRejectedPermanently && c.Penalty > 0 && c.Penalty >= penaltyOverrideThreshold:
		verdict = VerdictPass
		c.AddReason("penalty-override")
	}

	return verdict
}

// penaltyOverrideThreshold is the accumulated penalty score above which
// a permanent rejection is allowed to convert to a pass. No built-in
// policy sets Candidate.Penalty, so this only fires for a caller that
// fills it in.
const penaltyOverrideThreshold = 100
