// Package excuses implements the excuse finder (spec.md §4.4): turning
// candidate migration items into Excuse records carrying the policy
// engine's verdict, dependency metadata, and the reasons a human would
// need to understand why a package did or didn't migrate.
package excuses

import (
	"sort"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/hints"
	"github.com/debarchive/britney/internal/policy"
)

// Excuse is the per-candidate explanation spec.md §3 defines: item,
// versions, maintainer/section metadata, age bookkeeping, dependency
// state, bug deltas, and the aggregated PolicyVerdict.
type Excuse struct {
	Item          archive.MigrationItem
	Suite         string // the source suite this excuse was generated against (ExcusesSuffix)
	Source        string
	TargetVersion string
	SourceVersion string
	Maintainer    string
	Section       string

	Age    float64 // days the candidate has sat unmigrated
	MinAge float64

	BreakDeps          []string // UVNames of reverse deps this migration would break
	UnsatisfiableArchs []string
	BugsAdded          []int
	BugsRemoved        []int
	OldBinaries        map[string][]archive.BinaryPackageId // arch -> superseded binaries
	MissingBuilds      []string                             // archs missing an up-to-date build

	PolicyInfo map[string]any
	Verdict    policy.Verdict
	Forced     bool

	Bounties  map[string]int
	Penalties map[string]int

	Reasons []string

	// Packages is what would enter the target if this excuse migrates,
	// keyed by the binaries' architecture.
	Packages map[string][]archive.BinaryPackageId

	// Dependencies are excuse-level names (UVName of other excuses) this
	// one depends on, populated by excuses/deps.go during invalidation.
	Dependencies      []string
	BlockedBy         []string
	MigrateAfter      []string
	UnimportantDeps   []string
	UnsatisfiableDeps []string
}

// NewExcuse starts an Excuse with zero-value bookkeeping fields allocated.
func NewExcuse(item archive.MigrationItem, suite string) *Excuse {
	return &Excuse{
		Item:        item,
		Suite:       suite,
		Source:      item.Package,
		OldBinaries: map[string][]archive.BinaryPackageId{},
		PolicyInfo:  map[string]any{},
		Bounties:    map[string]int{},
		Penalties:   map[string]int{},
		Packages:    map[string][]archive.BinaryPackageId{},
	}
}

// UVName is the excuse-level identity used for dependency edges and
// cross-excuse invalidation: the source name, suffixed by the source
// suite's excuses suffix when it isn't the primary one.
func (e *Excuse) UVName() string {
	if e.Suite == "" {
		return e.Source
	}
	return e.Source + "/" + e.Suite
}

// AddReason appends r if it isn't already present, keeping Reasons stable
// and de-duplicated the way the YAML/HTML report expects.
func (e *Excuse) AddReason(r string) {
	for _, existing := range e.Reasons {
		if existing == r {
			return
		}
	}
	e.Reasons = append(e.Reasons, r)
}

// IsCandidate reports whether the excuse's current verdict allows
// migration: PASS or PASS_HINTED, or any verdict when Forced is set
// (spec.md §4.3's "Forced excuses are exempt").
func (e *Excuse) IsCandidate() bool {
	if e.Forced {
		return true
	}
	return e.Verdict == policy.VerdictPass || e.Verdict == policy.VerdictPassHinted
}

// SortExcuses orders excuses by UVName for deterministic report output.
func SortExcuses(items []*Excuse) {
	sort.Slice(items, func(i, j int) bool { return items[i].UVName() < items[j].UVName() })
}

// ToCandidate projects e into the flatter view the policy engine operates
// on (internal/policy has no dependency on this package).
func (e *Excuse) ToCandidate(store *hints.HintStore) *policy.Candidate {
	return &policy.Candidate{
		Item:          e.Item,
		Suite:         e.Suite,
		Source:        e.Source,
		TargetVersion: e.TargetVersion,
		SourceVersion: e.SourceVersion,
		AgeDays:       e.Age,
		MinAgeDays:    e.MinAge,
		BugsAdded:     e.BugsAdded,
		BugsRemoved:   e.BugsRemoved,
		Hints:         store,
		PolicyInfo:    e.PolicyInfo,
		Forced:        e.Forced,
		Reasons:       e.Reasons,
	}
}

// ApplyVerdict copies a policy engine's verdict and any Candidate state it
// mutated back onto e.
func (e *Excuse) ApplyVerdict(v policy.Verdict, c *policy.Candidate) {
	e.Verdict = v
	e.PolicyInfo = c.PolicyInfo
	e.Reasons = c.Reasons
	e.MinAge = c.MinAgeDays
}
