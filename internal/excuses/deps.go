package excuses

import (
	"github.com/debarchive/britney/internal/archive"
)

// DependencyState is the resolution state of one excuse-level dependency
// edge (spec.md §4.6), ported from britney2/excusedeps.py's enum of the
// same shape.
type DependencyState int

const (
	DependencyStateUnresolved DependencyState = iota
	DependencyStateSatisfied
	DependencyStateBlocked
	DependencyStateImpossible
)

// DependencySpec names one excuse-level dependency: the item it's on, the
// kind of package-level dependency that produced it, and whether it's
// "important" (affects the migration decision) or purely informational.
type DependencySpec struct {
	On        string // UVName of the excuse depended on
	Kind      archive.DependencyType
	Important bool
}

// ExcuseDependency is a resolved DependencySpec against the current set
// of excuses: State reflects whether On is itself migrating.
type ExcuseDependency struct {
	DependencySpec
	State DependencyState
}

// ImpossibleDependencyState marks a dependency edge that can never be
// satisfied — e.g. it names an excuse that doesn't exist, or whose own
// verdict is permanently rejected — so cross-excuse invalidation can
// short-circuit instead of waiting for a fixed point.
func ImpossibleDependencyState(spec DependencySpec) ExcuseDependency {
	return ExcuseDependency{DependencySpec: spec, State: DependencyStateImpossible}
}

// ResolveDependencies walks every excuse's recorded DependencySpecs against
// byName and fills in Dependencies/BlockedBy/MigrateAfter/UnimportantDeps/
// UnsatisfiableDeps (spec.md §4.6), without yet touching verdicts — that
// happens in the invalidation pass (finder.go step 6).
func ResolveDependencies(excusesList []*Excuse, specs map[string][]DependencySpec) {
	byName := make(map[string]*Excuse, len(excusesList))
	for _, e := range excusesList {
		byName[e.UVName()] = e
	}

	for _, e := range excusesList {
		for _, spec := range specs[e.UVName()] {
			target, ok := byName[spec.On]
			if !ok {
				if spec.Important {
					e.UnsatisfiableDeps = append(e.UnsatisfiableDeps, spec.On)
				}
				continue
			}
			if !spec.Important {
				e.UnimportantDeps = append(e.UnimportantDeps, spec.On)
				continue
			}
			e.Dependencies = append(e.Dependencies, spec.On)
			if target.IsCandidate() {
				e.MigrateAfter = append(e.MigrateAfter, spec.On)
			} else {
				e.BlockedBy = append(e.BlockedBy, spec.On)
			}
		}
	}
}
