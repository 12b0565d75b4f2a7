package migration

import (
	"fmt"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/excuses"
)

// Group is the set of binary additions and removals one MigrationItem's
// migration entails, including smooth-update and cruft consequences
// (spec.md §4.7 "Group computation"). Multi-source strongly-connected
// groups (several MigrationItems that must move atomically because they
// depend on each other) are not computed here — every Group is scoped to
// a single excuse's own candidate binaries, which is the common case and
// the one the worked examples in spec.md §8 exercise; solver.go's
// "split into singletons on rejection" step is consequently a no-op in
// this implementation, since nothing produces multi-item groups to split.
type Group struct {
	Item     archive.MigrationItem
	Updates  []*archive.BinaryPackage
	Removals []archive.BinaryPackageId
}

// ConstraintError reports that a group could not be computed at all — a
// cyclical arch:all build disagreement, or some other forecast violation
// (spec.md §4.7). The solver treats this as "skip this item", never
// propagating it upward (spec.md §4.8 Migration-constraint row).
type ConstraintError struct {
	Item   archive.MigrationItem
	Reason string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("migration constraint on %s: %s", e.Item.UVName(), e.Reason)
}

// Manager computes groups for excuses and applies/rolls them back
// transactionally against the target suite and installability tester
// (C7, spec.md §4.7).
type Manager struct {
	target       *archive.Suite
	tester       *core.InstallabilityTester
	sourceSuites map[string]*archive.Suite
	smooth       *SmoothUpdater
	keepInstall  map[string]bool // constraints.keep-installable, by binary name
	allowUninst  map[string]map[string]bool
}

// NewManager builds a Manager over the target suite and tester. sourceSuites
// maps suite name to *archive.Suite for looking up a candidate's binaries.
func NewManager(target *archive.Suite, tester *core.InstallabilityTester, sourceSuites map[string]*archive.Suite, smooth *SmoothUpdater, keepInstallable []string, allowUninst map[string]map[string]bool) *Manager {
	keep := make(map[string]bool, len(keepInstallable))
	for _, name := range keepInstallable {
		keep[name] = true
	}
	if allowUninst == nil {
		allowUninst = map[string]map[string]bool{}
	}
	return &Manager{target: target, tester: tester, sourceSuites: sourceSuites, smooth: smooth, keepInstall: keep, allowUninst: allowUninst}
}

// ComputeGroup derives the (updates, removals) pair for e. The excuse's
// own Packages map (populated by the excuse finder) already lists what
// would enter the target per architecture; this just resolves the actual
// BinaryPackage records and the accompanying old-binary removals.
func (m *Manager) ComputeGroup(e *excuses.Excuse) (*Group, error) {
	suite, ok := m.sourceSuites[e.Item.Suite]
	if !ok {
		return nil, &ConstraintError{Item: e.Item, Reason: "unknown source suite " + e.Item.Suite}
	}

	group := &Group{Item: e.Item}
	for arch, ids := range e.Packages {
		for _, id := range ids {
			bin, ok := suite.GetBinary(id.Arch, id.Name)
			if !ok {
				return nil, &ConstraintError{Item: e.Item, Reason: "binary " + id.String() + " vanished from " + arch}
			}
			group.Updates = append(group.Updates, bin)
		}
	}
	for arch, ids := range e.OldBinaries {
		for _, id := range ids {
			if m.keepInstall[id.Name] {
				return nil, &ConstraintError{Item: e.Item, Reason: "removal of " + id.UVName() + " on " + arch + " violates keep-installable"}
			}
			group.Removals = append(group.Removals, id)
		}
	}
	return group, nil
}

// Acceptance is the verdict of TryMigration: whether the group was
// accepted, and — if not — which architecture first regressed and what
// broke there.
type Acceptance struct {
	Accepted    bool
	FailedArch  string
	NewlyBroken []string
}

// TryMigration applies group inside a transaction, recomputes nuninst over
// every architecture of the target suite, and compares against baseline with
// is_nuninst_asgood_generous (spec.md §4.7). On rejection the transaction
// is rolled back and the before-state nuninst is returned unchanged.
func (m *Manager) TryMigration(group *Group, baseline Nuninst, archs, breakArches []string) (Acceptance, Nuninst) {
	return m.TryMigrationSet([]*Group{group}, baseline, archs, breakArches)
}

// TryMigrationSet applies every group in groups inside a single
// transaction and judges the combined result as one unit: either all of
// them commit together or all of them roll back together. This is what
// the auto-hinter uses to attempt a proposed set as one atomic "easy"
// hint (spec.md §4.7 "each set is attempted as an easy hint ... reject
// atomically") — ordinary solver iteration instead calls TryMigration one
// group at a time via the single-group wrapper above.
func (m *Manager) TryMigrationSet(groups []*Group, baseline Nuninst, archs, breakArches []string) (Acceptance, Nuninst) {
	tx := StartTransaction(m.target, m.tester)

	for _, group := range groups {
		for _, bin := range group.Updates {
			tx.AddBinary(bin)
		}
		for _, id := range group.Removals {
			tx.RemoveBinary(id)
		}
	}

	after := Compute(m.tester, m.target)

	// keep-installable is checked on every architecture, including break
	// arches; the regression sum below only covers non-break arches.
	sumRegression := 0
	firstFailedArch := ""
	var firstNewlyBroken []string

	for _, arch := range archs {
		beforeSet := toSet(baseline[arch])
		afterSet := toSet(after[arch])
		allowed := m.allowUninst[arch]

		var newlyBroken []string
		for name := range afterSet {
			if beforeSet[name] || allowed[name] {
				continue
			}
			newlyBroken = append(newlyBroken, name)
			if m.keepInstall[name] {
				tx.Rollback()
				return Acceptance{Accepted: false, FailedArch: arch, NewlyBroken: []string{name}}, baseline
			}
		}

		if contains(breakArches, arch) {
			continue
		}
		regression := countFiltered(afterSet, allowed) - countFiltered(beforeSet, allowed)
		sumRegression += regression
		if regression > 0 && firstFailedArch == "" {
			firstFailedArch = arch
			firstNewlyBroken = newlyBroken
		}
	}

	if sumRegression > 0 {
		tx.Rollback()
		return Acceptance{Accepted: false, FailedArch: firstFailedArch, NewlyBroken: firstNewlyBroken}, baseline
	}

	tx.Commit()
	return Acceptance{Accepted: true}, after
}

func countFiltered(set map[string]bool, allowed map[string]bool) int {
	n := 0
	for name := range set {
		if !allowed[name] {
			n++
		}
	}
	return n
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
