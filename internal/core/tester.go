package core

import (
	"github.com/crillab/gophersat/solver"

	"github.com/debarchive/britney/internal/archive"
)

// DefaultClosureCap bounds how many packages the tester will pull into the
// transitive closure before giving up and reporting "not installable".
// This is what makes is_installable sound-but-incomplete rather than a
// full archive-wide SAT solve (spec.md §4.1, §1 Non-goals): a `false`
// only means "could not prove it within the bound".
const DefaultClosureCap = 50000

// InstallabilityTester holds the mutable "currently-in-target" set and
// answers is_installable queries against it (spec.md §3
// "InstallabilityTester", §4.1).
type InstallabilityTester struct {
	universe   *PackageUniverse
	inTarget   map[uint32]bool
	cache      map[uint32]bool
	closureCap int
}

// NewInstallabilityTester creates a tester over universe with no packages
// currently in target; callers populate it via AddBinary.
func NewInstallabilityTester(universe *PackageUniverse) *InstallabilityTester {
	return &InstallabilityTester{
		universe:   universe,
		inTarget:   map[uint32]bool{},
		cache:      map[uint32]bool{},
		closureCap: DefaultClosureCap,
	}
}

// WithClosureCap overrides the default bounded-search node cap (tests use
// a small cap to exercise the incomplete-answer path deterministically).
func (t *InstallabilityTester) WithClosureCap(cap int) *InstallabilityTester {
	t.closureCap = cap
	return t
}

// idOf resolves pkgID to its arena id. An unknown pkgID indicates a
// loader/programmer bug (spec.md §4.1 "Error model"), not a data problem —
// it panics rather than returning an error, matching the fatal-condition
// row of the spec.md §4.8 failure table.
func (t *InstallabilityTester) idOf(pkgID archive.BinaryPackageId) uint32 {
	id, ok := t.universe.ID(pkgID)
	if !ok {
		panic("installability tester: unknown package " + pkgID.String())
	}
	return id
}

// AddBinary adds pkgID to the in-target set and invalidates any cached
// installability verdict for pkgID and its transitive reverse-dependency
// closure, per spec.md §4.1.
func (t *InstallabilityTester) AddBinary(pkgID archive.BinaryPackageId) {
	id := t.idOf(pkgID)
	t.inTarget[id] = true
	t.invalidate(id)
}

// RemoveBinary removes pkgID from the in-target set and invalidates the
// same closure as AddBinary.
func (t *InstallabilityTester) RemoveBinary(pkgID archive.BinaryPackageId) {
	id := t.idOf(pkgID)
	delete(t.inTarget, id)
	t.invalidate(id)
}

// invalidate clears the memoized verdict for id and every package that
// transitively depends on it.
func (t *InstallabilityTester) invalidate(id uint32) {
	visited := map[uint32]bool{}
	var walk func(uint32)
	walk = func(cur uint32) {
		if visited[cur] {
			return
		}
		visited[cur] = true
		delete(t.cache, cur)
		for _, dependant := range t.universe.ReverseDependents(cur) {
			walk(dependant)
		}
	}
	walk(id)
}

// IsInstallable answers spec.md §4.1's is_installable contract
// conservatively: it returns true only when pkgID together with its whole
// bounded closure (see closure: in-target dependencies and in-target
// conflict partners) can be installed at once, with every member having
// at least one alternative of each dependency clause inside the closure
// and no two members conflicting. A false answer does not prove that no
// smaller subset of the target would work.
func (t *InstallabilityTester) IsInstallable(pkgID archive.BinaryPackageId) bool {
	id := t.idOf(pkgID)
	if v, ok := t.cache[id]; ok {
		return v
	}
	v := t.solve(id)
	t.cache[id] = v
	return v
}

// solve builds the transitive closure of id (through dependency clauses)
// within the in-target set plus id itself, bounded by closureCap, and
// asks gophersat whether a satisfying assignment exists where id and every
// clause/conflict constraint among the closure holds. This reuses the
// clause-building idiom from the teacher's apt-dependency SAT solver
// (one SAT variable per package, at-most-one/negative clauses for
// conflicts, implication clauses for dependencies) scoped down to a single
// package's closure instead of the whole archive.
func (t *InstallabilityTester) solve(id uint32) bool {
	closure, ok := t.closure(id)
	if !ok {
		return false
	}

	// Map closure members to dense SAT variable numbers (1-indexed, as
	// gophersat's ParseSliceNb expects).
	varOf := make(map[uint32]int, len(closure))
	n := 0
	for member := range closure {
		n++
		varOf[member] = n
	}

	var clauses [][]int
	for member := range closure {
		v := varOf[member]
		// member must be true (it's in our candidate install set).
		clauses = append(clauses, []int{v})
		for _, group := range t.universe.Dependencies(member) {
			var alt []int
			for _, dep := range group {
				if dv, ok := varOf[dep]; ok {
					alt = append(alt, dv)
				}
			}
			if len(alt) == 0 {
				// No alternative reachable within the bounded closure:
				// closure() only pulls in packages currently in the
				// target, so a clause whose alternatives are all outside
				// the target makes member unsatisfiable.
				clauses = append(clauses, []int{-v})
				continue
			}
			clause := append([]int{-v}, alt...)
			clauses = append(clauses, clause)
		}
		for _, neg := range t.universe.NegativeDeps(member) {
			if nv, ok := varOf[neg]; ok {
				clauses = append(clauses, []int{-v, -nv})
			}
		}
	}

	problem := solver.ParseSliceNb(clauses, n)
	var costLits []solver.Lit
	var costWeights []int
	for i := 1; i <= n; i++ {
		costLits = append(costLits, solver.IntToLit(int32(i)))
		costWeights = append(costWeights, 0)
	}
	problem.SetCostFunc(costLits, costWeights)
	sat := solver.New(problem)
	cost := sat.Minimize()
	return cost >= 0
}

// closure computes the set of arena ids reachable from id by following
// dependency clauses (every alternative, since we don't know in advance
// which branch a solution would pick) restricted to ids currently in the
// target, plus id itself (which might not be in target yet, e.g. a
// candidate being test-added by the migration manager before commit).
// Returns ok=false if the closure would exceed closureCap.
func (t *InstallabilityTester) closure(id uint32) (map[uint32]struct{}, bool) {
	seen := map[uint32]struct{}{id: {}}
	queue := []uint32{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, group := range t.universe.Dependencies(cur) {
			for _, dep := range group {
				if !t.inTarget[dep] && dep != id {
					continue
				}
				if _, ok := seen[dep]; ok {
					continue
				}
				seen[dep] = struct{}{}
				queue = append(queue, dep)
				if len(seen) > t.closureCap {
					return nil, false
				}
			}
		}
		for _, neg := range t.universe.NegativeDeps(cur) {
			if !t.inTarget[neg] {
				continue
			}
			if _, ok := seen[neg]; ok {
				continue
			}
			seen[neg] = struct{}{}
			queue = append(queue, neg)
			if len(seen) > t.closureCap {
				return nil, false
			}
		}
	}
	return seen, true
}

// ComputeInstallability bulk-recomputes from scratch, clearing the cache,
// and reports every binary's installability per architecture. Callers
// building the spec.md §4.7 "nuninst" vector (the set of uninstallable
// names per arch) filter this down via migration.Nuninst.
func (t *InstallabilityTester) ComputeInstallability(suite *archive.Suite) map[string]map[string]bool {
	t.cache = map[uint32]bool{}
	result := map[string]map[string]bool{}
	for arch, byName := range suite.Binaries {
		archResult := map[string]bool{}
		for name, bin := range byName {
			archResult[name] = t.IsInstallable(bin.PkgID)
		}
		result[arch] = archResult
	}
	return result
}
