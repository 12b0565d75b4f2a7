package migration

import (
	"sort"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
)

// Nuninst is the per-architecture set of binary names currently
// uninstallable (spec.md §3 "nuninst vector"), keyed by architecture then
// sorted name for deterministic reporting.
type Nuninst map[string][]string

// Compute derives a Nuninst vector from the tester's bulk installability
// results, keeping only the uninstallable names (core.InstallabilityTester
// reports every binary's installable/not status; the vector itself is
// defined only over the "not" side, per spec.md §4.7).
func Compute(tester *core.InstallabilityTester, suite *archive.Suite) Nuninst {
	raw := tester.ComputeInstallability(suite)
	out := make(Nuninst, len(raw))
	for arch, byName := range raw {
		var names []string
		for name, installable := range byName {
			if !installable {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		out[arch] = names
	}
	return out
}

// Count returns the total number of uninstallable binaries across every
// architecture in archs (spec.md §4.7's regression comparisons are always
// scoped to a specific architecture set, e.g. break_arches vs the rest).
func (n Nuninst) Count(archs []string) int {
	total := 0
	for _, arch := range archs {
		total += len(n[arch])
	}
	return total
}

// Diff returns the names newly uninstallable in other but not in n, for
// architecture arch — the regression set a migration attempt introduced.
func (n Nuninst) Diff(other Nuninst, arch string) []string {
	before := toSet(n[arch])
	var added []string
	for _, name := range other[arch] {
		if !before[name] {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	return added
}

// IsAsGood reports whether other is no worse than n on every architecture
// in archs: no architecture may have more uninstallable names than it did
// in n (spec.md §4.7's "nuninst did not get worse" acceptance check).
func (n Nuninst) IsAsGood(other Nuninst, archs []string) bool {
	for _, arch := range archs {
		if len(other[arch]) > len(n[arch]) {
			return false
		}
	}
	return true
}

// IsAsGoodGenerous implements is_nuninst_asgood_generous: the change in
// uninstallable count is summed over the architectures not in breakArches,
// and other is accepted when that sum is not positive, so an improvement
// on one architecture can offset a regression on another. On the
// architectures in breakArches a regression is tolerated entirely (no
// comparison at all). Allow-uninst exceptions are not applied here;
// Manager.TryMigrationSet applies them in its own check.
func (n Nuninst) IsAsGoodGenerous(other Nuninst, archs, breakArches []string) bool {
	breaking := toSet(breakArches)
	diff := 0
	for _, arch := range archs {
		if breaking[arch] {
			continue
		}
		diff += len(other[arch]) - len(n[arch])
	}
	return diff <= 0
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, item := range items {
		out[item] = true
	}
	return out
}
