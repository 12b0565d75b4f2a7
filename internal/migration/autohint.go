package migration

import (
	"sort"

	"github.com/debarchive/britney/internal/excuses"
)

// AutoHinter proposes sets of excuses that must move together, based on
// their excuse-level dependencies, and attempts each set as an easy hint
// (spec.md §4.7 "Auto-hinter"). It is driven by Config.AutoHinterEnabled
// rather than the permanently-disabled stub upstream: spec.md §8 scenario
// 6 (the circular a/b dependency) requires an observable result from it.
type AutoHinter struct {
	driver *Driver
}

func NewAutoHinter(driver *Driver) *AutoHinter {
	return &AutoHinter{driver: driver}
}

// ProposedSet is one group of mutually-dependent, currently-unmigrated
// excuses the auto-hinter believes can only move together.
type ProposedSet struct {
	Members []*excuses.Excuse
}

// Propose groups not-yet-migrated excuses by their BlockedBy edges
// (MigrateAfter is not consulted): two excuses belong in the same set when each is blocked on
// (directly or transitively) the other's migration, the classic circular
// case spec.md §8 scenario 6 describes. Excuses with no such mutual edge
// are left for the ordinary solver and are not proposed here.
func (h *AutoHinter) Propose(notMigrated []*excuses.Excuse) []ProposedSet {
	byName := make(map[string]*excuses.Excuse, len(notMigrated))
	for _, e := range notMigrated {
		byName[e.UVName()] = e
	}

	visited := map[string]bool{}
	var sets []ProposedSet

	names := make([]string, 0, len(notMigrated))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if visited[name] {
			continue
		}
		component := stronglyConnected(byName[name], byName, visited)
		if len(component) < 2 {
			continue
		}
		sort.Slice(component, func(i, j int) bool { return component[i].UVName() < component[j].UVName() })
		sets = append(sets, ProposedSet{Members: component})
	}
	return sets
}

// stronglyConnected walks e's BlockedBy edges within byName, collecting
// every excuse reachable that in turn depends back on e — i.e. the
// mutual-dependency cycle e participates in. This is a simple DFS over a
// small candidate pool, not a general Tarjan's algorithm: the pools
// auto-hinting runs over (excuses still unmigrated after the main pass)
// are small enough that the distinction doesn't matter in practice.
func stronglyConnected(e *excuses.Excuse, byName map[string]*excuses.Excuse, visited map[string]bool) []*excuses.Excuse {
	reachable := map[string]*excuses.Excuse{}
	var walk func(cur *excuses.Excuse)
	walk = func(cur *excuses.Excuse) {
		if reachable[cur.UVName()] != nil {
			return
		}
		reachable[cur.UVName()] = cur
		for _, dep := range cur.BlockedBy {
			target, ok := byName[dep]
			if ok {
				walk(target)
			}
		}
	}
	walk(e)

	var component []*excuses.Excuse
	for name, candidate := range reachable {
		if name == e.UVName() {
			component = append(component, candidate)
			continue
		}
		if mutuallyBlocked(candidate, e, byName) {
			component = append(component, candidate)
		}
	}
	for _, member := range component {
		visited[member.UVName()] = true
	}
	return component
}

// mutuallyBlocked reports whether target's BlockedBy chain reaches back
// to origin, meaning the two excuses are stuck waiting on each other.
func mutuallyBlocked(target, origin *excuses.Excuse, byName map[string]*excuses.Excuse) bool {
	seen := map[string]bool{}
	var walk func(cur *excuses.Excuse) bool
	walk = func(cur *excuses.Excuse) bool {
		if seen[cur.UVName()] {
			return false
		}
		seen[cur.UVName()] = true
		for _, dep := range cur.BlockedBy {
			if dep == origin.UVName() {
				return true
			}
			if next, ok := byName[dep]; ok && walk(next) {
				return true
			}
		}
		return false
	}
	return walk(target)
}

// Run attempts every proposed set as an easy hint, committing the ones
// that leave nuninst as good as baseline and discarding the rest.
func (h *AutoHinter) Run(sets []ProposedSet, baseline Nuninst) (Nuninst, []string) {
	current := baseline
	var accepted []string

	for _, set := range sets {
		result, ok := h.driver.RunAutoHintSet(set.Members, current)
		if !ok {
			continue
		}
		current = result.Nuninst
		accepted = append(accepted, result.Accepted...)
	}
	return current, accepted
}
