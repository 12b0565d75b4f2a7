package core

import (
	"github.com/debarchive/britney/internal/archive"
)

// PackageUniverse is the immutable mapping from every BinaryPackageId known
// to any suite to its CNF dependency clauses and its conflict
// neighbourhood (spec.md §3 "PackageUniverse"). It is built once, from the
// union of binaries across the target suite and every source suite, so
// that a candidate binary's dependency clauses are already known before it
// ever enters the target (spec.md §4.1: "Universe construction consumes,
// for every binary in every suite...").
//
// Internally it is an index-based arena (spec.md §9 design note): every
// BinaryPackageId gets a dense uint32 id, and clauses are stored as
// [][]uint32 so cyclic dependency graphs (mutual Depends) are represented
// without recursive structures.
type PackageUniverse struct {
	ids  map[archive.PackageId]uint32
	pkgs []archive.BinaryPackageId

	// dependencies[id] is the CNF clause list: AND of OR-groups, each
	// group a list of alternative ids satisfying that clause.
	dependencies [][][]uint32
	// negativeDeps[id] is the (symmetric) conflict neighbourhood.
	negativeDeps [][]uint32
	// reverseDeps[id] lists every package that has id as one alternative
	// in at least one of its dependency clauses — the transitive closure
	// of this is what the tester invalidates on add/remove.
	reverseDeps [][]uint32
}

// idFor returns the arena id for a BinaryPackageId, allocating one if it
// hasn't been seen yet.
func (u *PackageUniverse) idFor(pkgID archive.BinaryPackageId) uint32 {
	if id, ok := u.ids[pkgID.PackageId]; ok {
		return id
	}
	id := uint32(len(u.pkgs))
	u.ids[pkgID.PackageId] = id
	u.pkgs = append(u.pkgs, pkgID)
	u.dependencies = append(u.dependencies, nil)
	u.negativeDeps = append(u.negativeDeps, nil)
	u.reverseDeps = append(u.reverseDeps, nil)
	return id
}

// ID returns the arena id for pkgID and whether it is known to the universe.
func (u *PackageUniverse) ID(pkgID archive.BinaryPackageId) (uint32, bool) {
	id, ok := u.ids[pkgID.PackageId]
	return id, ok
}

// PackageAt returns the BinaryPackageId stored at an arena id.
func (u *PackageUniverse) PackageAt(id uint32) archive.BinaryPackageId {
	return u.pkgs[id]
}

// Dependencies returns the CNF clause list (by arena id) for id.
func (u *PackageUniverse) Dependencies(id uint32) [][]uint32 {
	return u.dependencies[id]
}

// NegativeDeps returns the conflict neighbourhood (by arena id) for id.
func (u *PackageUniverse) NegativeDeps(id uint32) []uint32 {
	return u.negativeDeps[id]
}

// ReverseDependents returns every package that depends (directly) on id.
func (u *PackageUniverse) ReverseDependents(id uint32) []uint32 {
	return u.reverseDeps[id]
}

// Len is the number of distinct BinaryPackageIds in the universe.
func (u *PackageUniverse) Len() int {
	return len(u.pkgs)
}

// mergedArchView builds, per architecture, the name -> binary map used to
// resolve dependency literals: the target suite's entry takes priority (it
// reflects what's actually migrated today); otherwise the last source
// suite, in Suites order, that carries the name wins. This keeps resolution well-defined
// when the same (name, arch) exists with different versions across
// suites, without requiring the universe to duplicate BinaryPackage
// records per suite.
func mergedArchView(suites *archive.Suites) map[string]*archive.Suite {
	// A synthetic suite per architecture that aliases existing binaries;
	// we don't copy BinaryPackage values, only build a shared lookup
	// Suite whose Binaries/ProvidesTable point at the merged tables.
	merged := archive.NewSuite(archive.TargetSuiteClass, "<universe>", "")
	ordered := append([]*archive.Suite{}, suites.SourceSuites...)
	ordered = append(ordered, suites.Target)
	for _, suite := range ordered {
		for arch, byName := range suite.Binaries {
			dest := merged.Binaries[arch]
			if dest == nil {
				dest = map[string]*archive.BinaryPackage{}
				merged.Binaries[arch] = dest
			}
			for name, bin := range byName {
				dest[name] = bin
			}
		}
	}
	for _, suite := range ordered {
		for arch, table := range suite.ProvidesTable {
			dest := merged.ProvidesTable[arch]
			if dest == nil {
				dest = map[string][]archive.ProvidesEntry{}
				merged.ProvidesTable[arch] = dest
			}
			for name, entries := range table {
				dest[name] = append(dest[name], entries...)
			}
		}
	}
	return map[string]*archive.Suite{"": merged}
}

// BuildUniverse constructs the PackageUniverse over every binary in every
// suite, resolving each binary's Depends (Pre-Depends merged in by the
// loader) and Conflicts (Breaks merged in by the loader) into arena-id
// clauses, per spec.md §4.1. nativeArch is used for ":native" qualifiers.
func BuildUniverse(suites *archive.Suites, nativeArch string) *PackageUniverse {
	u := &PackageUniverse{ids: map[archive.PackageId]uint32{}}
	cache := newVersionCache()
	view := mergedArchView(suites)[""]

	ordered := append([]*archive.Suite{}, suites.SourceSuites...)
	ordered = append(ordered, suites.Target)
	for _, suite := range ordered {
		for arch, byName := range suite.Binaries {
			for _, bin := range byName {
				id := u.idFor(bin.PkgID)
				depClauses := u.resolveClauses(view, bin.Depends, arch, nativeArch, cache)
				u.dependencies[id] = depClauses
				for _, group := range depClauses {
					for _, dep := range group {
						u.reverseDeps[dep] = appendUnique(u.reverseDeps[dep], id)
					}
				}
				u.negativeDeps[id] = u.resolveNegative(view, bin.Conflicts, arch, nativeArch, cache)
			}
		}
	}
	// Conflicts are symmetric: if a conflicts with b, ensure b also lists a.
	for id, negs := range u.negativeDeps {
		for _, other := range negs {
			u.negativeDeps[other] = appendUnique(u.negativeDeps[other], uint32(id))
		}
	}
	return u
}

// resolveClauses resolves every alternative of every clause against view,
// allocating arena ids (via u.idFor) for any binary not yet seen while
// walking dependency targets — this is how a candidate binary from a
// source suite that nothing else has referenced yet still gets an id.
func (u *PackageUniverse) resolveClauses(view *archive.Suite, clauses []archive.DependencyClause, arch, nativeArch string, cache *versionCache) [][]uint32 {
	var out [][]uint32
	for _, clause := range clauses {
		var ids []uint32
		for _, lit := range clause.Alternatives {
			resolved, err := resolveLiteral(view, lit, arch, nativeArch, cache)
			if err != nil {
				continue
			}
			for _, pkgID := range resolved {
				ids = append(ids, u.idFor(pkgID))
			}
		}
		if len(ids) > 0 {
			out = append(out, dedupeUint32(ids))
		}
	}
	return out
}

func (u *PackageUniverse) resolveNegative(view *archive.Suite, clauses []archive.DependencyClause, arch, nativeArch string, cache *versionCache) []uint32 {
	var out []uint32
	for _, clause := range clauses {
		for _, lit := range clause.Alternatives {
			resolved, err := resolveLiteral(view, lit, arch, nativeArch, cache)
			if err != nil {
				continue
			}
			for _, pkgID := range resolved {
				out = append(out, u.idFor(pkgID))
			}
		}
	}
	return dedupeUint32(out)
}

func appendUnique(list []uint32, value uint32) []uint32 {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func dedupeUint32(in []uint32) []uint32 {
	seen := map[uint32]struct{}{}
	out := make([]uint32, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
