// Package migration implements the migration manager and solver (spec.md
// §4.7): grouping candidate excuses into atomic transactions, the greedy
// iter_packages solver loop, the break-arches second pass, and the
// auto-hinter.
package migration

import (
	"strings"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/hints"
)

// SmoothUpdater decides which target binaries a source upgrade makes
// obsolete may be kept around a little longer rather than removed in the
// same transaction (spec.md §4.5), ported from
// britney2/utils.py's is_smooth_update_allowed/find_smooth_updateable_binaries.
type SmoothUpdater struct {
	universe     *core.PackageUniverse
	target       *archive.Suite
	hints        *hints.HintStore
	smoothUpdate map[string]bool // configured section set, or {"ALL": true}
}

// NewSmoothUpdater builds a SmoothUpdater over universe's reverse-
// dependency graph and the target suite's current binaries.
func NewSmoothUpdater(universe *core.PackageUniverse, target *archive.Suite, store *hints.HintStore, smoothUpdateSections []string) *SmoothUpdater {
	set := make(map[string]bool, len(smoothUpdateSections))
	for _, s := range smoothUpdateSections {
		set[s] = true
	}
	return &SmoothUpdater{universe: universe, target: target, hints: store, smoothUpdate: set}
}

// IsSmoothUpdateable reports whether bin's section, or an
// allow-smooth-update hint matching newSourceVersion, permits keeping it
// around after its source stops producing it.
func (s *SmoothUpdater) IsSmoothUpdateable(bin *archive.BinaryPackage, newSourceVersion string) bool {
	if s.smoothUpdate["ALL"] {
		return true
	}
	section := bin.Section
	if idx := strings.LastIndex(section, "/"); idx >= 0 {
		section = section[idx+1:]
	}
	if s.smoothUpdate[section] {
		return true
	}
	if s.hints == nil {
		return false
	}
	matches := s.hints.Search(hints.SearchQuery{Type: hints.TypeAllowSmoothUpdate, Package: bin.Source, ActiveOnly: true})
	for _, h := range matches {
		for _, item := range h.Packages {
			if item.Package == bin.Source && item.Version == newSourceVersion {
				return true
			}
		}
	}
	return false
}

// HasUnsatisfiedReverseDeps reports whether any package currently in the
// target suite depends directly on bin (lists it as an alternative in one
// of its dependency clauses). Whether another binary, such as one from
// the new source, could satisfy that dependency instead is not checked.
func (s *SmoothUpdater) HasUnsatisfiedReverseDeps(bin *archive.BinaryPackage) bool {
	if s.universe == nil {
		return false
	}
	id, ok := s.universe.ID(bin.PkgID)
	if !ok {
		return false
	}
	rdeps := s.universe.ReverseDependents(id)
	if len(rdeps) == 0 {
		return false
	}
	for _, rdep := range rdeps {
		rdepID := s.universe.PackageAt(rdep)
		if s.target.IsPkgInTheSuite(rdepID) {
			return true
		}
	}
	return false
}
