package archive

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// SuiteClass distinguishes the target suite from source suites, and the
// primary source suite (e.g. "unstable") from additional ones (e.g.
// "proposed-updates" variants).
type SuiteClass int

const (
	TargetSuiteClass SuiteClass = iota
	PrimarySourceSuiteClass
	AdditionalSourceSuiteClass
)

func (c SuiteClass) IsSource() bool {
	return c != TargetSuiteClass
}

func (c SuiteClass) IsTarget() bool {
	return c == TargetSuiteClass
}

func (c SuiteClass) IsPrimarySource() bool {
	return c == PrimarySourceSuiteClass
}

func (c SuiteClass) IsAdditionalSource() bool {
	return c == AdditionalSourceSuiteClass
}

// Suite is a typed container holding sources and per-architecture binaries
// for one suite (target or source), plus a per-architecture Provides
// table. It tracks which binaries are "cruft" — produced by an older
// version of their source than the one currently in the suite.
type Suite struct {
	Class         SuiteClass
	Name          string
	ShortName     string
	Sources       map[string]*SourcePackage
	Binaries      map[string]map[string]*BinaryPackage  // arch -> name -> binary
	ProvidesTable map[string]map[string][]ProvidesEntry // arch -> virtual name -> providers (entry.Name is provider)

	allBinaries map[PackageId]*BinaryPackage // cache, invalidated on Binaries reset
}

// NewSuite creates an empty suite ready to be populated by a loader.
func NewSuite(class SuiteClass, name, shortName string) *Suite {
	return &Suite{
		Class:         class,
		Name:          name,
		ShortName:     shortName,
		Sources:       map[string]*SourcePackage{},
		Binaries:      map[string]map[string]*BinaryPackage{},
		ProvidesTable: map[string]map[string][]ProvidesEntry{},
	}
}

// ExcusesSuffix is the suffix used to disambiguate excuses coming from
// different additional source suites (empty for the primary suite).
func (s *Suite) ExcusesSuffix() string {
	if s.Class.IsPrimarySource() {
		return ""
	}
	return s.ShortName
}

// InvalidateBinaryCache must be called whenever s.Binaries is mutated
// directly by a loader or the migration manager outside of AddBinaryRecord/
// RemoveBinaryRecord (mirrors the Python binaries-setter cache invalidation).
func (s *Suite) InvalidateBinaryCache() {
	s.allBinaries = nil
}

// AllBinariesInSuite returns (and lazily caches) every binary currently in
// the suite keyed by PackageId.
func (s *Suite) AllBinariesInSuite() map[PackageId]*BinaryPackage {
	if s.allBinaries == nil {
		s.allBinaries = map[PackageId]*BinaryPackage{}
		for _, byName := range s.Binaries {
			for _, bin := range byName {
				s.allBinaries[bin.PkgID.PackageId] = bin
			}
		}
	}
	return s.allBinaries
}

// AnyOfTheseAreInTheSuite reports whether at least one of pkgs is present.
func (s *Suite) AnyOfTheseAreInTheSuite(pkgs []BinaryPackageId) bool {
	all := s.AllBinariesInSuite()
	for _, p := range pkgs {
		if _, ok := all[p.PackageId]; ok {
			return true
		}
	}
	return false
}

// IsPkgInTheSuite reports whether pkgID is currently present.
func (s *Suite) IsPkgInTheSuite(pkgID BinaryPackageId) bool {
	_, ok := s.AllBinariesInSuite()[pkgID.PackageId]
	return ok
}

// WhichOfTheseAreInTheSuite filters pkgs down to those currently present.
func (s *Suite) WhichOfTheseAreInTheSuite(pkgs []BinaryPackageId) []BinaryPackageId {
	all := s.AllBinariesInSuite()
	out := make([]BinaryPackageId, 0, len(pkgs))
	for _, p := range pkgs {
		if _, ok := all[p.PackageId]; ok {
			out = append(out, p)
		}
	}
	return out
}

// IsCruft reports whether pkg (assumed to be in the suite) was produced by
// an older version of its source than the one currently in the suite.
func (s *Suite) IsCruft(pkg *BinaryPackage) bool {
	src, ok := s.Sources[pkg.Source]
	if !ok {
		return false
	}
	return pkg.SourceVersion != src.Version
}

// GetBinary looks up a binary by architecture and name.
func (s *Suite) GetBinary(arch, name string) (*BinaryPackage, bool) {
	byName, ok := s.Binaries[arch]
	if !ok {
		return nil, false
	}
	b, ok := byName[name]
	return b, ok
}

// AddBinaryRecord inserts or replaces a binary in the suite's raw table and
// invalidates the lookup cache. It does not touch an InstallabilityTester
// — callers driving the target suite must also call Tester.AddBinary.
func (s *Suite) AddBinaryRecord(bin *BinaryPackage) {
	byName, ok := s.Binaries[bin.Architecture]
	if !ok {
		byName = map[string]*BinaryPackage{}
		s.Binaries[bin.Architecture] = byName
	}
	byName[bin.PkgID.Name] = bin
	s.InvalidateBinaryCache()
}

// RemoveBinaryRecord deletes a binary from the suite's raw table and
// invalidates the lookup cache.
func (s *Suite) RemoveBinaryRecord(arch, name string) {
	if byName, ok := s.Binaries[arch]; ok {
		delete(byName, name)
	}
	s.InvalidateBinaryCache()
}

// CheckSourceBinaryConsistency validates the two suite invariants from
// spec.md §3: every binary's Source exists, and every PackageId in a
// source's Binaries set resolves to a present binary entry. It returns the
// list of human-readable problems found; an empty slice means consistent.
func (s *Suite) CheckSourceBinaryConsistency() []string {
	var problems []string
	for arch, byName := range s.Binaries {
		for name, pkg := range byName {
			if _, ok := s.Sources[pkg.Source]; !ok {
				problems = append(problems, fmt.Sprintf(
					"binary %s/%s has source %s which is not in the suite", name, arch, pkg.Source))
			}
		}
	}
	for srcName, src := range s.Sources {
		for _, pkgID := range src.Binaries {
			if _, ok := s.GetBinary(pkgID.Arch, pkgID.Name); !ok {
				problems = append(problems, fmt.Sprintf(
					"source %s references binary %s which is not present on %s", srcName, pkgID.Name, pkgID.Arch))
			}
		}
	}
	return problems
}

// Suites is the ordered collection of one target suite and one or more
// source suites (primary first, then additional). Iteration order places
// source suites before the target, matching the Python implementation's
// loading order guarantee.
type Suites struct {
	Target        *Suite
	SourceSuites  []*Suite
	byNameOrAlias map[string]*Suite
}

// NewSuites builds the collection and its by-name-or-alias index.
func NewSuites(target *Suite, sourceSuites []*Suite) *Suites {
	s := &Suites{Target: target, SourceSuites: sourceSuites, byNameOrAlias: map[string]*Suite{}}
	index := func(suite *Suite) {
		s.byNameOrAlias[suite.Name] = suite
		if suite.ShortName != "" {
			s.byNameOrAlias[suite.ShortName] = suite
		}
	}
	index(target)
	for _, src := range sourceSuites {
		index(src)
	}
	return s
}

// PrimarySourceSuite is the first (and mandatory) source suite.
func (s *Suites) PrimarySourceSuite() *Suite {
	return s.SourceSuites[0]
}

// AdditionalSourceSuites are every source suite beyond the primary one.
func (s *Suites) AdditionalSourceSuites() []*Suite {
	if len(s.SourceSuites) <= 1 {
		return nil
	}
	return s.SourceSuites[1:]
}

// ByNameOrAlias looks up a suite by its full name or short alias.
func (s *Suites) ByNameOrAlias(name string) (*Suite, bool) {
	suite, ok := s.byNameOrAlias[name]
	return suite, ok
}

// All iterates source suites first, then the target suite.
func (s *Suites) All() []*Suite {
	out := make([]*Suite, 0, len(s.SourceSuites)+1)
	out = append(out, s.SourceSuites...)
	return append(out, s.Target)
}

// ErrUnknownSuite is returned by lookups against an unregistered suite name.
func ErrUnknownSuite(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("unknown suite: %s", name))
}
