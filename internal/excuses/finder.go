package excuses

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/hints"
	"github.com/debarchive/britney/internal/policy"
)

// SmoothUpdateChecker is the excuse finder's view of the smooth-updates
// mechanism (spec.md §4.5). The concrete implementation lives in
// internal/migration/smooth.go, which satisfies this interface
// structurally — this package never imports internal/migration.
type SmoothUpdateChecker interface {
	IsSmoothUpdateable(bin *archive.BinaryPackage, newSourceVersion string) bool
	HasUnsatisfiedReverseDeps(bin *archive.BinaryPackage) bool
}

// Finder runs the excuse-generation algorithm (spec.md §4.4) against one
// Suites collection, producing the set of actionable items and the
// name → Excuse map the migration manager and the YAML/HTML reports
// consume.
type Finder struct {
	log          zerolog.Logger
	suites       *archive.Suites
	hints        *hints.HintStore
	engine       *policy.Engine
	archs        []string
	outOfSync    []string
	ignoreCruft  bool
	smoothUpdate SmoothUpdateChecker

	ageOf  func(source, version string) float64
	bugsOf func(source string) (added, removed []int)
}

// WithAgeSource wires the Dates state file (spec.md §6) into the finder:
// ageOf returns how many days a (source, version) pair has sat in its
// source suite, used as Excuse.Age before policy evaluation.
func (f *Finder) WithAgeSource(ageOf func(source, version string) float64) *Finder {
	f.ageOf = ageOf
	return f
}

// WithBugsSource wires the BugsV state files into the finder: bugsOf
// returns the RC bugs added/removed by a source's migration, used as
// Excuse.BugsAdded/BugsRemoved before policy evaluation.
func (f *Finder) WithBugsSource(bugsOf func(source string) (added, removed []int)) *Finder {
	f.bugsOf = bugsOf
	return f
}

// NewFinder builds a Finder. smoothUpdate may be nil if no smooth-update
// configuration is present.
func NewFinder(log zerolog.Logger, suites *archive.Suites, store *hints.HintStore, engine *policy.Engine, archs, outOfSync []string, ignoreCruft bool, smoothUpdate SmoothUpdateChecker) *Finder {
	return &Finder{
		log:          log,
		suites:       suites,
		hints:        store,
		engine:       engine,
		archs:        archs,
		outOfSync:    outOfSync,
		ignoreCruft:  ignoreCruft,
		smoothUpdate: smoothUpdate,
	}
}

// Run executes steps 1-6 and returns the actionable excuses plus the full
// name → Excuse map (including rejected ones, for the report).
func (f *Finder) Run(ctx context.Context) (actionable []*Excuse, all map[string]*Excuse) {
	all = map[string]*Excuse{}
	depSpecs := map[string][]DependencySpec{}

	f.findRemovals(all)
	f.findPerSourceUpgrades(all, depSpecs)
	f.findRemoveHints(all)

	list := make([]*Excuse, 0, len(all))
	for _, e := range all {
		list = append(list, e)
	}

	for _, e := range list {
		if f.ageOf != nil {
			e.Age = f.ageOf(e.Source, e.SourceVersion)
		}
		if f.bugsOf != nil {
			e.BugsAdded, e.BugsRemoved = f.bugsOf(e.Source)
		}
	}

	for _, e := range list {
		c := e.ToCandidate(f.hints)
		v := f.engine.Evaluate(ctx, c)
		e.ApplyVerdict(policy.Max(policy.Max(e.Verdict, policy.VerdictPass), v), c)
	}

	ResolveDependencies(list, depSpecs)
	f.invalidateDependents(list)

	for _, e := range list {
		if e.IsCandidate() {
			actionable = append(actionable, e)
		}
	}
	SortExcuses(actionable)
	return actionable, all
}

// findRemovals implements step 1: a source present in the target but
// missing from the primary source suite becomes a removal candidate.
func (f *Finder) findRemovals(all map[string]*Excuse) {
	primary := f.suites.PrimarySourceSuite()
	for name, src := range f.suites.Target.Sources {
		if _, stillThere := primary.Sources[name]; stillThere {
			continue
		}
		item := archive.MigrationItem{Package: name, Version: src.Version, Architecture: archive.SourceArch, IsRemoval: true, IsCruftRemoval: true}
		e := NewExcuse(item, primary.ExcusesSuffix())
		e.Source = name
		e.TargetVersion = src.Version
		e.Maintainer = src.Maintainer
		e.Section = src.Section

		if blocked := f.hints.Search(hints.SearchQuery{Type: hints.TypeBlock, Package: name, ActiveOnly: true}); len(blocked) > 0 {
			for _, item := range blocked[0].Packages {
				if item.Package == name && item.IsRemoval {
					e.Verdict = policy.VerdictRejectedPermanently
					e.AddReason("block")
				}
			}
		}
		all[e.UVName()] = e
	}
}

// findPerSourceUpgrades implements steps 2 and 3 for every source suite.
func (f *Finder) findPerSourceUpgrades(all map[string]*Excuse, depSpecs map[string][]DependencySpec) {
	for _, suite := range f.suites.SourceSuites {
		for name, src := range suite.Sources {
			targetSrc, inTarget := f.suites.Target.Sources[name]
			if inTarget && targetSrc.Version == src.Version {
				f.findPerArchMigration(suite, src, targetSrc, all, depSpecs)
				continue
			}

			e := NewExcuse(archive.MigrationItem{Package: name, Version: src.Version, Architecture: archive.SourceArch, Suite: suite.Name}, suite.ExcusesSuffix())
			e.Source = name
			e.SourceVersion = src.Version
			e.Maintainer = src.Maintainer
			e.Section = src.Section
			if inTarget {
				e.TargetVersion = targetSrc.Version
			}

			if inTarget && core.CompareVersions(src.Version, targetSrc.Version) < 0 {
				e.Verdict = policy.VerdictRejectedPermanently
				e.AddReason("newer-in-target")
				all[e.UVName()] = e
				continue
			}
			if len(src.Binaries) == 0 {
				e.Verdict = policy.VerdictRejectedPermanently
				e.AddReason("no-binaries")
				all[e.UVName()] = e
				continue
			}
			if inTarget {
				if removed := f.hints.Search(hints.SearchQuery{Type: hints.TypeRemove, Package: name, ActiveOnly: true}); len(removed) > 0 {
					for _, item := range removed[0].Packages {
						if item.Package == name && item.Version == targetSrc.Version {
							e.Verdict = policy.VerdictRejectedPermanently
							e.AddReason("remove-hint")
						}
					}
				}
			}

			report := checkOutOfDate(suite, src, f.archs, f.outOfSync)
			if len(report.MissingBuilds) > 0 {
				e.MissingBuilds = report.MissingBuilds
				e.PolicyInfo["build-deps"] = map[string]any{"reason": "missingbuild"}
				e.AddReason("missingbuild")
			} else {
				hasUpToDate := len(src.Binaries) > 0
				hasCruft := len(report.Cruft) > 0
				if hasCruft && hasUpToDate && !f.ignoreCruft {
					e.PolicyInfo["build-deps"] = map[string]any{"reason": "cruft", "permanent": true}
					e.AddReason("cruft")
				}
			}
			for arch, cruft := range report.Cruft {
				for _, binID := range cruft {
					e.OldBinaries[arch] = append(e.OldBinaries[arch], binID)
				}
			}
			for _, binID := range src.Binaries {
				e.Packages[binID.Arch] = append(e.Packages[binID.Arch], binID)
			}

			if forced := f.hints.Search(hints.SearchQuery{Type: hints.TypeForce, Package: name, Version: e.SourceVersion, ActiveOnly: true}); len(forced) > 0 {
				e.Forced = true
			}

			all[e.UVName()] = e
		}
	}
}

// findPerArchMigration implements step 3: per-binary categorization when
// source versions on the target and source suite already match (so only
// binary rebuilds on individual architectures are candidates).
func (f *Finder) findPerArchMigration(suite *archive.Suite, src, targetSrc *archive.SourcePackage, all map[string]*Excuse, depSpecs map[string][]DependencySpec) {
	worthDoing := false
	e := NewExcuse(archive.MigrationItem{Package: src.Source, Version: src.Version, Architecture: archive.SourceArch, Suite: suite.Name}, suite.ExcusesSuffix())
	e.Source = src.Source
	e.SourceVersion = src.Version
	e.TargetVersion = targetSrc.Version
	e.Maintainer = src.Maintainer
	e.Section = src.Section

	for _, binID := range src.Binaries {
		if binID.Arch == "all" {
			continue
		}
		bin, ok := suite.GetBinary(binID.Arch, binID.Name)
		if !ok {
			continue
		}
		targetBin, inTarget := f.suites.Target.GetBinary(binID.Arch, binID.Name)

		switch {
		case bin.SourceVersion != src.Version && bin.SourceVersion == targetSrc.Version:
			e.Verdict = policy.VerdictRejectedPermanently
			e.AddReason("from wrong source")
		case targetSrc.Version != src.Version && bin.SourceVersion != src.Version:
			if !f.ignoreCruft {
				e.Verdict = policy.VerdictRejectedPermanently
				e.AddReason("cruft")
			}
		case !inTarget:
			worthDoing = true
		case core.CompareVersions(targetBin.Version, bin.Version) > 0:
			e.Verdict = policy.VerdictRejectedPermanently
			e.AddReason("downgrade")
		case core.CompareVersions(targetBin.Version, bin.Version) < 0:
			worthDoing = true
		}

		e.Packages[binID.Arch] = append(e.Packages[binID.Arch], binID)
	}

	f.computeSmoothUpdateRemovals(suite, src, targetSrc, e)

	if !worthDoing && len(e.Reasons) == 0 {
		return
	}
	all[e.UVName()] = e
}

// computeSmoothUpdateRemovals finds target binaries the new source no
// longer produces, applying the smooth-update exception (spec.md §4.5).
func (f *Finder) computeSmoothUpdateRemovals(suite *archive.Suite, src, targetSrc *archive.SourcePackage, e *Excuse) {
	produced := map[archive.PackageId]bool{}
	for _, binID := range src.Binaries {
		produced[binID.PackageId] = true
	}

	for _, oldBinID := range targetSrc.Binaries {
		if produced[oldBinID.PackageId] {
			continue
		}
		bin, ok := f.suites.Target.GetBinary(oldBinID.Arch, oldBinID.Name)
		if !ok {
			continue
		}
		if f.smoothUpdate != nil && f.smoothUpdate.IsSmoothUpdateable(bin, targetSrc.Version) && f.smoothUpdate.HasUnsatisfiedReverseDeps(bin) {
			e.AddReason("smooth-update-keeps: " + oldBinID.UVName())
			continue
		}
		e.OldBinaries[oldBinID.Arch] = append(e.OldBinaries[oldBinID.Arch], oldBinID)
	}
}

// findRemoveHints implements step 4: a remove hint not already covered
// by a removal or upgrade excuse produces its own removal excuse.
func (f *Finder) findRemoveHints(all map[string]*Excuse) {
	for _, h := range f.hints.Search(hints.SearchQuery{Type: hints.TypeRemove, ActiveOnly: true}) {
		for _, item := range h.Packages {
			src, ok := f.suites.Target.Sources[item.Package]
			if !ok {
				continue
			}
			key := item.Package
			if _, exists := all[key]; exists {
				continue
			}
			removal := archive.MigrationItem{Package: item.Package, Version: src.Version, Architecture: archive.SourceArch, IsRemoval: true}
			e := NewExcuse(removal, f.suites.PrimarySourceSuite().ExcusesSuffix())
			e.Source = item.Package
			e.TargetVersion = src.Version

			if blocked := f.hints.Search(hints.SearchQuery{Type: hints.TypeBlock, Package: item.Package, ActiveOnly: true}); len(blocked) > 0 {
				e.Verdict = policy.VerdictRejectedPermanently
				e.AddReason("block")
			} else {
				e.Verdict = policy.VerdictPass
			}
			all[e.UVName()] = e
		}
	}
}

// invalidateDependents implements step 6's topological invalidation:
// every excuse whose dependency on a non-candidate excuse is "important"
// has its verdict raised, unless it is Forced.
func (f *Finder) invalidateDependents(list []*Excuse) {
	byName := make(map[string]*Excuse, len(list))
	for _, e := range list {
		byName[e.UVName()] = e
	}

	changed := true
	for changed {
		changed = false
		for _, e := range list {
			if e.Forced {
				continue
			}
			for _, depName := range e.Dependencies {
				dep, ok := byName[depName]
				if !ok || dep.IsCandidate() {
					continue
				}
				want := policy.VerdictRejectedWaitingForAnotherItem
				if dep.Verdict == policy.VerdictRejectedPermanently || dep.Verdict == policy.VerdictRejectedNeedsApproval {
					want = policy.VerdictRejectedBlockedByAnotherItem
				}
				if policy.Max(e.Verdict, want) != e.Verdict {
					e.Verdict = policy.Max(e.Verdict, want)
					changed = true
				}
			}
		}
	}
}
