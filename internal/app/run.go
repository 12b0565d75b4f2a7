package app

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/config"
	"github.com/debarchive/britney/internal/excuses"
	"github.com/debarchive/britney/internal/hints"
	"github.com/debarchive/britney/internal/migration"
	"github.com/debarchive/britney/internal/policies"
	"github.com/debarchive/britney/internal/policy"
	"github.com/debarchive/britney/internal/ports"
)

// RunOptions is one invocation's worth of CLI-level choices layered over
// the archive config (spec.md §6 CLI flags).
type RunOptions struct {
	SeriesDir         string
	ConfigPath        string
	Series            string
	HintsDir          string
	OutputDir         string
	DryRun            bool
	ComputeMigrations bool
	NuninstCachePath  string
	PrintUninst       bool

	// ArchitecturesOverride, when non-empty, replaces the config's
	// ARCHITECTURES list for this run (--architectures).
	ArchitecturesOverride []string

	// HintTesterLines, when non-empty, are parsed as additional hint
	// directives (--hint-tester) under HintTesterUser/HintTesterPermission,
	// loaded ahead of the main pass alongside any --hints directory.
	HintTesterLines      []string
	HintTesterUser       string
	HintTesterPermission hints.Permission
}

// RunReport summarizes one pass for the CLI to print and exit on.
type RunReport struct {
	Accepted []string
	Nuninst  migration.Nuninst
}

// Run loads every input, runs the main migration pass plus hint and
// auto-hinter passes, and writes every output (spec.md §4.7 "do_all",
// §6 Inputs/Outputs).
func (s Service) Run(ctx context.Context, log zerolog.Logger, opts RunOptions) (RunReport, error) {
	cfg, err := config.Load(ctx, opts.ConfigPath, opts.Series)
	if err != nil {
		return RunReport{}, err
	}
	if len(opts.ArchitecturesOverride) > 0 {
		cfg.Architectures = opts.ArchitecturesOverride
	}

	suites, err := s.loadSuites(cfg, opts.SeriesDir)
	if err != nil {
		return RunReport{}, err
	}

	store := hints.NewStore(log)
	if opts.HintsDir != "" {
		permissions := decodeHintPermissions(cfg.HintPermissions)
		if err := s.HintLoader.LoadHintsDir(opts.HintsDir, permissions, store); err != nil {
			return RunReport{}, err
		}
	}
	if len(opts.HintTesterLines) > 0 {
		store.Load("hint-tester", opts.HintTesterLines, opts.HintTesterUser, opts.HintTesterPermission)
	}

	state, err := s.loadState(cfg, opts.SeriesDir)
	if err != nil {
		return RunReport{}, err
	}

	world := NewWorld(log, cfg, suites, store)

	smoothUpdater := migration.NewSmoothUpdater(world.Universe, suites.Target, store, cfg.SmoothUpdates)
	engine := policy.NewEngine(log, builtinPolicies(cfg, world, state)...)

	finder := excuses.NewFinder(log, suites, store, engine, cfg.Architectures, cfg.OutOfSyncArches, cfg.IgnoreCruft, smoothUpdater).
		WithAgeSource(ageSource(state)).
		WithBugsSource(bugsSource(state))

	actionable, all := finder.Run(ctx)

	if !opts.ComputeMigrations {
		excusesOnly := RunReport{Nuninst: migration.Compute(world.Tester, suites.Target)}
		if opts.DryRun {
			return excusesOnly, nil
		}
		return excusesOnly, s.writeReports(opts, world, state, all, nil, nil)
	}

	manager := migration.NewManager(suites.Target, world.Tester, sourceSuiteIndex(suites), smoothUpdater, state.Constraints.KeepInstallable, state.Constraints.AllowUninst)
	driver := migration.NewDriver(log, manager, store, cfg.Architectures, cfg.BreakArches)

	baseline := migration.Compute(world.Tester, suites.Target)
	mainResult := driver.RunMain(actionable, baseline)

	report := RunReport{Accepted: mainResult.Accepted, Nuninst: mainResult.Nuninst}
	outcomes := mainResult.Log

	notMigrated := excusesByUVName(all, mainResult.Accepted)
	current := mainResult.Nuninst

	for _, hintType := range []hints.Type{hints.TypeForceHint, hints.TypeHint, hints.TypeEasy} {
		items := hintedExcuses(store, hintType, notMigrated)
		if len(items) == 0 {
			continue
		}
		result, ok := driver.RunHint(hintType, items, current)
		if !ok {
			continue
		}
		current = result.Nuninst
		report.Accepted = append(report.Accepted, result.Accepted...)
		outcomes = append(outcomes, result.Log...)
		notMigrated = removeAccepted(notMigrated, result.Accepted)
	}

	if cfg.AutoHinterEnabled {
		autoHinter := migration.NewAutoHinter(driver)
		sets := autoHinter.Propose(remainingExcuses(notMigrated))
		var accepted []string
		current, accepted = autoHinter.Run(sets, current)
		report.Accepted = append(report.Accepted, accepted...)
	}

	report.Nuninst = current

	if opts.DryRun {
		return report, nil
	}
	return report, s.writeReports(opts, world, state, all, report.Accepted, outcomes)
}

func (s Service) loadSuites(cfg *config.Config, seriesDir string) (*archive.Suites, error) {
	target, err := s.SuiteLoader.LoadSuite(archive.TargetSuiteClass, seriesDir, cfg.Testing, "testing", cfg.Architectures)
	if err != nil {
		return nil, err
	}
	unstable, err := s.SuiteLoader.LoadSuite(archive.PrimarySourceSuiteClass, seriesDir, cfg.Unstable, "unstable", cfg.Architectures)
	if err != nil {
		return nil, err
	}
	sourceSuites := []*archive.Suite{unstable}

	for shortName, name := range map[string]string{"pu": cfg.PU, "tpu": cfg.TPU} {
		if name == "" {
			continue
		}
		extra, err := s.SuiteLoader.LoadSuite(archive.AdditionalSourceSuiteClass, seriesDir, name, shortName, cfg.Architectures)
		if err != nil {
			return nil, err
		}
		sourceSuites = append(sourceSuites, extra)
	}

	return archive.NewSuites(target, sourceSuites), nil
}

// loadedState bundles every auxiliary state file a run needs, keyed the
// way internal/ports.StateFilesPort returns them.
type loadedState struct {
	Dates        map[ports.SourceVersion]float64
	Urgencies    map[ports.SourceVersion]string
	Bugs         map[string][]int
	Blocks       map[string]string
	ExcuseBugs   map[string]int
	Piuparts     map[string]policies.PiupartsStatus
	Constraints  ports.Constraints
	FauxPackages map[string]bool
}

func (s Service) loadState(cfg *config.Config, seriesDir string) (loadedState, error) {
	dates, err := s.StateFiles.LoadDates(filepath.Join(seriesDir, "Dates"))
	if err != nil {
		return loadedState{}, err
	}
	urgencies, err := s.StateFiles.LoadUrgencies(filepath.Join(seriesDir, "Urgency"))
	if err != nil {
		return loadedState{}, err
	}
	bugs, err := s.StateFiles.LoadBugs(filepath.Join(seriesDir, "BugsV"))
	if err != nil {
		return loadedState{}, err
	}
	blocks, err := s.StateFiles.LoadBlocks(filepath.Join(seriesDir, "Blocks"))
	if err != nil {
		return loadedState{}, err
	}
	excuseBugs, err := s.StateFiles.LoadExcuseBugs(filepath.Join(seriesDir, "ExcuseBugs"))
	if err != nil {
		return loadedState{}, err
	}
	piuparts, err := s.StateFiles.LoadPiupartsSummary(filepath.Join(seriesDir, "piuparts-summary-"+cfg.Unstable+".json"))
	if err != nil {
		return loadedState{}, err
	}
	constraints, err := s.StateFiles.LoadConstraints(filepath.Join(seriesDir, "constraints"))
	if err != nil {
		return loadedState{}, err
	}
	fauxNames, err := s.StateFiles.LoadFauxPackages(filepath.Join(seriesDir, "faux-packages"))
	if err != nil {
		return loadedState{}, err
	}
	faux := make(map[string]bool, len(fauxNames))
	for _, name := range fauxNames {
		faux[name] = true
	}

	return loadedState{
		Dates:        dates,
		Urgencies:    urgencies,
		Bugs:         bugs,
		Blocks:       blocks,
		ExcuseBugs:   excuseBugs,
		Piuparts:     piuparts,
		Constraints:  constraints,
		FauxPackages: faux,
	}, nil
}

func builtinPolicies(cfg *config.Config, world *World, state loadedState) []policy.Policy {
	urgencyOf := func(source, version string) string {
		if u, ok := state.Urgencies[ports.SourceVersion{Source: source, Version: version}]; ok {
			return u
		}
		return "low"
	}
	statusOf := func(source, version string) policies.PiupartsStatus {
		if st, ok := state.Piuparts[source]; ok {
			return st
		}
		return policies.PiupartsUnknown
	}
	reverseDepsOf := func(source, arch string) []archive.BinaryPackageId {
		return reverseDependentsInTarget(world, source, arch)
	}

	return []policy.Policy{
		policies.NewAgePolicy(cfg.MinDaysByUrgency, defaultMinDays(cfg), urgencyOf),
		policies.NewRCBugsPolicy(),
		policies.NewBuildDepsPolicy(),
		policies.NewDependsPolicy(world.Tester, reverseDepsOf),
		policies.NewPiupartsPolicy(statusOf),
		policies.NewBlockPolicy(state.ExcuseBugs),
	}
}

func defaultMinDays(cfg *config.Config) int {
	if n, ok := cfg.MinDaysByUrgency["low"]; ok {
		return n
	}
	return 10
}

// reverseDependentsInTarget returns every binary currently in the target
// suite on arch that depends (directly, per the universe's resolved
// clauses) on a binary produced by source on arch.
func reverseDependentsInTarget(world *World, source, arch string) []archive.BinaryPackageId {
	var out []archive.BinaryPackageId
	srcPkg, ok := world.Suites.Target.Sources[source]
	if !ok {
		return nil
	}
	for _, pkgID := range srcPkg.Binaries {
		if pkgID.Arch != arch {
			continue
		}
		id, ok := world.Universe.ID(pkgID)
		if !ok {
			continue
		}
		for _, rid := range world.Universe.ReverseDependents(id) {
			rdep := world.Universe.PackageAt(rid)
			if world.Suites.Target.IsPkgInTheSuite(rdep) {
				out = append(out, rdep)
			}
		}
	}
	return out
}

func ageSource(state loadedState) func(source, version string) float64 {
	return func(source, version string) float64 {
		if days, ok := state.Dates[ports.SourceVersion{Source: source, Version: version}]; ok {
			return days
		}
		return 0
	}
}

func bugsSource(state loadedState) func(source string) (added, removed []int) {
	return func(source string) ([]int, []int) {
		return state.Bugs[source], nil
	}
}

func sourceSuiteIndex(suites *archive.Suites) map[string]*archive.Suite {
	out := make(map[string]*archive.Suite, len(suites.SourceSuites))
	for _, suite := range suites.SourceSuites {
		out[suite.ShortName] = suite
		out[suite.Name] = suite
	}
	return out
}

func decodeHintPermissions(raw map[string]string) map[string]hints.Permission {
	out := make(map[string]hints.Permission, len(raw))
	for user, perm := range raw {
		out[user] = hints.Permission(perm)
	}
	return out
}

func excusesByUVName(all map[string]*excuses.Excuse, accepted []string) []*excuses.Excuse {
	acceptedSet := make(map[string]bool, len(accepted))
	for _, name := range accepted {
		acceptedSet[name] = true
	}
	var out []*excuses.Excuse
	for name, e := range all {
		if acceptedSet[name] || !e.IsCandidate() {
			continue
		}
		out = append(out, e)
	}
	return out
}

func hintedExcuses(store *hints.HintStore, hintType hints.Type, pool []*excuses.Excuse) []*excuses.Excuse {
	byName := make(map[string]*excuses.Excuse, len(pool))
	for _, e := range pool {
		byName[e.Source] = e
	}
	var out []*excuses.Excuse
	for _, h := range store.Search(hints.SearchQuery{Type: hintType, ActiveOnly: true}) {
		for _, item := range h.Packages {
			if e, ok := byName[item.Package]; ok {
				out = append(out, e)
			}
		}
	}
	return out
}

func remainingExcuses(pool []*excuses.Excuse) []*excuses.Excuse {
	return pool
}

func removeAccepted(pool []*excuses.Excuse, accepted []string) []*excuses.Excuse {
	acceptedSet := make(map[string]bool, len(accepted))
	for _, name := range accepted {
		acceptedSet[name] = true
	}
	out := pool[:0:0]
	for _, e := range pool {
		if !acceptedSet[e.UVName()] {
			out = append(out, e)
		}
	}
	return out
}

func (s Service) writeReports(opts RunOptions, world *World, state loadedState, all map[string]*excuses.Excuse, accepted []string, outcomes []migration.Outcome) error {
	if opts.OutputDir == "" {
		return nil
	}

	list := make([]*excuses.Excuse, 0, len(all))
	for _, e := range all {
		list = append(list, e)
	}
	excusesAdapter := s.ExcusesYAML(world.Hints)
	if err := excusesAdapter.WriteExcusesYAML(filepath.Join(opts.OutputDir, "excuses.yaml"), list); err != nil {
		return err
	}

	if err := s.Heidi.WriteHeidiResult(filepath.Join(opts.OutputDir, "HeidiResult"), world.Suites.Target, state.FauxPackages); err != nil {
		return err
	}

	if len(accepted) > 0 {
		items := migrationItemsFor(all, accepted)
		if err := s.Heidi.WriteHeidiDelta(filepath.Join(opts.OutputDir, "HeidiDelta"), items); err != nil {
			return err
		}
	}

	if opts.NuninstCachePath != "" {
		if err := s.NuninstCache.WriteNuninstCache(opts.NuninstCachePath, migration.Compute(world.Tester, world.Suites.Target)); err != nil {
			return err
		}
	}

	if len(outcomes) > 0 {
		if err := s.UpgradeLog.AppendOutcomes(filepath.Join(opts.OutputDir, "output.txt"), outcomes); err != nil {
			return err
		}
	}
	return nil
}

func migrationItemsFor(all map[string]*excuses.Excuse, accepted []string) []archive.MigrationItem {
	items := make([]archive.MigrationItem, 0, len(accepted))
	for _, name := range accepted {
		if e, ok := all[name]; ok {
			items = append(items, e.Item)
		}
	}
	return items
}
