// Package app wires the core components (C1-C8) behind a Service and
// threads an explicit World context through every run, instead of global
// mutable state (spec.md §9 design note).
package app

import (
	"github.com/rs/zerolog"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/config"
	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/hints"
)

// World holds every piece of state one run operates over: the loaded
// suites, the package universe and installability tester built from them,
// the hint store, the parsed archive config, and the logger every
// component downstream is constructed with.
type World struct {
	Suites   *archive.Suites
	Universe *core.PackageUniverse
	Tester   *core.InstallabilityTester
	Hints    *hints.HintStore
	Config   *config.Config
	Log      zerolog.Logger
}

// NewWorld builds the universe and tester from suites, seeds the tester
// with the target suite's current binaries, and loads hints from store.
func NewWorld(log zerolog.Logger, cfg *config.Config, suites *archive.Suites, store *hints.HintStore) *World {
	nativeArch := ""
	if len(cfg.Architectures) > 0 {
		nativeArch = cfg.Architectures[0]
	}
	universe := core.BuildUniverse(suites, nativeArch)
	tester := core.NewInstallabilityTester(universe).WithClosureCap(closureCapOrDefault(cfg))

	for _, bin := range suites.Target.AllBinariesInSuite() {
		tester.AddBinary(bin.PkgID)
	}

	return &World{
		Suites:   suites,
		Universe: universe,
		Tester:   tester,
		Hints:    store,
		Config:   cfg,
		Log:      log,
	}
}

func closureCapOrDefault(cfg *config.Config) int {
	if cfg.TesterClosureCap > 0 {
		return cfg.TesterClosureCap
	}
	return core.DefaultClosureCap
}
