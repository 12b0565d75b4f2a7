package ports

import "github.com/debarchive/britney/internal/policies"

// SourceVersion keys the per-source-and-version state files (Dates,
// Urgency) carry: a source's aging bookkeeping is only valid for the
// exact version it was recorded against.
type SourceVersion struct {
	Source  string
	Version string
}

// Constraints mirrors the "constraints" state file: the set of binary
// names that must never become uninstallable (spec.md §4.7's
// keep-installable clause), and any per-architecture allow-uninst
// exceptions recorded alongside it.
type Constraints struct {
	KeepInstallable []string
	AllowUninst     map[string]map[string]bool // arch -> name -> true
}

// StateFilesPort reads the small auxiliary state files spec.md §6 lists:
// BugsV, Dates, Urgency, Blocks, ExcuseBugs, piuparts-summary-*.json,
// constraints, faux-packages.
type StateFilesPort interface {
	// LoadDates reads the Dates file: the day each (source, version) pair
	// was first seen in its source suite, in days since the Unix epoch.
	LoadDates(path string) (map[SourceVersion]float64, error)

	// LoadUrgencies reads the Urgency file: the urgency keyword each
	// (source, version) pair was uploaded with, defaulting callers use
	// "low" when a pair is absent.
	LoadUrgencies(path string) (map[SourceVersion]string, error)

	// LoadBugs reads one BugsV-style file: bug numbers open against each
	// source package in one suite.
	LoadBugs(path string) (map[string][]int, error)

	// LoadBlocks reads the Blocks file: sources manually blocked from
	// migrating, keyed by source name, value is the free-text reason.
	LoadBlocks(path string) (map[string]string, error)

	// LoadExcuseBugs reads the ExcuseBugs file: the bulletin bug tracking
	// a manual block, keyed by source name.
	LoadExcuseBugs(path string) (map[string]int, error)

	// LoadPiupartsSummary reads a piuparts-summary-<suite>.json file into
	// source name -> piuparts test status.
	LoadPiupartsSummary(path string) (map[string]policies.PiupartsStatus, error)

	// LoadConstraints reads the constraints file.
	LoadConstraints(path string) (Constraints, error)

	// LoadFauxPackages reads the faux-packages file: binary names treated
	// as always-installable placeholders for dependencies with no real
	// provider in the archive (e.g. virtual hardware/firmware packages).
	LoadFauxPackages(path string) ([]string, error)
}
