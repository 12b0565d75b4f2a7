package excuses

import (
	"fmt"

	"github.com/debarchive/britney/internal/archive"
)

// buildState describes, for one architecture, whether the source's
// current version has an up-to-date non-arch:all build there, and what
// older (cruft) builds remain.
type buildState struct {
	UpToDate bool
	Cruft    []archive.BinaryPackageId
}

// outOfDateReport is the result of checking a source's builds across
// {archs..., "all"}, mirroring should_upgrade_src's per-arch loop
// (spec.md §4.4 item 2).
type outOfDateReport struct {
	MissingBuilds    []string // archs with no up-to-date build
	Cruft            map[string][]archive.BinaryPackageId
	OutOfSyncSkipped []string
}

// checkOutOfDate walks archs (plus "all") looking for the source's builds
// in suite, classifying each arch's state.
func checkOutOfDate(suite *archive.Suite, source *archive.SourcePackage, archs, outOfSyncArches []string) outOfDateReport {
	report := outOfDateReport{Cruft: map[string][]archive.BinaryPackageId{}}
	outOfSync := toSet(outOfSyncArches)

	allArchs := append(append([]string{}, archs...), "all")
	for _, arch := range allArchs {
		if arch != "all" && outOfSync[arch] {
			report.OutOfSyncSkipped = append(report.OutOfSyncSkipped, arch)
			continue
		}
		state := buildStateForArch(suite, source, arch)
		if !state.UpToDate && arch != "all" {
			report.MissingBuilds = append(report.MissingBuilds, arch)
		}
		if len(state.Cruft) > 0 {
			report.Cruft[arch] = state.Cruft
		}
	}
	return report
}

func buildStateForArch(suite *archive.Suite, source *archive.SourcePackage, arch string) buildState {
	state := buildState{}
	for _, binID := range source.Binaries {
		if binID.Arch != arch {
			continue
		}
		bin, ok := suite.GetBinary(binID.Arch, binID.Name)
		if !ok {
			continue
		}
		if bin.SourceVersion == source.Version {
			state.UpToDate = true
		} else {
			state.Cruft = append(state.Cruft, binID)
		}
	}
	return state
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, item := range items {
		out[item] = true
	}
	return out
}

func missingBuildReason(archs []string) string {
	return fmt.Sprintf("missingbuild: %v", archs)
}
