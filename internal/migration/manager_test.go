package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/excuses"
)

func newTestManager(t *testing.T) (*Manager, *archive.Suite, *archive.Suite, *core.InstallabilityTester) {
	t.Helper()
	target := archive.NewSuite(archive.TargetSuiteClass, "testing", "")
	unstable := archive.NewSuite(archive.PrimarySourceSuiteClass, "unstable", "")

	greenOld := &archive.BinaryPackage{
		PkgID: archive.NewBinaryPackageId("green", "1", "amd64"), Version: "1",
		Source: "green", SourceVersion: "1", Architecture: "amd64",
	}
	target.AddBinaryRecord(greenOld)

	greenNew := &archive.BinaryPackage{
		PkgID: archive.NewBinaryPackageId("green", "2", "amd64"), Version: "2",
		Source: "green", SourceVersion: "2", Architecture: "amd64",
	}
	unstable.AddBinaryRecord(greenNew)

	suites := archive.NewSuites(target, []*archive.Suite{unstable})
	universe := core.BuildUniverse(suites, "amd64")
	tester := core.NewInstallabilityTester(universe)
	tester.AddBinary(greenOld.PkgID)

	manager := NewManager(target, tester, map[string]*archive.Suite{"unstable": unstable}, nil, nil, nil)
	return manager, target, unstable, tester
}

func TestManager_ComputeGroup_ResolvesBinariesFromSourceSuite(t *testing.T) {
	manager, _, _, _ := newTestManager(t)

	e := excuses.NewExcuse(archive.MigrationItem{Package: "green", Version: "2", Architecture: archive.SourceArch, Suite: "unstable"}, "unstable")
	e.Packages["amd64"] = []archive.BinaryPackageId{archive.NewBinaryPackageId("green", "2", "amd64")}
	e.OldBinaries["amd64"] = []archive.BinaryPackageId{archive.NewBinaryPackageId("green", "1", "amd64")}

	group, err := manager.ComputeGroup(e)
	require.NoError(t, err)
	assert.Len(t, group.Updates, 1)
	assert.Equal(t, "2", group.Updates[0].Version)
	assert.Len(t, group.Removals, 1)
}

func TestManager_ComputeGroup_RejectsKeepInstallableViolation(t *testing.T) {
	target := archive.NewSuite(archive.TargetSuiteClass, "testing", "")
	unstable := archive.NewSuite(archive.PrimarySourceSuiteClass, "unstable", "")
	old := &archive.BinaryPackage{PkgID: archive.NewBinaryPackageId("green", "1", "amd64"), Version: "1", Source: "green", SourceVersion: "1", Architecture: "amd64"}
	target.AddBinaryRecord(old)
	suites := archive.NewSuites(target, []*archive.Suite{unstable})
	universe := core.BuildUniverse(suites, "amd64")
	tester := core.NewInstallabilityTester(universe)
	tester.AddBinary(old.PkgID)

	manager := NewManager(target, tester, map[string]*archive.Suite{"unstable": unstable}, nil, []string{"green"}, nil)

	e := excuses.NewExcuse(archive.MigrationItem{Package: "green", Version: "2", Architecture: archive.SourceArch, Suite: "unstable"}, "unstable")
	e.OldBinaries["amd64"] = []archive.BinaryPackageId{archive.NewBinaryPackageId("green", "1", "amd64")}

	_, err := manager.ComputeGroup(e)
	require.Error(t, err)
	var cerr *ConstraintError
	assert.ErrorAs(t, err, &cerr)
}

func TestManager_TryMigration_AcceptsNonRegressingGroup(t *testing.T) {
	manager, _, _, _ := newTestManager(t)
	baseline := Nuninst{"amd64": {}}

	group := &Group{
		Item:     archive.MigrationItem{Package: "green", Version: "2", Architecture: archive.SourceArch, Suite: "unstable"},
		Updates:  []*archive.BinaryPackage{{PkgID: archive.NewBinaryPackageId("green", "2", "amd64"), Version: "2", Source: "green", SourceVersion: "2", Architecture: "amd64"}},
		Removals: []archive.BinaryPackageId{archive.NewBinaryPackageId("green", "1", "amd64")},
	}

	acc, after := manager.TryMigration(group, baseline, []string{"amd64"}, nil)
	assert.True(t, acc.Accepted)
	assert.Empty(t, after["amd64"])
}

func TestManager_TryMigration_RejectsAndRollsBackOnRegression(t *testing.T) {
	target := archive.NewSuite(archive.TargetSuiteClass, "testing", "")
	unstable := archive.NewSuite(archive.PrimarySourceSuiteClass, "unstable", "")

	blue := &archive.BinaryPackage{PkgID: archive.NewBinaryPackageId("blue", "1", "amd64"), Version: "1", Source: "blue", SourceVersion: "1", Architecture: "amd64",
		Depends: []archive.DependencyClause{{Alternatives: []archive.DependencyLiteral{{Name: "libgreen1"}}}}}
	target.AddBinaryRecord(blue)
	lib := &archive.BinaryPackage{PkgID: archive.NewBinaryPackageId("libgreen1", "1", "amd64"), Version: "1", Source: "libgreen", SourceVersion: "1", Architecture: "amd64"}
	target.AddBinaryRecord(lib)

	suites := archive.NewSuites(target, []*archive.Suite{unstable})
	universe := core.BuildUniverse(suites, "amd64")
	tester := core.NewInstallabilityTester(universe)
	tester.AddBinary(blue.PkgID)
	tester.AddBinary(lib.PkgID)

	manager := NewManager(target, tester, map[string]*archive.Suite{"unstable": unstable}, nil, nil, nil)
	baseline := Nuninst{"amd64": {}}

	// a new libgreen upload drops libgreen1 entirely: blue would lose its
	// only provider of the dependency, a regression on a non-break arch.
	group := &Group{
		Item:     archive.MigrationItem{Package: "libgreen", Version: "2", Architecture: archive.SourceArch, Suite: "unstable"},
		Removals: []archive.BinaryPackageId{lib.PkgID},
	}

	acc, after := manager.TryMigration(group, baseline, []string{"amd64"}, nil)
	assert.False(t, acc.Accepted)
	assert.Equal(t, baseline, after)
	// rolled back: libgreen1 must still be resolvable in the target suite.
	_, ok := target.GetBinary("amd64", "libgreen1")
	assert.True(t, ok)
}
