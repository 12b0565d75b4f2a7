package migration

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/excuses"
)

func TestIterPackages_AcceptsIndependentNonRegressingCandidates(t *testing.T) {
	target := archive.NewSuite(archive.TargetSuiteClass, "testing", "")
	unstable := archive.NewSuite(archive.PrimarySourceSuiteClass, "unstable", "")

	greenOld := &archive.BinaryPackage{PkgID: archive.NewBinaryPackageId("green", "1", "amd64"), Version: "1", Source: "green", SourceVersion: "1", Architecture: "amd64"}
	target.AddBinaryRecord(greenOld)
	redOld := &archive.BinaryPackage{PkgID: archive.NewBinaryPackageId("red", "1", "amd64"), Version: "1", Source: "red", SourceVersion: "1", Architecture: "amd64"}
	target.AddBinaryRecord(redOld)

	greenNew := &archive.BinaryPackage{PkgID: archive.NewBinaryPackageId("green", "2", "amd64"), Version: "2", Source: "green", SourceVersion: "2", Architecture: "amd64"}
	unstable.AddBinaryRecord(greenNew)
	redNew := &archive.BinaryPackage{PkgID: archive.NewBinaryPackageId("red", "2", "amd64"), Version: "2", Source: "red", SourceVersion: "2", Architecture: "amd64"}
	unstable.AddBinaryRecord(redNew)

	suites := archive.NewSuites(target, []*archive.Suite{unstable})
	universe := core.BuildUniverse(suites, "amd64")
	tester := core.NewInstallabilityTester(universe)
	tester.AddBinary(greenOld.PkgID)
	tester.AddBinary(redOld.PkgID)

	manager := NewManager(target, tester, map[string]*archive.Suite{"unstable": unstable}, nil, nil, nil)

	greenExcuse := excuses.NewExcuse(archive.MigrationItem{Package: "green", Version: "2", Architecture: archive.SourceArch, Suite: "unstable"}, "")
	greenExcuse.Packages["amd64"] = []archive.BinaryPackageId{greenNew.PkgID}
	greenExcuse.OldBinaries["amd64"] = []archive.BinaryPackageId{greenOld.PkgID}

	redExcuse := excuses.NewExcuse(archive.MigrationItem{Package: "red", Version: "2", Architecture: archive.SourceArch, Suite: "unstable"}, "")
	redExcuse.Packages["amd64"] = []archive.BinaryPackageId{redNew.PkgID}
	redExcuse.OldBinaries["amd64"] = []archive.BinaryPackageId{redOld.PkgID}

	baseline := Nuninst{"amd64": {}}
	result := IterPackages(zerolog.Nop(), manager, []*excuses.Excuse{greenExcuse, redExcuse}, baseline, []string{"amd64"}, nil)

	assert.ElementsMatch(t, []string{"green", "red"}, result.Selected)
	assert.Empty(t, result.NeverMigrated)
}

func TestIterPackages_SkipsConstraintViolationsWithoutPanicking(t *testing.T) {
	target := archive.NewSuite(archive.TargetSuiteClass, "testing", "")
	suites := archive.NewSuites(target, []*archive.Suite{archive.NewSuite(archive.PrimarySourceSuiteClass, "unstable", "")})
	universe := core.BuildUniverse(suites, "amd64")
	tester := core.NewInstallabilityTester(universe)
	manager := NewManager(target, tester, map[string]*archive.Suite{}, nil, nil, nil)

	e := excuses.NewExcuse(archive.MigrationItem{Package: "ghost", Version: "1", Architecture: archive.SourceArch, Suite: "unstable-unknown"}, "unstable-unknown")

	baseline := Nuninst{"amd64": {}}
	result := IterPackages(zerolog.Nop(), manager, []*excuses.Excuse{e}, baseline, []string{"amd64"}, nil)

	require.Empty(t, result.Selected)
	assert.Contains(t, result.NeverMigrated, "ghost/unstable-unknown")
}

func TestSortWorklist_OrdersByCrossUpdatesThenUVName(t *testing.T) {
	small := workItem{excuse: excuses.NewExcuse(archive.MigrationItem{Package: "zzz"}, ""), crossUpdates: 1}
	big := workItem{excuse: excuses.NewExcuse(archive.MigrationItem{Package: "aaa"}, ""), crossUpdates: 3}
	tie1 := workItem{excuse: excuses.NewExcuse(archive.MigrationItem{Package: "bbb"}, ""), crossUpdates: 1}

	items := []workItem{big, tie1, small}
	sortWorklist(items)

	assert.Equal(t, "aaa", items[2].excuse.UVName())
	assert.Equal(t, []string{"bbb", "zzz"}, []string{items[0].excuse.UVName(), items[1].excuse.UVName()})
}
