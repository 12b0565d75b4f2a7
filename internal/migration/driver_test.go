package migration

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/excuses"
	"github.com/debarchive/britney/internal/hints"
)

func newTestDriver(t *testing.T) (*Driver, *excuses.Excuse, Nuninst) {
	t.Helper()
	target := archive.NewSuite(archive.TargetSuiteClass, "testing", "")
	unstable := archive.NewSuite(archive.PrimarySourceSuiteClass, "unstable", "")

	greenOld := &archive.BinaryPackage{PkgID: archive.NewBinaryPackageId("green", "1", "amd64"), Version: "1", Source: "green", SourceVersion: "1", Architecture: "amd64"}
	target.AddBinaryRecord(greenOld)
	greenNew := &archive.BinaryPackage{PkgID: archive.NewBinaryPackageId("green", "2", "amd64"), Version: "2", Source: "green", SourceVersion: "2", Architecture: "amd64"}
	unstable.AddBinaryRecord(greenNew)

	suites := archive.NewSuites(target, []*archive.Suite{unstable})
	universe := core.BuildUniverse(suites, "amd64")
	tester := core.NewInstallabilityTester(universe)
	tester.AddBinary(greenOld.PkgID)

	manager := NewManager(target, tester, map[string]*archive.Suite{"unstable": unstable}, nil, nil, nil)
	store := hints.NewStore(zerolog.Nop())
	driver := NewDriver(zerolog.Nop(), manager, store, []string{"amd64"}, nil)

	e := excuses.NewExcuse(archive.MigrationItem{Package: "green", Version: "2", Architecture: archive.SourceArch, Suite: "unstable"}, "")
	e.Packages["amd64"] = []archive.BinaryPackageId{greenNew.PkgID}
	e.OldBinaries["amd64"] = []archive.BinaryPackageId{greenOld.PkgID}

	return driver, e, Nuninst{"amd64": {}}
}

func TestDriver_RunMain_AlwaysAccepts(t *testing.T) {
	driver, e, baseline := newTestDriver(t)
	result := driver.RunMain([]*excuses.Excuse{e}, baseline)
	assert.Equal(t, []string{"green"}, result.Accepted)
}

func TestDriver_RunHint_ForceHintAcceptsUnconditionally(t *testing.T) {
	driver, e, baseline := newTestDriver(t)
	result, ok := driver.RunHint(hints.TypeForceHint, []*excuses.Excuse{e}, baseline)
	assert.True(t, ok)
	assert.Equal(t, []string{"green"}, result.Accepted)
}

func TestDriver_RunHint_EasyAcceptsOnlyIfAsGood(t *testing.T) {
	driver, e, baseline := newTestDriver(t)
	result, ok := driver.RunHint(hints.TypeEasy, []*excuses.Excuse{e}, baseline)
	assert.True(t, ok)
	assert.Equal(t, []string{"green"}, result.Accepted)
}
