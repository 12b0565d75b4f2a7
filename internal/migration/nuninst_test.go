package migration

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
)

func TestCompute_OnlyListsUninstallable(t *testing.T) {
	target := archive.NewSuite(archive.TargetSuiteClass, "testing", "")
	green := &archive.BinaryPackage{
		PkgID: archive.NewBinaryPackageId("green", "1", "amd64"), Version: "1", Source: "green", SourceVersion: "1", Architecture: "amd64",
		Depends: []archive.DependencyClause{{Alternatives: []archive.DependencyLiteral{{Name: "missing"}}}},
	}
	target.AddBinaryRecord(green)
	suites := archive.NewSuites(target, []*archive.Suite{archive.NewSuite(archive.PrimarySourceSuiteClass, "unstable", "")})
	universe := core.BuildUniverse(suites, "amd64")
	tester := core.NewInstallabilityTester(universe)
	tester.AddBinary(green.PkgID)

	n := Compute(tester, target)
	assert.Contains(t, n["amd64"], "green")
}

func TestNuninst_IsAsGood(t *testing.T) {
	before := Nuninst{"amd64": {"a", "b"}}
	same := Nuninst{"amd64": {"a", "b"}}
	worse := Nuninst{"amd64": {"a", "b", "c"}}
	better := Nuninst{"amd64": {"a"}}

	assert.True(t, before.IsAsGood(same, []string{"amd64"}))
	assert.False(t, before.IsAsGood(worse, []string{"amd64"}))
	assert.True(t, before.IsAsGood(better, []string{"amd64"}))
}

func TestNuninst_IsAsGoodGenerous_IgnoresBreakArches(t *testing.T) {
	before := Nuninst{"amd64": {"a"}, "i386": {"a"}}
	worseOnBreakArch := Nuninst{"amd64": {"a", "b", "c"}, "i386": {"a"}}

	assert.True(t, before.IsAsGoodGenerous(worseOnBreakArch, []string{"amd64", "i386"}, []string{"amd64"}))
}

func TestNuninst_Diff(t *testing.T) {
	before := Nuninst{"amd64": {"a"}}
	after := Nuninst{"amd64": {"a", "b"}}
	assert.Equal(t, []string{"b"}, before.Diff(after, "amd64"))
}

// TestCompute_OrderInvariant asserts the per-arch uninstallable sets
// Compute returns don't depend on the target suite's binary iteration
// order, only on membership — assert's reflect-based equality would fail
// on a reordered-but-equal slice, so this compares with go-cmp ignoring
// element order.
func TestCompute_OrderInvariant(t *testing.T) {
	buildSuite := func(order []string) *archive.Suite {
		target := archive.NewSuite(archive.TargetSuiteClass, "testing", "")
		for _, name := range order {
			target.AddBinaryRecord(&archive.BinaryPackage{
				PkgID: archive.NewBinaryPackageId(name, "1", "amd64"), Version: "1", Source: name, SourceVersion: "1", Architecture: "amd64",
				Depends: []archive.DependencyClause{{Alternatives: []archive.DependencyLiteral{{Name: "missing"}}}},
			})
		}
		return target
	}

	forward := buildSuite([]string{"a", "b", "c"})
	reversed := buildSuite([]string{"c", "b", "a"})

	computeFor := func(target *archive.Suite) Nuninst {
		suites := archive.NewSuites(target, []*archive.Suite{archive.NewSuite(archive.PrimarySourceSuiteClass, "unstable", "")})
		universe := core.BuildUniverse(suites, "amd64")
		tester := core.NewInstallabilityTester(universe)
		for _, bin := range target.AllBinariesInSuite() {
			tester.AddBinary(bin.PkgID)
		}
		return Compute(tester, target)
	}

	diff := cmp.Diff(computeFor(forward), computeFor(reversed), cmpopts.SortSlices(func(a, b string) bool { return a < b }))
	assert.Empty(t, diff)
}
