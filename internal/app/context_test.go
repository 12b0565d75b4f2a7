package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/config"
	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/hints"
)

func TestClosureCapOrDefault_FallsBackWhenUnset(t *testing.T) {
	assert.Equal(t, core.DefaultClosureCap, closureCapOrDefault(&config.Config{}))
	assert.Equal(t, 123, closureCapOrDefault(&config.Config{TesterClosureCap: 123}))
}

func TestNewWorld_SeedsTesterFromTargetBinaries(t *testing.T) {
	target := archive.NewSuite(archive.TargetSuiteClass, "testing", "")
	bin := &archive.BinaryPackage{PkgID: archive.NewBinaryPackageId("green", "1", "amd64"), Version: "1", Source: "green", SourceVersion: "1", Architecture: "amd64"}
	target.AddBinaryRecord(bin)
	unstable := archive.NewSuite(archive.PrimarySourceSuiteClass, "unstable", "")
	suites := archive.NewSuites(target, []*archive.Suite{unstable})

	cfg := &config.Config{Architectures: []string{"amd64"}}
	world := NewWorld(zerolog.Nop(), cfg, suites, hints.NewStore(zerolog.Nop()))

	assert.True(t, world.Tester.IsInstallable(bin.PkgID))
}
