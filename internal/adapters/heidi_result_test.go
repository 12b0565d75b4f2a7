package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debarchive/britney/internal/archive"
)

func TestWriteHeidiResult_SortsAndSkipsFauxPackages(t *testing.T) {
	target := archive.NewSuite(archive.TargetSuiteClass, "testing", "")
	target.AddBinaryRecord(&archive.BinaryPackage{
		PkgID: archive.NewBinaryPackageId("zebra", "1", "amd64"), Version: "1", Architecture: "amd64", Section: "misc",
	})
	target.AddBinaryRecord(&archive.BinaryPackage{
		PkgID: archive.NewBinaryPackageId("apple", "1", "amd64"), Version: "1", Architecture: "amd64", Section: "misc",
	})
	target.AddBinaryRecord(&archive.BinaryPackage{
		PkgID: archive.NewBinaryPackageId("ghost", "1", "amd64"), Version: "1", Architecture: "amd64", Section: "misc",
	})
	target.Sources["mysrc"] = &archive.SourcePackage{Source: "mysrc", Version: "1", Section: "misc"}

	path := filepath.Join(t.TempDir(), "HeidiResult")
	adapter := NewHeidiFileAdapter()
	require.NoError(t, adapter.WriteHeidiResult(path, target, map[string]bool{"ghost": true}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "apple 1 amd64 misc\nmysrc 1 source misc\nzebra 1 amd64 misc\n", string(content))
}

func TestWriteHeidiDelta_MarksRemovalsWithMinus(t *testing.T) {
	items := []archive.MigrationItem{
		{Package: "green", Version: "2", Architecture: archive.SourceArch},
		{Package: "stale", Version: "1", Architecture: "amd64", IsRemoval: true},
	}

	path := filepath.Join(t.TempDir(), "HeidiDelta")
	adapter := NewHeidiFileAdapter()
	require.NoError(t, adapter.WriteHeidiDelta(path, items))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "green 2\n-stale 1 amd64\n", string(content))
}
