package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debarchive/britney/internal/policies"
	"github.com/debarchive/britney/internal/ports"
)

func writeStateFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDates_SkipsCommentsAndBlankLines(t *testing.T) {
	path := writeStateFile(t, "# comment\n\ngreen 2 18262.5\nblue 1 18200\n")
	out, err := NewStateFilesAdapter().LoadDates(path)
	require.NoError(t, err)
	assert.Equal(t, 18262.5, out[ports.SourceVersion{Source: "green", Version: "2"}])
	assert.Equal(t, 18200.0, out[ports.SourceVersion{Source: "blue", Version: "1"}])
}

func TestLoadUrgencies(t *testing.T) {
	path := writeStateFile(t, "green 2 medium\n")
	out, err := NewStateFilesAdapter().LoadUrgencies(path)
	require.NoError(t, err)
	assert.Equal(t, "medium", out[ports.SourceVersion{Source: "green", Version: "2"}])
}

func TestLoadBugs_GroupsByPackage(t *testing.T) {
	path := writeStateFile(t, "123456 green\n654321 green\n111 blue\n")
	out, err := NewStateFilesAdapter().LoadBugs(path)
	require.NoError(t, err)
	assert.Equal(t, []int{123456, 654321}, out["green"])
	assert.Equal(t, []int{111}, out["blue"])
}

func TestLoadBlocks_JoinsReasonWords(t *testing.T) {
	path := writeStateFile(t, "green waiting on review\n")
	out, err := NewStateFilesAdapter().LoadBlocks(path)
	require.NoError(t, err)
	assert.Equal(t, "waiting on review", out["green"])
}

func TestLoadExcuseBugs(t *testing.T) {
	path := writeStateFile(t, "green 999888\n")
	out, err := NewStateFilesAdapter().LoadExcuseBugs(path)
	require.NoError(t, err)
	assert.Equal(t, 999888, out["green"])
}

func TestLoadFauxPackages(t *testing.T) {
	path := writeStateFile(t, "faux-one\nfaux-two\n")
	out, err := NewStateFilesAdapter().LoadFauxPackages(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"faux-one", "faux-two"}, out)
}

func TestLoadPiupartsSummary_MapsStatusStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piuparts-summary-unstable.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"green": "pass", "blue": "FAIL", "red": "unknown"}`), 0o644))

	out, err := NewStateFilesAdapter().LoadPiupartsSummary(path)
	require.NoError(t, err)
	assert.Equal(t, policies.PiupartsPass, out["green"])
	assert.Equal(t, policies.PiupartsFail, out["blue"])
	assert.Equal(t, policies.PiupartsUnknown, out["red"])
}

func TestLoadConstraints_DecodesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constraints")
	require.NoError(t, os.WriteFile(path, []byte(`
keep-installable:
  - green
allow-uninst:
  amd64:
    - legacy-pkg
`), 0o644))

	out, err := NewStateFilesAdapter().LoadConstraints(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"green"}, out.KeepInstallable)
	assert.True(t, out.AllowUninst["amd64"]["legacy-pkg"])
}
