package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "britney.conf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_DecodesCoreFields(t *testing.T) {
	path := writeConfig(t, `
UNSTABLE = unstable
TESTING = testing
ARCHITECTURES = amd64 i386
AUTO_HINTER = false
`)
	cfg, err := Load(context.Background(), path, "bookworm")
	require.NoError(t, err)

	assert.Equal(t, "unstable", cfg.Unstable)
	assert.Equal(t, "testing", cfg.Testing)
	assert.Equal(t, []string{"amd64", "i386"}, cfg.Architectures)
	assert.False(t, cfg.AutoHinterEnabled)
	assert.Equal(t, defaultTesterClosureCap, cfg.TesterClosureCap)
}

func TestLoad_SubstitutesSeriesPlaceholder(t *testing.T) {
	path := writeConfig(t, `
UNSTABLE = unstable
TESTING = %(SERIES)
STATE_DIR = /srv/britney/%(SERIES)/state
`)
	cfg, err := Load(context.Background(), path, "trixie")
	require.NoError(t, err)

	assert.Equal(t, "trixie", cfg.Testing)
	assert.Equal(t, "/srv/britney/trixie/state", cfg.StateDir)
}

func TestLoad_DecodesMinDaysAndHintPermissionFamilies(t *testing.T) {
	path := writeConfig(t, `
UNSTABLE = unstable
TESTING = testing
MINDAYS_LOW = 10
MINDAYS_MEDIUM = 5
HINTS_FREEZE = unblock age-days
`)
	cfg, err := Load(context.Background(), path, "bookworm")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MinDaysByUrgency["low"])
	assert.Equal(t, 5, cfg.MinDaysByUrgency["medium"])
	assert.Equal(t, "unblock age-days", cfg.HintPermissions["freeze"])
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.conf"), "bookworm")
	assert.Error(t, err)
}
