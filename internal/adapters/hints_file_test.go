package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debarchive/britney/internal/hints"
)

func TestLoadHintsDir_AssignsPerUserPermission(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "freeze"), []byte("block green\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "someuser"), []byte("unblock blue/1\n"), 0o644))

	store := hints.NewStore(zerolog.Nop())
	permissions := map[string]hints.Permission{"freeze": hints.PermissionAll}

	require.NoError(t, NewHintsFileAdapter().LoadHintsDir(dir, permissions, store))

	fromFreeze := store.Search(hints.SearchQuery{Package: "green"})
	require.Len(t, fromFreeze, 1)
	assert.Equal(t, "freeze", fromFreeze[0].User)

	fromSomeuser := store.Search(hints.SearchQuery{Package: "blue"})
	require.Len(t, fromSomeuser, 1)
	assert.Equal(t, "someuser", fromSomeuser[0].User)
}
