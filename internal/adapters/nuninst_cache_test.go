package adapters

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debarchive/britney/internal/migration"
)

func TestNuninstCache_WriteThenReadRoundTrips(t *testing.T) {
	adapter := NewNuninstCacheFileAdapter()
	path := filepath.Join(t.TempDir(), "nuninst.cache")

	written := migration.Nuninst{"amd64": {"zebra", "apple"}, "i386": {"ghost"}}
	require.NoError(t, adapter.WriteNuninstCache(path, written))

	read, err := adapter.ReadNuninstCache(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "zebra"}, read["amd64"])
	assert.Equal(t, []string{"ghost"}, read["i386"])
}
