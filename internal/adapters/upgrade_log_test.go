package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debarchive/britney/internal/migration"
)

func TestAppendOutcomes_AppendsAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	adapter := NewUpgradeLogFileAdapter()

	require.NoError(t, adapter.AppendOutcomes(path, []migration.Outcome{
		{Verb: "trying", Item: "green/2"},
		{Verb: "accepted", Item: "green/2", Detail: "ok"},
	}))
	require.NoError(t, adapter.AppendOutcomes(path, []migration.Outcome{
		{Verb: "skipped", Item: "blue/3", Detail: "blocked"},
	}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	var nowCount int
	for _, l := range lines {
		if strings.HasPrefix(l, "now: ") {
			nowCount++
		}
	}
	assert.Equal(t, 2, nowCount)
	assert.Contains(t, string(content), "accepted: green/2 ok")
	assert.Contains(t, string(content), "skipped: blue/3 blocked")
}
