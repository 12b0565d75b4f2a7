package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/debarchive/britney/internal/hints"
	"github.com/debarchive/britney/internal/ports"
)

// HintsFileAdapter loads Hints/<user> files from a directory, one file
// per user, in a deterministic (lexicographic by filename) order.
type HintsFileAdapter struct{}

func NewHintsFileAdapter() HintsFileAdapter {
	return HintsFileAdapter{}
}

var _ ports.HintLoaderPort = HintsFileAdapter{}

func (a HintsFileAdapter) LoadHintsDir(dir string, permissions map[string]hints.Permission, store *hints.HintStore) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("reading hints directory").WithCause(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("reading hint file " + name).WithCause(err)
		}
		perm, ok := permissions[name]
		if !ok {
			perm = hints.PermissionStandard
		}
		lines := strings.Split(string(content), "\n")
		store.Load(name, lines, name, perm)
	}
	return nil
}
