package adapters

import (
	"fmt"

	"github.com/debarchive/britney/internal/archive"
)

// WriteHeidiDelta writes the per-run acceptance delta: one line per
// migrated item, removals prefixed with "-" (spec.md §6).
func (a HeidiFileAdapter) WriteHeidiDelta(path string, accepted []archive.MigrationItem) error {
	lines := make([]string, 0, len(accepted))
	for _, item := range accepted {
		entry := fmt.Sprintf("%s %s", item.Package, item.Version)
		if item.Architecture != "" && item.Architecture != archive.SourceArch {
			entry += " " + item.Architecture
		}
		if item.IsRemoval || item.IsCruftRemoval {
			entry = "-" + entry
		}
		lines = append(lines, entry)
	}
	return writeLines(path, lines)
}
