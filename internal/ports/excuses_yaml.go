package ports

import "github.com/debarchive/britney/internal/excuses"

// ExcusesYAMLPort writes the per-run excuses report (spec.md §6 contract:
// one entry per excuse with its verdict, reasons, and dependency edges).
type ExcusesYAMLPort interface {
	WriteExcusesYAML(path string, all []*excuses.Excuse) error
}
