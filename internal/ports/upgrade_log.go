package ports

import "github.com/debarchive/britney/internal/migration"

// UpgradeLogPort appends the solver's per-run trying:/accepted:/skipped:
// lines (spec.md §6) to the append-only upgrade output log.
type UpgradeLogPort interface {
	AppendOutcomes(path string, outcomes []migration.Outcome) error
}
