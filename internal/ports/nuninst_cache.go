package ports

import "github.com/debarchive/britney/internal/migration"

// NuninstCachePort persists and reloads the nuninst vector between runs
// (spec.md §6: "<arch>: <space-separated-package-names>\n" per
// architecture, with a header timestamp). The run command only writes
// the cache; nothing in the driver reads it back.
type NuninstCachePort interface {
	ReadNuninstCache(path string) (migration.Nuninst, error)
	WriteNuninstCache(path string, n migration.Nuninst) error
}
