package ports

import "github.com/debarchive/britney/internal/hints"

// HintLoaderPort loads every Hints/<user> file under a hints directory
// into a *hints.HintStore. Like SchemaResolverPort's layering, load order
// determines precedence: later loads win same-key conflicts (hints/store.go
// already implements that rule, so the loader's only job is enumeration).
type HintLoaderPort interface {
	LoadHintsDir(dir string, permissions map[string]hints.Permission, store *hints.HintStore) error
}
