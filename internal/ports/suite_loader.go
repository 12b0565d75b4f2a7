package ports

import "github.com/debarchive/britney/internal/archive"

// SuiteLoaderPort reads one suite's Sources/Packages_<arch> paragraphs
// (plain, gzip, or xz) from a series directory into a typed *archive.Suite.
type SuiteLoaderPort interface {
	LoadSuite(class archive.SuiteClass, seriesDir, name, shortName string, archs []string) (*archive.Suite, error)
}
