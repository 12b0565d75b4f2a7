package archive

import "fmt"

// MigrationItem identifies one candidate unit of migration: either a
// source package (Architecture == SourceArch) or one architecture's
// binary output of a source, plus whether it represents a removal
// (spec.md §3 "MigrationItem").
type MigrationItem struct {
	Package        string
	Version        string
	Architecture   string // one of the suite's archs, or SourceArch
	Suite          string
	IsRemoval      bool
	IsCruftRemoval bool
}

// UVName renders "name" for a source item or "name/arch" for a binary
// item — the identifier excuses and hints key migration items by.
func (m MigrationItem) UVName() string {
	if m.Architecture == SourceArch || m.Architecture == "" {
		return m.Package
	}
	return fmt.Sprintf("%s/%s", m.Package, m.Architecture)
}

// Name renders the fully versioned identity, "name/version" or
// "name/version/arch".
func (m MigrationItem) Name() string {
	if m.Architecture == SourceArch || m.Architecture == "" {
		return fmt.Sprintf("%s/%s", m.Package, m.Version)
	}
	return fmt.Sprintf("%s/%s/%s", m.Package, m.Version, m.Architecture)
}

// Less gives MigrationItem a total order, by UVName then version, so the
// solver and reporting code have a deterministic tie-break (spec.md §8
// "Ordering invariance").
func (m MigrationItem) Less(o MigrationItem) bool {
	if m.UVName() != o.UVName() {
		return m.UVName() < o.UVName()
	}
	return m.Version < o.Version
}

func (m MigrationItem) String() string {
	return m.Name()
}
