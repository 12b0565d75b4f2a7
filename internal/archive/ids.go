// Package archive holds the typed archive data model: package identities,
// source and binary package records, and the per-suite containers that
// hold them.
package archive

import "fmt"

// SourceArch is the pseudo-architecture used by PackageId to mark a
// reference to a source package rather than a binary.
const SourceArch = "source"

// PackageId identifies a source or binary package by name, version and
// architecture. Architecture is "source" for source references.
type PackageId struct {
	Name    string
	Version string
	Arch    string
}

// NewPackageId builds a PackageId, asserting arch is never "all" — arch:all
// binaries are expanded into one BinaryPackageId per concrete architecture
// before a PackageId is ever constructed for them.
func NewPackageId(name, version, arch string) PackageId {
	if arch == "all" {
		panic(fmt.Sprintf("PackageId: %q/%q must not carry architecture \"all\"", name, version))
	}
	return PackageId{Name: name, Version: version, Arch: arch}
}

// FullName renders "name/version" for source references and
// "name/version/arch" for binary references.
func (p PackageId) FullName() string {
	if p.Arch == SourceArch {
		return fmt.Sprintf("%s/%s", p.Name, p.Version)
	}
	return fmt.Sprintf("%s/%s/%s", p.Name, p.Version, p.Arch)
}

// UVName renders the "unversioned" excuse-reporting name: just the package
// name for sources, "name/arch" for binaries.
func (p PackageId) UVName() string {
	if p.Arch == SourceArch {
		return p.Name
	}
	return fmt.Sprintf("%s/%s", p.Name, p.Arch)
}

// Less gives PackageId a total order by (name, version, arch) tuple.
func (p PackageId) Less(o PackageId) bool {
	if p.Name != o.Name {
		return p.Name < o.Name
	}
	if p.Version != o.Version {
		return p.Version < o.Version
	}
	return p.Arch < o.Arch
}

func (p PackageId) String() string {
	return fmt.Sprintf("PID(%s)", p.FullName())
}

// BinaryPackageId is a PackageId known to reference a binary package
// (Arch is never "source" or "all").
type BinaryPackageId struct {
	PackageId
}

// NewBinaryPackageId builds a BinaryPackageId, asserting arch is concrete.
func NewBinaryPackageId(name, version, arch string) BinaryPackageId {
	if arch == SourceArch {
		panic(fmt.Sprintf("BinaryPackageId: %q/%q must not carry architecture \"source\"", name, version))
	}
	return BinaryPackageId{PackageId: NewPackageId(name, version, arch)}
}

func (b BinaryPackageId) String() string {
	return fmt.Sprintf("BPID(%s)", b.FullName())
}
