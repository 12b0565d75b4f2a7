package archive

// ProvidesEntry is one entry of a binary's Provides field: the virtual
// package name, and an optional versioned-provides relation.
type ProvidesEntry struct {
	Name    string
	Op      ConstraintOp
	Version string
}

// MultiArch mirrors the values the dpkg Multi-Arch field can take.
type MultiArch string

const (
	MultiArchNo      MultiArch = ""
	MultiArchSame    MultiArch = "same"
	MultiArchForeign MultiArch = "foreign"
	MultiArchAllowed MultiArch = "allowed"
)

// BinaryPackage is an immutable record of one binary package as it exists
// in one suite. Source references a SourcePackage in the same suite;
// SourceVersion may differ from that source's current Version, in which
// case the binary is cruft (Suite.IsCruft).
type BinaryPackage struct {
	PkgID         BinaryPackageId
	Version       string
	Section       string
	Component     string
	Source        string
	SourceVersion string
	Architecture  string
	MultiArch     MultiArch
	Depends       []DependencyClause
	Conflicts     []DependencyClause
	Provides      []ProvidesEntry
	IsEssential   bool
	BuiltUsing    []DependencyLiteral
}
