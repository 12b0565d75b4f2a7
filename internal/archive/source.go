package archive

// SourcePackage is an immutable record of one source package as it exists
// in one suite. Binaries references BinaryPackageId values belonging to
// this source in the suite that owns the record.
type SourcePackage struct {
	Source            string
	Version           string
	Section           string
	Binaries          []BinaryPackageId
	Maintainer        string
	IsFakeSrc         bool
	BuildDepends      []DependencyClause
	BuildDependsIndep []DependencyClause
	Testsuite         string
	TestsuiteTriggers []string
}

// DependencyClause is one CNF clause of a dependency field: a set of
// alternative literals joined by "|", any one of which satisfies it.
type DependencyClause struct {
	Alternatives []DependencyLiteral
}

// DependencyLiteral is a single parsed "name[:archqual] (op ver)" token.
type DependencyLiteral struct {
	Name     string
	ArchQual string // "", "any", or "native"
	Op       ConstraintOp
	Version  string
	Raw      string
}

// ConstraintOp is a Debian version relation operator.
type ConstraintOp string

const (
	ConstraintOpNone ConstraintOp = ""
	ConstraintOpEq   ConstraintOp = "="
	ConstraintOpLt   ConstraintOp = "<<"
	ConstraintOpLe   ConstraintOp = "<="
	ConstraintOpGt   ConstraintOp = ">>"
	ConstraintOpGe   ConstraintOp = ">="
)
