package archive

// DependencyType names where a dependency clause came from, used both for
// clause provenance and as DependencySpec.Kind when an excuse-level
// dependency is derived from a package-level one.
type DependencyType string

const (
	DependencyTypeDepends           DependencyType = "Depends"
	DependencyTypeBuildDepends      DependencyType = "Build-Depends"
	DependencyTypeBuildDependsArch  DependencyType = "Build-Depends-Arch"
	DependencyTypeBuildDependsIndep DependencyType = "Build-Depends-Indep"
	DependencyTypeBuiltUsing        DependencyType = "Built-Using"
	DependencyTypeImplicit          DependencyType = "Implicit-Dependency"
)
