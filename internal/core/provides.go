package core

import "github.com/debarchive/britney/internal/archive"

// resolveLiteral returns every BinaryPackageId on arch that satisfies the
// dependency literal lit, per spec.md §4.1:
//   - concrete-name literal: every same-name/arch binary whose version
//     satisfies (op, ver);
//   - virtual (Provides) literal: every same-arch provider, but only when
//     the literal is unversioned or the provider carries a matching
//     versioned Provides, and only when the literal has no arch-qualifier;
//   - ":any" qualifier: only binaries/providers with MultiArch "allowed";
//   - ":native" qualifier: only the native-arch build (nativeArch).
func resolveLiteral(suite *archive.Suite, lit archive.DependencyLiteral, arch, nativeArch string, cache *versionCache) ([]archive.BinaryPackageId, error) {
	targetArch := arch
	if lit.ArchQual == "native" {
		targetArch = nativeArch
	}

	var out []archive.BinaryPackageId
	byName, ok := suite.Binaries[targetArch]
	if ok {
		if bin, ok := byName[lit.Name]; ok {
			if lit.ArchQual == "any" && bin.MultiArch != archive.MultiArchAllowed {
				// :any only satisfies multi-arch:allowed packages.
			} else {
				satisfied, err := cache.Satisfies(bin.Version, lit.Op, lit.Version)
				if err != nil {
					return nil, err
				}
				if satisfied {
					out = append(out, bin.PkgID)
				}
			}
		}
	}

	if lit.ArchQual != "" {
		// Virtual resolution only applies to unqualified dependencies.
		return out, nil
	}
	providers, ok := suite.ProvidesTable[targetArch][lit.Name]
	for _, provide := range providers {
		if !ok {
			break
		}
		bin, ok := suite.Binaries[targetArch][provide.Name]
		if !ok {
			continue
		}
		if lit.Op != archive.ConstraintOpNone {
			if provide.Op == archive.ConstraintOpNone {
				continue // unversioned provides never satisfies a versioned dep
			}
			satisfied, err := cache.Satisfies(provide.Version, lit.Op, lit.Version)
			if err != nil {
				return nil, err
			}
			if !satisfied {
				continue
			}
		}
		out = append(out, bin.PkgID)
	}
	return dedupeBinaryIDs(out), nil
}

func dedupeBinaryIDs(in []archive.BinaryPackageId) []archive.BinaryPackageId {
	seen := map[archive.PackageId]struct{}{}
	out := make([]archive.BinaryPackageId, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id.PackageId]; ok {
			continue
		}
		seen[id.PackageId] = struct{}{}
		out = append(out, id)
	}
	return out
}

// BuildProvidesTable indexes a suite's Provides fields per architecture:
// virtual name -> list of (providerName, version, op).
func BuildProvidesTable(suite *archive.Suite) {
	table := map[string]map[string][]archive.ProvidesEntry{}
	for arch, byName := range suite.Binaries {
		archTable := table[arch]
		if archTable == nil {
			archTable = map[string][]archive.ProvidesEntry{}
			table[arch] = archTable
		}
		for _, bin := range byName {
			for _, provide := range bin.Provides {
				archTable[provide.Name] = append(archTable[provide.Name], archive.ProvidesEntry{
					Name:    bin.PkgID.Name,
					Op:      provide.Op,
					Version: provide.Version,
				})
			}
		}
	}
	suite.ProvidesTable = table
}
