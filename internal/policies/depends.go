package policies

import (
	"context"
	"fmt"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/policy"
)

// DependsChecker is the minimal surface DependsPolicy needs from the
// installability tester, to keep this package testable without the full
// core.InstallabilityTester wiring.
type DependsChecker interface {
	IsInstallable(pkgID archive.BinaryPackageId) bool
}

// DependsPolicy rejects a candidate whose migration would make any
// already-migrated reverse dependency uninstallable — either directly
// (the new version no longer satisfies a Depends) or because a new
// Breaks/Conflicts clause introduces an DependencyTypeImplicit regression
// against a package already in the target (spec.md §4.3's
// dependency-satisfaction and implicit-dependency policies).
type DependsPolicy struct {
	Tester        DependsChecker
	ReverseDepsOf func(source string, arch string) []archive.BinaryPackageId
}

// NewDependsPolicy builds a DependsPolicy. reverseDepsOf returns the
// binaries currently in the target suite that would need re-checking if
// source's binaries on arch changed.
func NewDependsPolicy(tester DependsChecker, reverseDepsOf func(source, arch string) []archive.BinaryPackageId) *DependsPolicy {
	return &DependsPolicy{Tester: tester, ReverseDepsOf: reverseDepsOf}
}

func (p *DependsPolicy) Name() string { return "depends" }

func (p *DependsPolicy) Check(_ context.Context, c *policy.Candidate) (policy.Verdict, error) {
	if p.Tester == nil || p.ReverseDepsOf == nil {
		return policy.VerdictPass, nil
	}

	var broken []string
	for _, arch := range archsOf(c) {
		for _, rdep := range p.ReverseDepsOf(c.Source, arch) {
			if !p.Tester.IsInstallable(rdep) {
				broken = append(broken, rdep.String())
			}
		}
	}

	if len(broken) == 0 {
		return policy.VerdictPass, nil
	}

	c.PolicyInfo["depends"] = map[string]any{
		"kind":   archive.DependencyTypeImplicit,
		"broken": broken,
	}
	c.AddReason(fmt.Sprintf("depends: %d reverse dependencies broken", len(broken)))
	return policy.VerdictRejectedPermanently, nil
}

// archsOf returns the architecture this candidate's item is scoped to, or
// nil for a source-level item, which the policy then passes unchecked.
// Source items carry no single arch, so callers of ReverseDepsOf that need
// per-arch fan-out do it themselves; here we only forward a non-empty
// single-arch candidate verbatim.
func archsOf(c *policy.Candidate) []string {
	if c.Item.Architecture == "" || c.Item.Architecture == archive.SourceArch {
		return nil
	}
	return []string{c.Item.Architecture}
}

var _ DependsChecker = (*core.InstallabilityTester)(nil)
