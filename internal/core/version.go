// Package core implements the package universe and installability tester
// (spec.md §4.1): dependency-clause resolution against a suite's binaries
// and virtual-package Provides table, and a bounded SAT-backed
// installability check.
package core

import (
	"github.com/ZanzyTHEbar/errbuilder-go"
	debversion "github.com/knqyf263/go-deb-version"

	"github.com/debarchive/britney/internal/archive"
)

// versionCache memoizes parsed Debian version objects so repeated
// constraint evaluation and sorting during universe construction and
// excuse finding doesn't re-parse the same version string.
type versionCache struct {
	parsed map[string]debversion.Version
}

func newVersionCache() *versionCache {
	return &versionCache{parsed: map[string]debversion.Version{}}
}

func (c *versionCache) parse(value string) (debversion.Version, error) {
	if v, ok := c.parsed[value]; ok {
		return v, nil
	}
	v, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("malformed debian version: " + value).
			WithCause(err)
	}
	c.parsed[value] = v
	return v, nil
}

// Compare returns -1, 0 or 1 comparing a and b as Debian versions. An
// unparseable version falls back to lexicographic comparison, matching the
// archive loader's tolerance for odd cruft in the wild (spec.md never
// requires rejecting the whole archive over one bad version string).
func (c *versionCache) Compare(a, b string) int {
	va, erra := c.parse(a)
	vb, errb := c.parse(b)
	if erra != nil || errb != nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	return va.Compare(vb)
}

// Satisfies reports whether version satisfies the relation (op, against).
func (c *versionCache) Satisfies(version string, op archive.ConstraintOp, against string) (bool, error) {
	if op == archive.ConstraintOpNone {
		return true, nil
	}
	v, err := c.parse(version)
	if err != nil {
		return false, err
	}
	a, err := c.parse(against)
	if err != nil {
		return false, err
	}
	cmp := v.Compare(a)
	switch op {
	case archive.ConstraintOpEq:
		return cmp == 0, nil
	case archive.ConstraintOpLt:
		return cmp < 0, nil
	case archive.ConstraintOpLe:
		return cmp <= 0, nil
	case archive.ConstraintOpGt:
		return cmp > 0, nil
	case archive.ConstraintOpGe:
		return cmp >= 0, nil
	default:
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported constraint operator")
	}
}

// CompareVersions is the package-level entry point used outside core
// (excuses, migration) where a one-shot comparison isn't worth threading a
// cache through.
func CompareVersions(a, b string) int {
	return newVersionCache().Compare(a, b)
}
