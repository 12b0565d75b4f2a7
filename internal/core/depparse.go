package core

import (
	"strings"

	"github.com/debarchive/britney/internal/archive"
)

// ParseDependencyField splits a raw Depends/Conflicts-style field value
// ("libfoo (>= 1.0), libbar | libbaz (<< 2)") into CNF clauses: the outer
// list is AND, each clause's Alternatives list is OR.
func ParseDependencyField(raw string) []archive.DependencyClause {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var clauses []archive.DependencyClause
	for _, group := range strings.Split(raw, ",") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		var alts []archive.DependencyLiteral
		for _, alt := range strings.Split(group, "|") {
			lit, ok := parseDependencyLiteral(alt)
			if ok {
				alts = append(alts, lit)
			}
		}
		if len(alts) > 0 {
			clauses = append(clauses, archive.DependencyClause{Alternatives: alts})
		}
	}
	return clauses
}

// parseDependencyLiteral parses one "name[:archqual] (op ver) [arch-filter]"
// token. Arch-filter (the trailing "[amd64 !i386]" annotation) is stripped;
// britney's target suite already carries one binary index per architecture
// so the filter has already been applied by the loader.
func parseDependencyLiteral(token string) (archive.DependencyLiteral, bool) {
	raw := strings.TrimSpace(token)
	if raw == "" {
		return archive.DependencyLiteral{}, false
	}
	if idx := strings.Index(raw, " ["); idx >= 0 {
		raw = strings.TrimSpace(raw[:idx])
	}

	name := raw
	op := archive.ConstraintOpNone
	version := ""
	if before, after, ok := strings.Cut(raw, "("); ok {
		name = strings.TrimSpace(before)
		constraint := strings.TrimSpace(after)
		constraint = strings.TrimSuffix(constraint, ")")
		fields := strings.Fields(constraint)
		if len(fields) == 2 {
			if parsedOp, ok := parseOp(fields[0]); ok {
				op = parsedOp
				version = fields[1]
			}
		}
	}

	archQual := ""
	if before, after, ok := strings.Cut(name, ":"); ok {
		name = before
		archQual = after
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return archive.DependencyLiteral{}, false
	}
	return archive.DependencyLiteral{
		Name:     name,
		ArchQual: archQual,
		Op:       op,
		Version:  version,
		Raw:      token,
	}, true
}

func parseOp(token string) (archive.ConstraintOp, bool) {
	switch token {
	case "=":
		return archive.ConstraintOpEq, true
	case "<<":
		return archive.ConstraintOpLt, true
	case "<=":
		return archive.ConstraintOpLe, true
	case ">>":
		return archive.ConstraintOpGt, true
	case ">=":
		return archive.ConstraintOpGe, true
	// Older control-file syntax used bare "<" and ">" for what dpkg now
	// treats as "<=" and ">="; the archive indexes britney consumes are
	// generated by dpkg-genchanges/apt-ftparchive, which always emit the
	// modern two-character tokens, but tolerate the legacy ones anyway.
	case "<":
		return archive.ConstraintOpLe, true
	case ">":
		return archive.ConstraintOpGe, true
	default:
		return archive.ConstraintOpNone, false
	}
}
