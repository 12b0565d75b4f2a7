package hints

import (
	"strings"

	"github.com/debarchive/britney/internal/archive"
)

// ParsedLine is the outcome of parsing one hint-file line: either a valid
// Hint, or an error message to log and discard per spec.md §4.8
// ("malformed or unauthorised hint: log, ignore that line").
type ParsedLine struct {
	Hint *Hint
	Err  string
}

// ParseLine parses one "<type> <arg> [<arg> ...]" hint-file line for user,
// checking perm against the type's required permission. Comments ("#...")
// and blank lines return a nil ParsedLine.Hint with no error.
func ParseLine(line string, lineNo int, user string, perm Permission) *ParsedLine {
	raw := line
	if idx := strings.Index(raw, "#"); idx >= 0 {
		raw = raw[:idx]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	fields := strings.Fields(raw)
	typ := Type(strings.ToLower(fields[0]))
	args := fields[1:]

	if !allTypes[typ] {
		return &ParsedLine{Err: "unknown hint type: " + fields[0]}
	}
	if !Permits(perm, typ) {
		return &ParsedLine{Err: "user " + user + " is not permitted to issue hint type " + string(typ)}
	}

	switch typ {
	case TypeAgeDays, TypeUrgent:
		if len(args) < 2 {
			return &ParsedLine{Err: string(typ) + " requires a parameter and at least one package"}
		}
		items, err := parsePackageArgs(args[1:])
		if err != "" {
			return &ParsedLine{Err: err}
		}
		return &ParsedLine{Hint: &Hint{Type: typ, User: user, Packages: items, PolicyParameter: args[0], Active: true, Line: lineNo}}
	default:
		if len(args) == 0 {
			return &ParsedLine{Err: string(typ) + " requires at least one package argument"}
		}
		items, err := parsePackageArgs(args)
		if err != "" {
			return &ParsedLine{Err: err}
		}
		isRemoval := typ == TypeRemove
		for i := range items {
			items[i].IsRemoval = isRemoval
		}
		return &ParsedLine{Hint: &Hint{Type: typ, User: user, Packages: items, Active: true, Line: lineNo}}
	}
}

// parsePackageArgs parses "name/version", "name/version/arch" or a bare
// "name" token into MigrationItems. Version
// and architecture are optional: a bare name (used by block/remove without
// a specific version) leaves Version empty, meaning "match any version".
func parsePackageArgs(args []string) ([]archive.MigrationItem, string) {
	items := make([]archive.MigrationItem, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, "/")
		item := archive.MigrationItem{Architecture: archive.SourceArch}
		switch len(parts) {
		case 1:
			item.Package = parts[0]
		case 2:
			item.Package = parts[0]
			item.Version = parts[1]
		case 3:
			item.Package = parts[0]
			item.Version = parts[1]
			item.Architecture = parts[2]
		default:
			return nil, "malformed package reference: " + arg
		}
		if item.Package == "" {
			return nil, "malformed package reference: " + arg
		}
		items = append(items, item)
	}
	return items, ""
}
