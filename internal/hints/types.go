// Package hints implements the hint store (spec.md §4.2): parsing typed
// user directives, resolving same-type conflicts on the same
// (package, architecture), and the search query API the excuse finder and
// the policy engine use to look hints up.
package hints

import "github.com/debarchive/britney/internal/archive"

// Type enumerates every directive kind spec.md §3/§4.2 names.
type Type string

const (
	TypeBlock             Type = "block"
	TypeBlockUdeb         Type = "block-udeb"
	TypeUnblock           Type = "unblock"
	TypeUnblockUdeb       Type = "unblock-udeb"
	TypeRemove            Type = "remove"
	TypeForce             Type = "force"
	TypeAgeDays           Type = "age-days"
	TypeUrgent            Type = "urgent"
	TypeEasy              Type = "easy"
	TypeHint              Type = "hint"
	TypeForceHint         Type = "force-hint"
	TypeAllowUninst       Type = "allow-uninst"
	TypeIgnoreRCBugs      Type = "ignore-rc-bugs"
	TypeAllowSmoothUpdate Type = "allow-smooth-update"
)

// Permission is a named permission list a user's hints are checked
// against, per spec.md §4.2 "parameterised by a per-user permission list".
type Permission string

const (
	PermissionAll       Permission = "ALL"
	PermissionStandard  Permission = "STANDARD"
	PermissionHelpers   Permission = "HELPERS"
	PermissionMorehints Permission = "MOREHINTS"
)

// standardTypes is the set of hint types any STANDARD-permission user may
// issue; HELPERS is a strict subset used for low-risk directives; ALL
// grants every type.
var standardTypes = map[Type]bool{
	TypeUnblock: true, TypeUnblockUdeb: true, TypeAgeDays: true,
	TypeIgnoreRCBugs: true, TypeHint: true, TypeEasy: true,
	TypeAllowSmoothUpdate: true,
}

var helperTypes = map[Type]bool{
	TypeUnblock: true, TypeUnblockUdeb: true, TypeAgeDays: true,
}

var allTypes = map[Type]bool{
	TypeBlock: true, TypeBlockUdeb: true, TypeUnblock: true, TypeUnblockUdeb: true,
	TypeRemove: true, TypeForce: true, TypeAgeDays: true, TypeUrgent: true,
	TypeEasy: true, TypeHint: true, TypeForceHint: true, TypeAllowUninst: true,
	TypeIgnoreRCBugs: true, TypeAllowSmoothUpdate: true,
}

// Permits reports whether a user holding perm may issue a hint of type t.
func Permits(perm Permission, t Type) bool {
	switch perm {
	case PermissionAll, PermissionMorehints:
		return allTypes[t]
	case PermissionStandard:
		return standardTypes[t]
	case PermissionHelpers:
		return helperTypes[t]
	default:
		return false
	}
}

// Hint is one parsed, typed directive (spec.md §3 "Hint").
type Hint struct {
	Type            Type
	User            string
	Packages        []archive.MigrationItem
	PolicyParameter string // e.g. the urgency for TypeUrgent, the day count for TypeAgeDays
	Active          bool
	Line            int // source line, for diagnostics
}
