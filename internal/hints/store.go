package hints

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/debarchive/britney/internal/core"
)

// key identifies the (type, package, architecture) slot that same-type
// conflict resolution operates over.
type key struct {
	typ  Type
	name string
	arch string
}

// HintStore holds every parsed hint, keyed for fast lookup and with
// same-type conflicts already resolved (spec.md §4.2).
type HintStore struct {
	log   zerolog.Logger
	byKey map[key][]*Hint
	all   []*Hint
}

// NewStore returns an empty HintStore.
func NewStore(log zerolog.Logger) *HintStore {
	return &HintStore{log: log, byKey: make(map[key][]*Hint)}
}

// Load parses every line of a hint file's content for user under perm,
// applying conflict resolution as each hint is added. Parse errors are
// logged and that line is skipped, never guessed at (spec.md §4.8).
func (s *HintStore) Load(source string, lines []string, user string, perm Permission) {
	for i, line := range lines {
		pl := ParseLine(line, i+1, user, perm)
		if pl == nil {
			continue
		}
		if pl.Err != "" {
			s.log.Warn().Str("source", source).Int("line", i+1).Str("user", user).Msg(pl.Err)
			continue
		}
		s.add(pl.Hint)
	}
}

// add inserts h, resolving conflicts against previously-added hints of the
// same type for the same (package, architecture). unblock/unblock-udeb
// keep whichever hint names the highest version and deactivate the other;
// every other type follows last-declared-wins.
func (s *HintStore) add(h *Hint) {
	s.all = append(s.all, h)
	for _, item := range h.Packages {
		k := key{typ: h.Type, name: item.Package, arch: item.Architecture}
		existing := s.byKey[k]
		if len(existing) == 0 {
			s.byKey[k] = []*Hint{h}
			continue
		}
		if h.Type == TypeUnblock || h.Type == TypeUnblockUdeb {
			winner := existing[len(existing)-1]
			if core.CompareVersions(item.Version, winnerVersion(winner, item.Package)) >= 0 {
				winner.Active = false
				s.byKey[k] = append(existing, h)
			} else {
				h.Active = false
			}
			continue
		}
		for _, prior := range existing {
			prior.Active = false
		}
		s.byKey[k] = []*Hint{h}
	}
}

func winnerVersion(h *Hint, pkg string) string {
	for _, item := range h.Packages {
		if item.Package == pkg {
			return item.Version
		}
	}
	return ""
}

// SearchQuery narrows a Search call; zero-valued fields are wildcards.
// Version and Removal mirror britney2's version-qualified
// hints.search(type, package, version, arch, removal) (spec.md §4.2): a
// hint whose package item left its version blank (block/remove without a
// specific version) still matches any Version query, since that's the
// hint author's own "any version" declaration — but a query naming a
// specific Version only matches hints that named that same version.
type SearchQuery struct {
	Type         Type
	Package      string
	Version      string
	Architecture string
	Removal      *bool
	ActiveOnly   bool
}

// Search returns every hint matching q, most-recently-declared first.
func (s *HintStore) Search(q SearchQuery) []*Hint {
	var out []*Hint
	for i := len(s.all) - 1; i >= 0; i-- {
		h := s.all[i]
		if q.Type != "" && h.Type != q.Type {
			continue
		}
		if q.ActiveOnly && !h.Active {
			continue
		}
		if q.Package == "" && q.Version == "" && q.Architecture == "" && q.Removal == nil {
			out = append(out, h)
			continue
		}
		for _, item := range h.Packages {
			if q.Package != "" && item.Package != q.Package {
				continue
			}
			if q.Version != "" && item.Version != "" && item.Version != q.Version {
				continue
			}
			if q.Architecture != "" && item.Architecture != q.Architecture {
				continue
			}
			if q.Removal != nil && item.IsRemoval != *q.Removal {
				continue
			}
			out = append(out, h)
			break
		}
	}
	return out
}

// IsEmpty reports whether no hints were ever loaded.
func (s *HintStore) IsEmpty() bool {
	return len(s.all) == 0
}

// String renders every hint back out in file form, active hints marked.
func (s *HintStore) String() string {
	out := ""
	for _, h := range s.all {
		mark := " "
		if !h.Active {
			mark = "#"
		}
		out += fmt.Sprintf("%s%s %s by %s\n", mark, h.Type, h.User, packagesString(h))
	}
	return out
}

func packagesString(h *Hint) string {
	out := ""
	for i, item := range h.Packages {
		if i > 0 {
			out += " "
		}
		out += item.UVName()
	}
	return out
}
