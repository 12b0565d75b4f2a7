package adapters

import (
	"os"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"github.com/debarchive/britney/internal/excuses"
	"github.com/debarchive/britney/internal/hints"
	"github.com/debarchive/britney/internal/ports"
)

// ExcusesYAMLAdapter renders the excuse set as excuses.yaml, the schema
// spec.md §6 lists for human and tooling consumption.
type ExcusesYAMLAdapter struct {
	Hints *hints.HintStore
}

func NewExcusesYAMLAdapter(store *hints.HintStore) ExcusesYAMLAdapter {
	return ExcusesYAMLAdapter{Hints: store}
}

var _ ports.ExcusesYAMLPort = ExcusesYAMLAdapter{}

type excuseDoc struct {
	Sources []excuseEntry `yaml:"sources"`
}

type excuseEntry struct {
	ItemName      string              `yaml:"item-name"`
	Source        string              `yaml:"source"`
	OldVersion    string              `yaml:"old-version"`
	NewVersion    string              `yaml:"new-version"`
	Verdict       string              `yaml:"migration-policy-verdict"`
	IsCandidate   bool                `yaml:"is-candidate"`
	Reason        []string            `yaml:"reason,omitempty"`
	PolicyInfo    map[string]any      `yaml:"policy_info,omitempty"`
	Dependencies  excuseDependencies  `yaml:"dependencies,omitempty"`
	Hints         []string            `yaml:"hints,omitempty"`
	OldBinaries   map[string][]string `yaml:"old-binaries,omitempty"`
	MissingBuilds []string            `yaml:"missing-builds,omitempty"`
}

type excuseDependencies struct {
	BlockedBy     []string `yaml:"blocked-by,omitempty"`
	MigrateAfter  []string `yaml:"migrate-after,omitempty"`
	Unimportant   []string `yaml:"unimportant-dependencies,omitempty"`
	Unsatisfiable []string `yaml:"unsatisfiable-dependencies,omitempty"`
}

func (a ExcusesYAMLAdapter) WriteExcusesYAML(path string, all []*excuses.Excuse) error {
	sorted := make([]*excuses.Excuse, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UVName() < sorted[j].UVName() })

	doc := excuseDoc{Sources: make([]excuseEntry, 0, len(sorted))}
	for _, e := range sorted {
		oldBinaries := make(map[string][]string, len(e.OldBinaries))
		for arch, ids := range e.OldBinaries {
			names := make([]string, 0, len(ids))
			for _, id := range ids {
				names = append(names, id.String())
			}
			oldBinaries[arch] = names
		}

		doc.Sources = append(doc.Sources, excuseEntry{
			ItemName:    e.UVName(),
			Source:      e.Source,
			OldVersion:  e.TargetVersion,
			NewVersion:  e.SourceVersion,
			Verdict:     e.Verdict.String(),
			IsCandidate: e.IsCandidate(),
			Reason:      e.Reasons,
			PolicyInfo:  e.PolicyInfo,
			Dependencies: excuseDependencies{
				BlockedBy:     e.BlockedBy,
				MigrateAfter:  e.MigrateAfter,
				Unimportant:   e.UnimportantDeps,
				Unsatisfiable: e.UnsatisfiableDeps,
			},
			Hints:         a.appliedHints(e),
			OldBinaries:   oldBinaries,
			MissingBuilds: e.MissingBuilds,
		})
	}

	content, err := yaml.Marshal(doc)
	if err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("marshalling excuses.yaml").WithCause(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("writing excuses.yaml").WithCause(err)
	}
	return nil
}

// appliedHints renders every active hint naming e's source as "<type> by
// <user>", most-recent first.
func (a ExcusesYAMLAdapter) appliedHints(e *excuses.Excuse) []string {
	if a.Hints == nil {
		return nil
	}
	found := a.Hints.Search(hints.SearchQuery{Package: e.Source, ActiveOnly: true})
	out := make([]string, 0, len(found))
	for _, h := range found {
		out = append(out, string(h.Type)+" by "+h.User)
	}
	return out
}
