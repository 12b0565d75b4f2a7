package migration

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/debarchive/britney/internal/excuses"
)

// Outcome is one line of the solver's append-only upgrade log (spec.md
// §6 "trying:/accepted:/skipped:/now:").
type Outcome struct {
	Verb   string // "trying", "accepted", "skipped"
	Item   string
	Detail string
}

// IterationResult is iter_packages's return value: the final nuninst
// vector and the items that never migrated.
type IterationResult struct {
	Nuninst       Nuninst
	Selected      []string
	NeverMigrated []string
	Log           []Outcome
}

// workItem pairs an excuse with its precomputed group, for worklist
// ordering and retry bookkeeping.
type workItem struct {
	excuse       *excuses.Excuse
	group        *Group
	crossUpdates int // len(Updates)+len(Removals), the ordering tie-break before uvname
}

// IterPackages implements spec.md §4.7's iter_packages: repeatedly order
// the candidate pool, attempt migrations, commit acceptances, and
// reschedule rejections until nothing more can be done.
func IterPackages(log zerolog.Logger, manager *Manager, candidates []*excuses.Excuse, baseline Nuninst, archs, breakArches []string) IterationResult {
	result := IterationResult{Nuninst: baseline}
	pool := candidates
	rescheduled := map[string]bool{}

	for len(pool) > 0 {
		items := buildWorklist(manager, pool, rescheduled, &result)
		if len(items) == 0 {
			break
		}
		sortWorklist(items)

		var nextPool []*excuses.Excuse
		progressed := false

		for _, item := range items {
			acc, after := manager.TryMigration(item.group, result.Nuninst, archs, breakArches)
			if acc.Accepted {
				result.Nuninst = after
				result.Selected = append(result.Selected, item.excuse.UVName())
				result.Log = append(result.Log, Outcome{Verb: "accepted", Item: item.excuse.UVName()})
				delete(rescheduled, item.excuse.UVName())
				progressed = true
				continue
			}

			result.Log = append(result.Log, Outcome{Verb: "skipped", Item: item.excuse.UVName(), Detail: acc.FailedArch})
			rescheduled[item.excuse.UVName()] = true
			nextPool = append(nextPool, item.excuse)
		}

		if !progressed {
			break
		}
		pool = nextPool
	}

	for _, e := range pool {
		result.NeverMigrated = append(result.NeverMigrated, e.UVName())
	}
	sort.Strings(result.NeverMigrated)
	return result
}

// buildWorklist computes (updates, removals) for each candidate,
// discarding — and logging — those that raise a ConstraintError.
func buildWorklist(manager *Manager, candidates []*excuses.Excuse, rescheduled map[string]bool, result *IterationResult) []workItem {
	items := make([]workItem, 0, len(candidates))
	for _, e := range candidates {
		group, err := manager.ComputeGroup(e)
		if err != nil {
			result.Log = append(result.Log, Outcome{Verb: "skipped", Item: e.UVName(), Detail: err.Error()})
			continue
		}
		items = append(items, workItem{
			excuse:       e,
			group:        group,
			crossUpdates: len(group.Updates) + len(group.Removals),
		})
	}
	return items
}

// sortWorklist orders items with fewer cross-updates first, ties broken
// by uvname (spec.md §4.7 step 2).
func sortWorklist(items []workItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].crossUpdates != items[j].crossUpdates {
			return items[i].crossUpdates < items[j].crossUpdates
		}
		return items[i].excuse.UVName() < items[j].excuse.UVName()
	})
}
