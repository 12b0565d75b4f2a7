package migration

import (
	"github.com/rs/zerolog"

	"github.com/debarchive/britney/internal/excuses"
	"github.com/debarchive/britney/internal/hints"
)

// RunResult is do_all's outcome: the accepted items, the final nuninst
// vector, and the full log for the upgrade-output adapter.
type RunResult struct {
	Accepted []string
	Nuninst  Nuninst
	Log      []Outcome
}

// Driver runs the main migration pass plus hint-triggered passes
// (spec.md §4.7 "Main driver (do_all)").
type Driver struct {
	log     zerolog.Logger
	manager *Manager
	hints   *hints.HintStore
	archs   []string
	breaks  []string
}

func NewDriver(log zerolog.Logger, manager *Manager, store *hints.HintStore, archs, breakArches []string) *Driver {
	return &Driver{log: log, manager: manager, hints: store, archs: archs, breaks: breakArches}
}

// RunMain runs the greedy main pass over every actionable excuse. The
// main run always accepts its own result: every individual commit inside
// IterPackages was already non-regressing by construction.
func (d *Driver) RunMain(actionable []*excuses.Excuse, baseline Nuninst) RunResult {
	result := IterPackages(d.log, d.manager, actionable, baseline, d.archs, d.breaks)
	return RunResult{Accepted: result.Selected, Nuninst: result.Nuninst, Log: result.Log}
}

// RunHint attempts one hint-triggered run (easy/hint/force-hint) over
// items, wrapping the whole pass in a transaction-equivalent by
// snapshotting Nuninst and only keeping the result if it's acceptable:
// force-hint accepts unconditionally; easy/hint accept only if the
// result is no worse than baseline (spec.md §4.7 item "do_all").
func (d *Driver) RunHint(hintType hints.Type, items []*excuses.Excuse, baseline Nuninst) (RunResult, bool) {
	result := IterPackages(d.log, d.manager, items, baseline, d.archs, d.breaks)

	if hintType == hints.TypeForceHint {
		return RunResult{Accepted: result.Selected, Nuninst: result.Nuninst, Log: result.Log}, true
	}

	if baseline.IsAsGoodGenerous(result.Nuninst, d.archs, d.breaks) {
		return RunResult{Accepted: result.Selected, Nuninst: result.Nuninst, Log: result.Log}, true
	}
	return RunResult{Nuninst: baseline}, false
}

// RunAutoHintSet attempts members as one atomic easy hint: every member's
// group is computed and applied together in a single transaction, and the
// whole set is accepted only if the combined result is nuninst-as-good.
// This is distinct from RunHint, which runs IterPackages's one-group-at-
// a-time solver loop over the items — the wrong tool for a set the
// auto-hinter specifically proposed because no member can migrate alone
// (spec.md §8 scenario 6).
func (d *Driver) RunAutoHintSet(members []*excuses.Excuse, baseline Nuninst) (RunResult, bool) {
	groups := make([]*Group, 0, len(members))
	for _, e := range members {
		group, err := d.manager.ComputeGroup(e)
		if err != nil {
			d.log.Warn().Err(err).Str("item", e.UVName()).Msg("auto-hinter: dropping proposed set, group computation failed")
			return RunResult{Nuninst: baseline}, false
		}
		groups = append(groups, group)
	}

	acc, after := d.manager.TryMigrationSet(groups, baseline, d.archs, d.breaks)
	if !acc.Accepted {
		return RunResult{Nuninst: baseline}, false
	}

	selected := make([]string, 0, len(members))
	for _, e := range members {
		selected = append(selected, e.UVName())
	}
	return RunResult{Accepted: selected, Nuninst: after}, true
}
