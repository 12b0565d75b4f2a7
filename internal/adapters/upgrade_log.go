package adapters

import (
	"fmt"
	"os"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/debarchive/britney/internal/migration"
	"github.com/debarchive/britney/internal/ports"
)

// UpgradeLogFileAdapter appends the solver's outcome lines to an
// append-only log file, one "now:" marker per call followed by a
// "<verb>: <item> <detail>" line per outcome.
type UpgradeLogFileAdapter struct{}

func NewUpgradeLogFileAdapter() UpgradeLogFileAdapter {
	return UpgradeLogFileAdapter{}
}

var _ ports.UpgradeLogPort = UpgradeLogFileAdapter{}

func (a UpgradeLogFileAdapter) AppendOutcomes(path string, outcomes []migration.Outcome) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("opening upgrade log").WithCause(err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "now: %s\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("writing upgrade log").WithCause(err)
	}
	for _, o := range outcomes {
		line := fmt.Sprintf("%s: %s", o.Verb, o.Item)
		if o.Detail != "" {
			line += " " + o.Detail
		}
		if _, err := fmt.Fprintln(f, line); err != nil {
			return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("writing upgrade log").WithCause(err)
		}
	}
	return nil
}
