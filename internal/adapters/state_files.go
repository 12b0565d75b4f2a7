package adapters

import (
	"bufio"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"github.com/debarchive/britney/internal/policies"
	"github.com/debarchive/britney/internal/ports"
)

// StateFilesAdapter reads the small line-oriented and YAML/JSON state
// files spec.md §6 lists alongside the archive indices: Dates, Urgency,
// BugsV, Blocks, ExcuseBugs, piuparts-summary-*.json, constraints,
// faux-packages.
type StateFilesAdapter struct{}

func NewStateFilesAdapter() StateFilesAdapter {
	return StateFilesAdapter{}
}

var _ ports.StateFilesPort = StateFilesAdapter{}

// Dates and Urgency are "source version value" lines, one per record,
// '#'-comments and blank lines skipped — the same shape hints/parser.go
// already uses for hint lines, kept consistent rather than inventing a
// second tokenizer.
func (a StateFilesAdapter) LoadDates(path string) (map[ports.SourceVersion]float64, error) {
	out := map[ports.SourceVersion]float64{}
	err := scanLines(path, func(fields []string) error {
		if len(fields) < 3 {
			return nil
		}
		days, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil
		}
		out[ports.SourceVersion{Source: fields[0], Version: fields[1]}] = days
		return nil
	})
	return out, err
}

func (a StateFilesAdapter) LoadUrgencies(path string) (map[ports.SourceVersion]string, error) {
	out := map[ports.SourceVersion]string{}
	err := scanLines(path, func(fields []string) error {
		if len(fields) < 3 {
			return nil
		}
		out[ports.SourceVersion{Source: fields[0], Version: fields[1]}] = fields[2]
		return nil
	})
	return out, err
}

// LoadBugs reads a BugsV-style file: "<bug> <source>" per line.
func (a StateFilesAdapter) LoadBugs(path string) (map[string][]int, error) {
	out := map[string][]int{}
	err := scanLines(path, func(fields []string) error {
		if len(fields) < 2 {
			return nil
		}
		bug, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil
		}
		out[fields[1]] = append(out[fields[1]], bug)
		return nil
	})
	return out, err
}

// LoadBlocks reads "<source> <reason...>" per line.
func (a StateFilesAdapter) LoadBlocks(path string) (map[string]string, error) {
	out := map[string]string{}
	err := scanLines(path, func(fields []string) error {
		if len(fields) < 1 {
			return nil
		}
		out[fields[0]] = strings.Join(fields[1:], " ")
		return nil
	})
	return out, err
}

// LoadExcuseBugs reads "<source> <bug>" per line.
func (a StateFilesAdapter) LoadExcuseBugs(path string) (map[string]int, error) {
	out := map[string]int{}
	err := scanLines(path, func(fields []string) error {
		if len(fields) < 2 {
			return nil
		}
		bug, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil
		}
		out[fields[0]] = bug
		return nil
	})
	return out, err
}

func (a StateFilesAdapter) LoadPiupartsSummary(path string) (map[string]policies.PiupartsStatus, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("reading piuparts summary").WithCause(err)
	}
	var raw map[string]string
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("parsing piuparts summary").WithCause(err)
	}
	out := make(map[string]policies.PiupartsStatus, len(raw))
	for source, status := range raw {
		switch strings.ToLower(status) {
		case "pass":
			out[source] = policies.PiupartsPass
		case "fail":
			out[source] = policies.PiupartsFail
		default:
			out[source] = policies.PiupartsUnknown
		}
	}
	return out, nil
}

type constraintsFile struct {
	KeepInstallable []string            `yaml:"keep-installable"`
	AllowUninst     map[string][]string `yaml:"allow-uninst"`
}

func (a StateFilesAdapter) LoadConstraints(path string) (ports.Constraints, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ports.Constraints{}, errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("reading constraints").WithCause(err)
	}
	var raw constraintsFile
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return ports.Constraints{}, errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("parsing constraints").WithCause(err)
	}

	allow := make(map[string]map[string]bool, len(raw.AllowUninst))
	for arch, names := range raw.AllowUninst {
		set := make(map[string]bool, len(names))
		for _, name := range names {
			set[name] = true
		}
		allow[arch] = set
	}
	return ports.Constraints{KeepInstallable: raw.KeepInstallable, AllowUninst: allow}, nil
}

// LoadFauxPackages reads one package name per line.
func (a StateFilesAdapter) LoadFauxPackages(path string) ([]string, error) {
	var out []string
	err := scanLines(path, func(fields []string) error {
		if len(fields) < 1 {
			return nil
		}
		out = append(out, fields[0])
		return nil
	})
	return out, err
}

// scanLines reads path line by line, skipping blanks and '#' comments,
// and calls handle with the whitespace-split fields of each remaining
// line.
func scanLines(path string, handle func(fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("opening " + path).WithCause(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := handle(strings.Fields(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
