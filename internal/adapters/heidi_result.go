package adapters

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/ports"
)

// HeidiFileAdapter writes the target suite's final accepted state and the
// per-run acceptance delta to plain text files (spec.md §6).
type HeidiFileAdapter struct{}

func NewHeidiFileAdapter() HeidiFileAdapter {
	return HeidiFileAdapter{}
}

var _ ports.HeidiWriterPort = HeidiFileAdapter{}

func (a HeidiFileAdapter) WriteHeidiResult(path string, target *archive.Suite, fauxPackages map[string]bool) error {
	var lines []string
	for _, byName := range target.Binaries {
		for name, bin := range byName {
			if fauxPackages[name] {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s %s %s %s", name, bin.Version, bin.Architecture, bin.Section))
		}
	}
	for name, src := range target.Sources {
		if fauxPackages[name] {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s source %s", name, src.Version, src.Section))
	}
	sort.Strings(lines)

	return writeLines(path, lines)
}

func writeLines(path string, lines []string) error {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("writing " + path).WithCause(err)
	}
	return nil
}
