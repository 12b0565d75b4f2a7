package adapters

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/debarchive/britney/internal/archive"
	"github.com/debarchive/britney/internal/core"
	"github.com/debarchive/britney/internal/ports"
	"github.com/debarchive/britney/internal/shared"
)

// SuiteLoaderFileAdapter reads Sources and Packages_<arch> index files
// from a series directory laid out the way a Debian archive mirror is:
//
//	<seriesDir>/<suite>/source/Sources[.gz]
//	<seriesDir>/<suite>/binary-<arch>/Packages[.gz]
//
// .xz indices are not decompressed in-process — no pack example vendors a
// pure-Go xz decoder. DecompressXZCommand names an external decompressor
// (invoked as `<cmd> -dc <path>`, writing the decompressed stream to
// stdout, the same calling convention as xz/unxz) this adapter shells out
// to when set; otherwise .xz paths are rejected. Parsed names, versions
// and sections are canonicalized through a shared Interner as they're
// read, since the same strings repeat across every arch's index.
type SuiteLoaderFileAdapter struct {
	DecompressXZCommand string

	// interner canonicalizes package names and versions as they're parsed:
	// the same strings repeat across every arch's Packages file and every
	// binary of a source, so sharing one backing array per distinct value
	// cuts the memory a full archive load holds onto (spec.md §9 design
	// note). One adapter instance is reused for every suite in a run, so
	// one Interner covers the whole run.
	interner *archive.Interner
}

func NewSuiteLoaderFileAdapter() *SuiteLoaderFileAdapter {
	return &SuiteLoaderFileAdapter{interner: archive.NewInterner()}
}

func (a *SuiteLoaderFileAdapter) intern(s string) string {
	if s == "" {
		return s
	}
	return a.interner.Lookup(a.interner.Intern(s))
}

var _ ports.SuiteLoaderPort = (*SuiteLoaderFileAdapter)(nil)

func (a *SuiteLoaderFileAdapter) LoadSuite(class archive.SuiteClass, seriesDir, name, shortName string, archs []string) (*archive.Suite, error) {
	suite := archive.NewSuite(class, name, shortName)
	suiteDir := filepath.Join(seriesDir, name)

	sourcesPath, err := a.findIndex(filepath.Join(suiteDir, "source"), "Sources")
	if err != nil {
		return nil, err
	}
	if sourcesPath != "" {
		if err := a.loadSources(suite, sourcesPath); err != nil {
			return nil, err
		}
	}

	for _, arch := range archs {
		packagesPath, err := a.findIndex(filepath.Join(suiteDir, "binary-"+arch), "Packages")
		if err != nil {
			return nil, err
		}
		if packagesPath == "" {
			continue
		}
		if err := a.loadBinaries(suite, packagesPath, arch); err != nil {
			return nil, err
		}
	}

	core.BuildProvidesTable(suite)
	return suite, nil
}

// findIndex locates stem, stem+".gz", or stem+".xz" under dir, preferring
// the uncompressed form. A .xz hit is decompressed to a temp file via
// DecompressXZCommand when one is configured; readParagraphs is left
// gzip-transparent only, so .xz never reaches it directly.
func (a *SuiteLoaderFileAdapter) findIndex(dir, stem string) (string, error) {
	for _, candidate := range []string{stem, stem + ".gz"} {
		path := filepath.Join(dir, candidate)
		if fileExists(path) {
			return path, nil
		}
	}
	xzPath := filepath.Join(dir, stem+".xz")
	if !fileExists(xzPath) {
		return "", nil
	}
	if a.DecompressXZCommand == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s is .xz-compressed and no decompressor is configured", xzPath))
	}
	return a.decompressXZ(xzPath, stem)
}

// decompressXZ shells out to DecompressXZCommand, writing the decompressed
// stream to a temp file in the system temp directory and returning its path.
func (a *SuiteLoaderFileAdapter) decompressXZ(xzPath, stem string) (string, error) {
	tmp, err := os.CreateTemp("", "britney-"+stem+"-*")
	if err != nil {
		return "", errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("creating decompress temp file").WithCause(err)
	}
	defer tmp.Close()

	cmd := exec.Command(a.DecompressXZCommand, "-dc", xzPath)
	cmd.Stdout = tmp
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(tmp.Name())
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("decompressing %s", xzPath)).
			WithCause(shared.CommandError([]byte(stderr.String()), err))
	}
	return tmp.Name(), nil
}

func (a *SuiteLoaderFileAdapter) loadSources(suite *archive.Suite, path string) error {
	paragraphs, err := readParagraphs(path)
	if err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("reading Sources").WithCause(err)
	}
	for _, p := range paragraphs {
		name := p["Package"]
		if name == "" {
			continue
		}
		suite.Sources[name] = &archive.SourcePackage{
			Source:            a.intern(name),
			Version:           a.intern(p["Version"]),
			Section:           a.intern(p["Section"]),
			Maintainer:        p["Maintainer"],
			BuildDepends:      core.ParseDependencyField(p["Build-Depends"]),
			BuildDependsIndep: core.ParseDependencyField(p["Build-Depends-Indep"]),
			Testsuite:         p["Testsuite"],
			TestsuiteTriggers: splitFields(p["Testsuite-Triggers"]),
		}
	}
	return nil
}

func (a *SuiteLoaderFileAdapter) loadBinaries(suite *archive.Suite, path, arch string) error {
	paragraphs, err := readParagraphs(path)
	if err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("reading Packages").WithCause(err)
	}
	for _, p := range paragraphs {
		name := p["Package"]
		if name == "" {
			continue
		}
		source, sourceVersion := parseSourceField(p["Source"], name, p["Version"])
		bin := &archive.BinaryPackage{
			PkgID:         archive.NewBinaryPackageId(a.intern(name), a.intern(p["Version"]), arch),
			Version:       a.intern(p["Version"]),
			Section:       a.intern(p["Section"]),
			Component:     a.intern(sectionComponent(p["Section"])),
			Source:        a.intern(source),
			SourceVersion: a.intern(sourceVersion),
			Architecture:  arch,
			MultiArch:     archive.MultiArch(p["Multi-Arch"]),
			Depends:       core.ParseDependencyField(p["Depends"]),
			Conflicts:     core.ParseDependencyField(mergeConflictFields(p)),
			Provides:      parseProvides(p["Provides"]),
			IsEssential:   strings.EqualFold(p["Essential"], "yes"),
			BuiltUsing:    parseBuiltUsing(p["Built-Using"]),
		}
		suite.AddBinaryRecord(bin)

		if src, ok := suite.Sources[bin.Source]; ok {
			src.Binaries = append(src.Binaries, bin.PkgID)
		}
	}
	return nil
}

// parseSourceField splits the "Source" field, which may carry the
// source's own version in parens when it differs from the binary's:
// "libfoo (1.2-3)". Absent, the binary's own name/version are the source.
func parseSourceField(raw, binName, binVersion string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return binName, binVersion
	}
	name, rest, ok := strings.Cut(raw, "(")
	if !ok {
		return strings.TrimSpace(raw), binVersion
	}
	version := strings.TrimSuffix(strings.TrimSpace(rest), ")")
	return strings.TrimSpace(name), version
}

// mergeConflictFields folds Conflicts and Breaks into one CNF field:
// spec.md §4.1's conflict model treats them identically for
// installability purposes.
func mergeConflictFields(p rfc822Paragraph) string {
	parts := []string{}
	if v := p["Conflicts"]; v != "" {
		parts = append(parts, v)
	}
	if v := p["Breaks"]; v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, ", ")
}

func sectionComponent(section string) string {
	if idx := strings.LastIndex(section, "/"); idx >= 0 {
		return section[:idx]
	}
	return "main"
}

func parseProvides(raw string) []archive.ProvidesEntry {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var entries []archive.ProvidesEntry
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, rest, ok := strings.Cut(item, "(")
		if !ok {
			entries = append(entries, archive.ProvidesEntry{Name: item})
			continue
		}
		constraint := strings.Fields(strings.TrimSuffix(strings.TrimSpace(rest), ")"))
		entry := archive.ProvidesEntry{Name: strings.TrimSpace(name)}
		if len(constraint) == 2 {
			entry.Op = archive.ConstraintOp(constraint[0])
			entry.Version = constraint[1]
		}
		entries = append(entries, entry)
	}
	return entries
}

func parseBuiltUsing(raw string) []archive.DependencyLiteral {
	clauses := core.ParseDependencyField(raw)
	var out []archive.DependencyLiteral
	for _, clause := range clauses {
		out = append(out, clause.Alternatives...)
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
