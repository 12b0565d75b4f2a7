package adapters

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/debarchive/britney/internal/migration"
	"github.com/debarchive/britney/internal/ports"
)

// NuninstCacheFileAdapter persists the nuninst vector as a header comment
// line followed by one "<arch>: <space-separated-package-names>" line per
// architecture.
type NuninstCacheFileAdapter struct{}

func NewNuninstCacheFileAdapter() NuninstCacheFileAdapter {
	return NuninstCacheFileAdapter{}
}

var _ ports.NuninstCachePort = NuninstCacheFileAdapter{}

func (a NuninstCacheFileAdapter) WriteNuninstCache(path string, n migration.Nuninst) error {
	archs := make([]string, 0, len(n))
	for arch := range n {
		archs = append(archs, arch)
	}
	sort.Strings(archs)

	var b strings.Builder
	fmt.Fprintf(&b, "# generated %s\n", time.Now().UTC().Format(time.RFC3339))
	for _, arch := range archs {
		names := append([]string(nil), n[arch]...)
		sort.Strings(names)
		fmt.Fprintf(&b, "%s: %s\n", arch, strings.Join(names, " "))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("writing nuninst cache").WithCause(err)
	}
	return nil
}

func (a NuninstCacheFileAdapter) ReadNuninstCache(path string) (migration.Nuninst, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("opening nuninst cache").WithCause(err)
	}
	defer f.Close()

	n := migration.Nuninst{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		arch, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		arch = strings.TrimSpace(arch)
		names := strings.Fields(rest)
		n[arch] = names
	}
	if err := scanner.Err(); err != nil {
		return nil, errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("reading nuninst cache").WithCause(err)
	}
	return n, nil
}
