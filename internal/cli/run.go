package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/debarchive/britney/internal/app"
	"github.com/debarchive/britney/internal/hints"
)

type runOptions struct {
	SeriesDir         string
	HintsDir          string
	Output            string
	Architectures     []string
	Actions           []string
	DryRun            bool
	HintTester        bool
	NuninstCache      string
	PrintUninst       bool
	ComputeMigrations bool
}

func newRunCommand(root *RootConfig) *cobra.Command {
	opts := runOptions{ComputeMigrations: true}
	var noComputeMigrations bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the main migration pass, hint passes, and the auto-hinter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noComputeMigrations {
				_ = cmd.Flags().Set("compute-migrations", "false")
			}
			return runMigration(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.SeriesDir, "archive-dir", "", "Series directory containing the suite mirrors")
	cmd.Flags().StringVar(&opts.HintsDir, "hints", "", "Directory of per-user hint files")
	cmd.Flags().StringVar(&opts.Output, "output", "out", "Output directory for excuses.yaml, HeidiResult, HeidiDelta")
	cmd.Flags().StringSliceVar(&opts.Architectures, "architectures", nil, "Override the config's ARCHITECTURES list")
	cmd.Flags().StringSliceVar(&opts.Actions, "actions", nil, "Restrict the printed list of migrated items to these names")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Compute excuses and migrations but write no output files")
	cmd.Flags().BoolVar(&opts.HintTester, "hint-tester", false, "Read one hint per line from stdin, report its effect, write nothing")
	cmd.Flags().StringVar(&opts.NuninstCache, "nuninst-cache", "", "Path to write the nuninst cache to (the cache is not read back)")
	cmd.Flags().BoolVar(&opts.PrintUninst, "print-uninst", false, "Print the computed not-installable set to stdout")
	cmd.Flags().BoolVar(&opts.ComputeMigrations, "compute-migrations", true, "Run migration passes (--no-compute-migrations stops after excuses)")
	cmd.Flags().BoolVar(&noComputeMigrations, "no-compute-migrations", false, "Stop after computing excuses")
	_ = viper.BindPFlag("compute_migrations", cmd.Flags().Lookup("compute-migrations"))
	_ = viper.BindPFlag("archive_dir", cmd.Flags().Lookup("archive-dir"))
	_ = viper.BindPFlag("hints", cmd.Flags().Lookup("hints"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("architectures", cmd.Flags().Lookup("architectures"))
	_ = viper.BindPFlag("actions", cmd.Flags().Lookup("actions"))
	return cmd
}

func runMigration(cmd *cobra.Command, root *RootConfig, opts runOptions) error {
	series := resolveString(cmd, root.Series, "series", "series")
	if series == "" {
		series = resolveString(cmd, root.Distribution, "distribution", "distribution")
	}

	runOpts := app.RunOptions{
		SeriesDir:             resolveString(cmd, opts.SeriesDir, "archive_dir", "archive-dir"),
		ConfigPath:            root.ConfigFile,
		Series:                series,
		HintsDir:              resolveString(cmd, opts.HintsDir, "hints", "hints"),
		OutputDir:             resolveString(cmd, opts.Output, "output", "output"),
		DryRun:                opts.DryRun || opts.HintTester,
		ComputeMigrations:     resolveBool(cmd, opts.ComputeMigrations, "compute_migrations", "compute-migrations"),
		NuninstCachePath:      opts.NuninstCache,
		PrintUninst:           opts.PrintUninst,
		ArchitecturesOverride: resolveStrings(cmd, opts.Architectures, "architectures", "architectures"),
	}

	service := newAppService()

	if opts.HintTester {
		return runHintTester(cmd, service, runOpts)
	}

	report, err := service.Run(cmd.Context(), log.Logger, runOpts)
	if err != nil {
		return err
	}
	printReport(report, opts, resolveStrings(cmd, opts.Actions, "actions", "actions"))
	return nil
}

// runHintTester reads hint lines from stdin under PermissionAll, adds them
// to a throwaway hint store ahead of the main Run, and prints the items
// that would migrate without writing any output file — a quick "would this
// hint help" check (spec.md §6 --hint-tester), mirroring --dry-run except
// for the extra stdin hint source.
func runHintTester(cmd *cobra.Command, service app.Service, opts app.RunOptions) error {
	lines, err := readStdinLines()
	if err != nil {
		return err
	}
	opts.HintTesterLines = lines
	opts.HintTesterUser = "hint-tester"
	opts.HintTesterPermission = hints.PermissionAll

	report, err := service.Run(cmd.Context(), log.Logger, opts)
	if err != nil {
		return err
	}
	fmt.Printf("hint-tester: %d item(s) would migrate\n", len(report.Accepted))
	for _, item := range report.Accepted {
		fmt.Printf("  %s\n", item)
	}
	return nil
}

func readStdinLines() ([]string, error) {
	scanner := bufio.NewScanner(os.Stdin)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func printReport(report app.RunReport, opts runOptions, actions []string) {
	filter := map[string]bool{}
	for _, a := range actions {
		filter[a] = true
	}
	fmt.Printf("migrated %d item(s)\n", len(report.Accepted))
	for _, item := range report.Accepted {
		if len(filter) > 0 && !filter[item] {
			continue
		}
		fmt.Printf("  %s\n", item)
	}
	if opts.PrintUninst {
		for _, arch := range sortedArches(report.Nuninst) {
			fmt.Printf("uninstallable on %s: %s\n", arch, strings.Join(report.Nuninst[arch], " "))
		}
	}
}

func sortedArches[T any](m map[string]T) []string {
	arches := make([]string, 0, len(m))
	for arch := range m {
		arches = append(arches, arch)
	}
	sort.Strings(arches)
	return arches
}
