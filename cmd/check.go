package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/f2fguard/internal/domain"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

// checkOptions holds the flags shared by the root command and check.
type checkOptions struct {
	failFast bool
	parallel int
	exclude  []string
	noStore  bool
}

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

const checkLongDescription = `Check every callable under the given paths.

Each unit is analyzed on its own; an unreadable file or a failing function
never stops the analysis of the others unless --fail-fast is set, in which
case a unit stops at its first failing callable. Results are stored in the
reports directory for later use with "f2fguard view".`

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check validation coverage of Python sources",
		Long:  checkLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	bindCheckFlags(cmd, opts)

	return cmd
}

func bindCheckFlags(cmd *cobra.Command, opts *checkOptions) {
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "stop a unit at its first failing callable")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 1, "number of files analyzed concurrently")
	cmd.Flags().StringArrayVarP(&opts.exclude, "exclude", "x", nil, "exclude files matching regex (can be repeated)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "do not write reports")
}

func runCheck(cmd *cobra.Command, opts *checkOptions, args []string) error {
	cfg := currentSettings()
	failFast, threads := cfg.FailFast, cfg.Parallel

	if cmd.Flags().Changed("fail-fast") {
		failFast = opts.failFast
	}

	if cmd.Flags().Changed("parallel") {
		threads = opts.parallel
	}

	return workflow.Check(cmd.Context(), domain.CheckArgs{
		ListArgs: domain.ListArgs{
			Paths:   parsePaths(args),
			Exclude: mergeExcludes(cfg.Exclude, opts.exclude),
			Naming:  cfg.Validator,
		},
		Reports:  m.Path(cfg.Reports),
		Store:    !opts.noStore,
		Threads:  threads,
		FailFast: failFast,
	})
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func mergeExcludes(configured, flagged []string) []string {
	merged := make([]string, 0, len(configured)+len(flagged))
	merged = append(merged, configured...)

	return append(merged, flagged...)
}
