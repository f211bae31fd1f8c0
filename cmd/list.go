package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/f2fguard/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()
var listExcludeFlags []string

const listLongDescription = `List every function and constructor under the given paths together with
the validators each annotated parameter requires. Function bodies are not
inspected.`

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List callables and their required validators",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := currentSettings()

			return workflow.List(cmd.Context(), domain.ListArgs{
				Paths:   parsePaths(args),
				Exclude: mergeExcludes(cfg.Exclude, listExcludeFlags),
				Naming:  cfg.Validator,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&listExcludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
