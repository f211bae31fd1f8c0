package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/f2fguard/internal/domain"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

// funcCmd represents the func command.
var funcCmd = newFuncCmd()
var funcLineFlag int

func newFuncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "func FILE NAME",
		Short: "Check a single function or class constructor",
		Long: `Check a single callable. NAME is a function name, a class name (its
constructor is checked) or Class.method. Use --line to pick one of several
definitions sharing a name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Func(cmd.Context(), domain.FuncArgs{
				Path:   m.Path(args[0]),
				Name:   args[1],
				Line:   funcLineFlag,
				Naming: currentSettings().Validator,
			})
		},
	}
	cmd.Flags().IntVarP(&funcLineFlag, "line", "l", 0, "line of the definition when the name is defined more than once")

	return cmd
}

func init() {
	rootCmd.AddCommand(funcCmd)
}
