package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/f2fguard/internal/domain"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View previously stored check reports",
		Long:  "View check reports stored by an earlier run from the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.View(domain.ViewArgs{Reports: m.Path(currentSettings().Reports)})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
