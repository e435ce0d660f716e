package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newAnnotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate [pages...]",
		Short: "Annotate rendered pages (default: every page in the output directory)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.Annotate(cmd.Context(), args, runOptions(cmd))
			return err
		},
	}
	addRunFlags(cmd)
	return cmd
}
