package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sitedims/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the Markdown content and annotate every page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noRender, _ := cmd.Flags().GetBool("no-render")
			_, err := c.app.Build(cmd.Context(), app.BuildOptions{
				Options:    runOptions(cmd),
				SkipRender: noRender,
			})
			return err
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Bool("no-render", false, "Only annotate the pages already in the output directory")
	return cmd
}
