package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or remove the dimension cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every cached dimension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.CacheShow(cmd.OutOrStdout(), runOptions(cmd))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the dimension cache file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.CacheClear(runOptions(cmd))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the location of the dimension cache file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := c.app.CachePath(runOptions(cmd))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	})

	return cmd
}
