// Package commands implements the CLI commands for sitedims.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/sitedims/internal/app"
	"go.trai.ch/sitedims/internal/build"
	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
)

// jsonSwitcher is implemented by loggers that can switch to JSON output.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for sitedims.
type CLI struct {
	app     *app.App
	logger  ports.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "sitedims",
		Short:         "Render a Markdown site and annotate its images and videos with their dimensions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the config file (default: search for "+
		domain.ConfigFileName+")")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if s, ok := c.logger.(jsonSwitcher); ok && jsonLogs {
			s.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newAnnotateCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut sets the destination for command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

// addRunFlags registers the flags that override the build settings of the config file.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("offline", false, "Skip remote assets instead of fetching them")
	cmd.Flags().Bool("strict", false, "Fail the build when any asset cannot be measured")
	cmd.Flags().Int("attempts", domain.DefaultFetchAttempts, "Attempts per remote asset before giving up")
	cmd.Flags().IntP("concurrency", "j", domain.DefaultConcurrency, "Pages and assets processed in parallel")
}

// runOptions collects the global flags and the explicitly set run flags.
func runOptions(cmd *cobra.Command) app.Options {
	opts := app.Options{}
	opts.ConfigFile, _ = cmd.Flags().GetString("config")

	flags := cmd.Flags()
	if flags.Changed("offline") {
		v, _ := flags.GetBool("offline")
		opts.Overrides.Offline = &v
	}
	if flags.Changed("strict") {
		v, _ := flags.GetBool("strict")
		opts.Overrides.Strict = &v
	}
	if flags.Changed("attempts") {
		v, _ := flags.GetInt("attempts")
		opts.Overrides.Attempts = &v
	}
	if flags.Changed("concurrency") {
		v, _ := flags.GetInt("concurrency")
		opts.Overrides.Concurrency = &v
	}
	return opts
}
