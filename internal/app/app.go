// Package app implements the application layer for sitedims.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/sitedims/internal/adapters/cas"    //nolint:depguard // Built per run from the loaded config
	"go.trai.ch/sitedims/internal/adapters/config" //nolint:depguard // Flag overrides are validated like the file
	"go.trai.ch/sitedims/internal/adapters/fetch"  //nolint:depguard // Built per run from the loaded config
	"go.trai.ch/sitedims/internal/adapters/fs"     //nolint:depguard // Built per run from the loaded config
	"go.trai.ch/sitedims/internal/adapters/probe"  //nolint:depguard // Built per run from the loaded config
	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/sitedims/internal/engine/assets"
	"go.trai.ch/sitedims/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// pageExtensions are the rendered page types that get annotated.
var pageExtensions = []string{".html", ".htm"}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	pages        ports.PageStore
	runner       ports.CommandRunner
	client       *http.Client
	telemetry    ports.Telemetry
	workDir      string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	pages ports.PageStore,
	runner ports.CommandRunner,
	client *http.Client,
	telemetry ports.Telemetry,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		pages:        pages,
		runner:       runner,
		client:       client,
		telemetry:    telemetry,
		workDir:      ".",
	}
}

// WithWorkDir sets the directory the configuration is searched from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithTelemetry replaces the progress recorder.
// This is primarily used for testing to keep page progress off the terminal.
func (a *App) WithTelemetry(telemetry ports.Telemetry) *App {
	a.telemetry = telemetry
	return a
}

// Options are the command-line settings shared by every command.
type Options struct {
	// ConfigFile selects a config file instead of searching for sitedims.yaml.
	ConfigFile string
	// Overrides take precedence over the config file.
	Overrides domain.Overrides
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	Options
	// SkipRender annotates the existing output without rendering the Markdown sources.
	SkipRender bool
}

// Build renders the Markdown content into the output directory and annotates every page.
func (a *App) Build(ctx context.Context, opts BuildOptions) (domain.Report, error) {
	cfg, err := a.loadConfig(opts.Options)
	if err != nil {
		return domain.Report{}, err
	}

	pages := newRenderedPages(a.pages)
	if !opts.SkipRender {
		rendered, err := a.renderContent(cfg, pages)
		if err != nil {
			return domain.Report{}, err
		}
		a.logger.Info(fmt.Sprintf("rendered %d markdown pages from %s", rendered, cfg.Paths.Content))
	}

	files, err := a.listPages(cfg.Paths.Output)
	if err != nil {
		return domain.Report{}, err
	}
	files = mergeSorted(files, pages.Pending())

	report, err := a.annotate(ctx, cfg, pages, files)
	if ctx.Err() == nil {
		// Rendered pages without assets are never written by the scheduler.
		err = errors.Join(err, pages.Flush())
	}
	return report, err
}

// Annotate adds dimensions to the given pages. Without files every page below the
// output directory is annotated.
func (a *App) Annotate(ctx context.Context, files []string, opts Options) (domain.Report, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return domain.Report{}, err
	}

	if len(files) == 0 {
		files, err = a.listPages(cfg.Paths.Output)
		if err != nil {
			return domain.Report{}, err
		}
	} else {
		files = a.absolute(files)
	}

	return a.annotate(ctx, cfg, a.pages, files)
}

func (a *App) annotate(
	ctx context.Context,
	cfg domain.Config,
	pages ports.PageStore,
	files []string,
) (domain.Report, error) {
	defer func() {
		_ = a.telemetry.Close()
	}()

	if len(files) == 0 {
		a.logger.Warn("no pages to annotate below " + cfg.Paths.Output)
		return domain.Report{}, nil
	}

	store := cas.NewStore(cfg.CachePath, a.logger)
	processor := assets.NewProcessor(
		fs.NewResolver(cfg.Paths, cfg.Offline),
		fetch.New(a.client, cfg.Fetch, a.logger),
		probe.New(a.runner, cfg.Probe.Command),
		store,
		a.logger,
		assets.Options{Strict: cfg.Strict, Concurrency: cfg.Concurrency},
	)
	sched := scheduler.NewScheduler(pages, a.telemetry)

	report, runErr := sched.Run(ctx, processor, files, cfg.Concurrency)

	// The cache keeps whatever was probed, even when some pages failed.
	flushErr := processor.Flush()
	a.logger.Info(report.Summary())

	if runErr != nil {
		return report, errors.Join(domain.ErrBuildExecutionFailed, runErr, flushErr)
	}
	if flushErr != nil {
		return report, zerr.Wrap(flushErr, "failed to save dimension cache")
	}
	return report, nil
}

func (a *App) loadConfig(opts Options) (domain.Config, error) {
	cfg, err := a.configLoader.Load(a.workDir, opts.ConfigFile)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}

	cfg = opts.Overrides.Apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// listPages returns the pages below root. A missing root has no pages.
func (a *App) listPages(root string) ([]string, error) {
	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	files, err := a.pages.List(root, pageExtensions...)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list pages")
	}
	return files, nil
}

func (a *App) absolute(files []string) []string {
	base, err := filepath.Abs(a.workDir)
	if err != nil {
		base = a.workDir
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, domain.JoinRoot(base, f))
	}
	return out
}

// mergeSorted returns the sorted union of a and b.
func mergeSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
