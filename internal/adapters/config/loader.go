// Package config provides the configuration loader for sitedims.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the build configuration.
//
// With an explicit file, that file must exist. Otherwise sitedims.yaml is searched for in cwd
// and its parents; when none is found the defaults rooted at cwd are returned.
func (l *Loader) Load(cwd, file string) (domain.Config, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return domain.Config{}, zerr.With(errors.Join(domain.ErrFailedToGetRoot, err), "cwd", cwd)
	}

	var configPath string
	if file != "" {
		configPath = domain.JoinRoot(absCwd, file)
	} else {
		configPath = findConfiguration(absCwd)
	}

	if configPath == "" {
		return domain.DefaultConfig(absCwd), nil
	}

	var sitefile Sitefile
	if err := readAndUnmarshalYAML(configPath, &sitefile); err != nil {
		return domain.Config{}, err
	}

	if sitefile.Version != "" && sitefile.Version != domain.ConfigVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q; this build understands version %q",
			configPath, sitefile.Version, domain.ConfigVersion))
	}

	cfg, err := buildConfig(resolveRoot(configPath, sitefile.Root), &sitefile)
	if err != nil {
		return domain.Config{}, zerr.With(err, "config", configPath)
	}
	return cfg, nil
}

// findConfiguration walks from cwd to the filesystem root looking for sitedims.yaml.
func findConfiguration(cwd string) string {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

func buildConfig(root string, sf *Sitefile) (domain.Config, error) {
	cfg := domain.DefaultConfig(root)

	overridePath(&cfg.Paths.Content, root, sf.Content)
	overridePath(&cfg.Paths.Output, root, sf.Output)
	overridePath(&cfg.Paths.Static, root, sf.Static)
	overridePath(&cfg.Paths.Staging, root, sf.Staging)
	overridePath(&cfg.CachePath, root, sf.Cache)

	if sf.Offline != nil {
		cfg.Offline = *sf.Offline
	}
	if sf.Strict != nil {
		cfg.Strict = *sf.Strict
	}
	if sf.Concurrency != nil {
		cfg.Concurrency = *sf.Concurrency
	}
	if sf.Fetch.Attempts != nil {
		cfg.Fetch.Attempts = *sf.Fetch.Attempts
	}
	if sf.Fetch.Timeout != "" {
		timeout, err := time.ParseDuration(sf.Fetch.Timeout)
		if err != nil {
			return domain.Config{}, zerr.With(errors.Join(domain.ErrInvalidConfig, err), "field", "fetch.timeout")
		}
		cfg.Fetch.Timeout = timeout
	}
	if sf.Probe.Command != "" {
		cfg.Probe.Command = sf.Probe.Command
	}
	if sf.Markdown != nil {
		cfg.Markdown.Extensions = sf.Markdown.Extensions
	}

	if err := Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a config file or command-line flags can get wrong.
func Validate(cfg domain.Config) error {
	switch {
	case cfg.Concurrency < 1:
		return invalid("concurrency", fmt.Sprintf("concurrency must be at least 1, got %d", cfg.Concurrency))
	case cfg.Fetch.Attempts < 0:
		return invalid("fetch.attempts", fmt.Sprintf("fetch attempts must not be negative, got %d", cfg.Fetch.Attempts))
	case cfg.Fetch.Timeout < 0:
		return invalid("fetch.timeout", "fetch timeout must not be negative, got "+cfg.Fetch.Timeout.String())
	}
	return nil
}

func invalid(field, detail string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, detail), "field", field)
}

func overridePath(dst *string, root, configured string) {
	if configured != "" {
		*dst = domain.JoinRoot(root, configured)
	}
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	return domain.JoinRoot(configDir, configuredRoot)
}

// readAndUnmarshalYAML reads a YAML file and strictly decodes it into target.
// An empty file decodes to the zero value.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the user
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "config", configPath)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "config", configPath)
	}
	return nil
}
