package app

import (
	"fmt"
	"io"
	"sort"

	"go.trai.ch/sitedims/internal/adapters/cas" //nolint:depguard // Built per run from the loaded config
	"go.trai.ch/zerr"
)

// CachePath returns the location of the dimension cache file.
func (a *App) CachePath(opts Options) (string, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return "", err
	}
	return cfg.CachePath, nil
}

// CacheShow writes one "key WxH" line per cached dimension, sorted by key.
func (a *App) CacheShow(w io.Writer, opts Options) error {
	path, err := a.CachePath(opts)
	if err != nil {
		return err
	}

	entries := cas.NewStore(path, a.logger).Snapshot()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s %s\n", k, entries[k]); err != nil {
			return zerr.Wrap(err, "failed to print cache entry")
		}
	}
	return nil
}

// CacheClear removes the dimension cache file.
func (a *App) CacheClear(opts Options) error {
	path, err := a.CachePath(opts)
	if err != nil {
		return err
	}

	a.logger.Info("removing dimension cache " + path)
	if err := cas.NewStore(path, a.logger).Clear(); err != nil {
		return err
	}
	a.logger.Info("removed dimension cache")
	return nil
}
