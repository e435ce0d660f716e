// Package fetch implements the Fetcher port for remote and local assets.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/zerr"
)

// Fetcher implements ports.Fetcher over an http.Client and the local filesystem.
type Fetcher struct {
	client *http.Client
	cfg    domain.FetchConfig
	logger ports.Logger
}

// NewClient returns the HTTP client shared by every build.
// Per-attempt deadlines come from the request context, so the client itself carries none.
func NewClient() *http.Client {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return &http.Client{}
	}
	return &http.Client{Transport: transport.Clone()}
}

// New creates a Fetcher that retries transient failures up to cfg.Attempts times.
func New(client *http.Client, cfg domain.FetchConfig, logger ports.Logger) *Fetcher {
	if client == nil {
		client = NewClient()
	}
	return &Fetcher{client: client, cfg: cfg, logger: logger}
}

// Fetch retrieves the asset behind target.
func (f *Fetcher) Fetch(ctx context.Context, target domain.ResolvedTarget) (*domain.Asset, error) {
	if target.Skip {
		return nil, zerr.With(zerr.Wrap(domain.ErrAssetSkipped, target.Location), "url", target.Location)
	}
	if target.IsRemote() {
		return f.fetchRemote(ctx, target)
	}
	return fetchLocal(target)
}

// transientError marks a failure that is worth another attempt.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

func (f *Fetcher) fetchRemote(ctx context.Context, target domain.ResolvedTarget) (*domain.Asset, error) {
	if f.cfg.Attempts <= 0 {
		err := zerr.With(zerr.Wrap(domain.ErrNoFetchAttempts, target.Location), "url", target.Location)
		return nil, zerr.With(err, "attempts", f.cfg.Attempts)
	}

	var lastErr error
	for attempt := 1; attempt <= f.cfg.Attempts; attempt++ {
		asset, err := f.get(ctx, target)
		if err == nil {
			return asset, nil
		}

		var transient *transientError
		if !errors.As(err, &transient) {
			return nil, err
		}
		lastErr = transient.err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < f.cfg.Attempts {
			f.logger.Info(fmt.Sprintf("retrying %s (attempt %d of %d): %v",
				target.Location, attempt+1, f.cfg.Attempts, lastErr))
		}
	}

	err := zerr.With(errors.Join(domain.ErrFetchRetriesExhausted, lastErr), "url", target.Location)
	return nil, zerr.With(err, "attempts", f.cfg.Attempts)
}

func (f *Fetcher) get(ctx context.Context, target domain.ResolvedTarget) (*domain.Asset, error) {
	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.Location, http.NoBody)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrFetchRequestFailed, err), "url", target.Location)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := zerr.Wrap(domain.ErrFetchStatus, fmt.Sprintf("GET %s returned %s", target.Location, resp.Status))
		statusErr = zerr.With(statusErr, "url", target.Location)
		return nil, zerr.With(statusErr, "status_code", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	asset := &domain.Asset{
		Target:      target,
		ContentType: contentType,
		Kind:        domain.ClassifyMedia(contentType, target.Location),
	}

	if asset.Kind == domain.MediaVideo {
		// The probe command reads the URL itself; release the stream unread.
		_ = resp.Body.Close()
		asset.Streamed = true
		return asset, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transientError{err: err}
	}
	asset.Data = data
	return asset, nil
}

func fetchLocal(target domain.ResolvedTarget) (*domain.Asset, error) {
	info, err := os.Stat(target.Location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrAssetNotFound, target.Location), "path", target.Location)
		}
		return nil, zerr.With(errors.Join(domain.ErrAssetReadFailed, err), "path", target.Location)
	}
	if info.IsDir() {
		return nil, zerr.With(zerr.Wrap(domain.ErrAssetNotFound, target.Location+" is a directory"), "path", target.Location)
	}

	contentType := domain.ContentTypeForPath(target.Location)
	asset := &domain.Asset{
		Target:      target,
		ContentType: contentType,
		Kind:        domain.ClassifyMedia(contentType, target.Location),
	}
	if asset.Kind == domain.MediaVideo {
		asset.Streamed = true
		return asset, nil
	}

	data, err := os.ReadFile(target.Location)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrAssetReadFailed, err), "path", target.Location)
	}
	asset.Data = data
	return asset, nil
}
