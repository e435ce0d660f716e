// Package assets annotates asset elements of rendered pages with their pixel dimensions.
package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Options tunes a Processor.
type Options struct {
	// Strict turns any per-asset failure in a document into an error.
	Strict bool
	// Concurrency bounds the assets of one document resolved in parallel.
	Concurrency int
}

// Processor resolves, measures and annotates asset nodes.
// Dimensions are served from the store when possible; misses are fetched and probed once per
// canonical key, even when several nodes ask concurrently.
type Processor struct {
	resolver ports.SourceResolver
	fetcher  ports.Fetcher
	prober   ports.Prober
	store    ports.DimensionStore
	logger   ports.Logger
	opts     Options

	requestGroup singleflight.Group
}

// NewProcessor creates a Processor.
func NewProcessor(
	resolver ports.SourceResolver,
	fetcher ports.Fetcher,
	prober ports.Prober,
	store ports.DimensionStore,
	logger ports.Logger,
	opts Options,
) *Processor {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Processor{
		resolver: resolver,
		fetcher:  fetcher,
		prober:   prober,
		store:    store,
		logger:   logger,
		opts:     opts,
	}
}

// probeResult is what a deduplicated lookup hands to every waiting caller.
type probeResult struct {
	dim    domain.Dimension
	cached bool
}

// ProcessAsset annotates a single node. Offline remote assets are skipped without touching
// the node or the store. On failure the node is left as it was.
func (p *Processor) ProcessAsset(ctx context.Context, node Node) (domain.Outcome, error) {
	dim, outcome, err := p.resolve(ctx, node)
	if err != nil {
		return outcome, err
	}
	if outcome == domain.OutcomeProbed || outcome == domain.OutcomeCached {
		applyDimension(node.Selection, dim)
	}
	return outcome, nil
}

// ProcessDocument annotates every asset node of doc. A failing asset is recorded in the report
// and does not stop the others; in strict mode the failures are also returned as an error.
func (p *Processor) ProcessDocument(ctx context.Context, doc *goquery.Document) (domain.Report, error) {
	nodes := Collect(doc)

	var (
		mu     sync.Mutex
		report domain.Report
		g      errgroup.Group
	)
	g.SetLimit(p.opts.Concurrency)

	for _, node := range nodes {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			dim, outcome, err := p.resolve(ctx, node)

			// Elements of one document share a tree, so mutation is serialized.
			mu.Lock()
			defer mu.Unlock()
			if err == nil && (outcome == domain.OutcomeProbed || outcome == domain.OutcomeCached) {
				applyDimension(node.Selection, dim)
			}
			report.Record(node.Src, outcome, err)
			if err != nil {
				p.logger.Warn(fmt.Sprintf("could not determine dimensions of %s: %v", node.Src, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if p.opts.Strict && len(report.Failed) > 0 {
		return report, zerr.With(errors.Join(domain.ErrAssetsFailed, report.Err()), "failed_assets", len(report.Failed))
	}
	return report, nil
}

// Flush persists the dimension cache if anything was added during this build.
func (p *Processor) Flush() error {
	return p.store.Flush()
}

func (p *Processor) resolve(ctx context.Context, node Node) (domain.Dimension, domain.Outcome, error) {
	target := p.resolver.Resolve(node.Src)
	if target.Skip {
		return domain.Dimension{}, domain.OutcomeSkipped, nil
	}

	key := target.Key()
	if dim, ok := p.store.Get(key); ok {
		return dim, domain.OutcomeCached, nil
	}

	result, err, _ := p.requestGroup.Do(key, func() (any, error) {
		// Another caller may have finished probing this key while we waited.
		if dim, ok := p.store.Get(key); ok {
			return probeResult{dim: dim, cached: true}, nil
		}

		asset, err := p.fetcher.Fetch(ctx, target)
		if err != nil {
			return nil, err
		}
		dim, err := p.prober.Probe(ctx, asset)
		if err != nil {
			return nil, err
		}

		p.store.Put(key, dim)
		return probeResult{dim: dim}, nil
	})
	if err != nil {
		return domain.Dimension{}, domain.OutcomeFailed, zerr.With(zerr.Wrap(err, "asset "+node.Src), "src", node.Src)
	}

	res, ok := result.(probeResult)
	if !ok {
		return domain.Dimension{}, domain.OutcomeFailed, zerr.With(zerr.New("unexpected probe result"), "src", node.Src)
	}
	if res.cached {
		return res.dim, domain.OutcomeCached, nil
	}
	return res.dim, domain.OutcomeProbed, nil
}
