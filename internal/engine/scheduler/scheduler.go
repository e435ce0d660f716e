// Package scheduler annotates the pages of a rendered site in parallel.
package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
)

// PageStatus represents the status of a page.
type PageStatus string

const (
	// StatusPending indicates the page is waiting to be annotated.
	StatusPending PageStatus = "Pending"
	// StatusRunning indicates the page is currently being annotated.
	StatusRunning PageStatus = "Running"
	// StatusCompleted indicates the page was rewritten with new annotations.
	StatusCompleted PageStatus = "Completed"
	// StatusFailed indicates the page could not be annotated.
	StatusFailed PageStatus = "Failed"
	// StatusCached indicates the page needed no rewrite.
	StatusCached PageStatus = "Cached"
)

// DocumentProcessor annotates the asset elements of one parsed page.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, doc *goquery.Document) (domain.Report, error)
}

// Scheduler manages the annotation of a set of pages.
type Scheduler struct {
	pages     ports.PageStore
	telemetry ports.Telemetry

	mu         sync.RWMutex
	pageStatus map[string]PageStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(pages ports.PageStore, telemetry ports.Telemetry) *Scheduler {
	return &Scheduler{
		pages:      pages,
		telemetry:  telemetry,
		pageStatus: make(map[string]PageStatus),
	}
}

func (s *Scheduler) updateStatus(page string, status PageStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageStatus[page] = status
}

// Run annotates pages with at most parallelism pages in flight.
// Every page is attempted; the failures are joined into the returned error.
func (s *Scheduler) Run(
	ctx context.Context,
	processor DocumentProcessor,
	pages []string,
	parallelism int,
) (domain.Report, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	state := s.newRunState(ctx, processor, pages, parallelism)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil {
			if state.active == 0 {
				return state.report, errors.Join(state.errs, state.ctx.Err())
			}
			// Drain the pages already in flight.
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.report, state.errs
}

type result struct {
	page   string
	report domain.Report
	err    error
}

type schedulerRunState struct {
	ready       []string
	active      int
	resultsCh   chan result
	report      domain.Report
	errs        error
	ctx         context.Context
	parallelism int
	processor   DocumentProcessor
	s           *Scheduler
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	processor DocumentProcessor,
	pages []string,
	parallelism int,
) *schedulerRunState {
	ready := make([]string, len(pages))
	copy(ready, pages)
	for _, page := range pages {
		s.updateStatus(page, StatusPending)
	}

	return &schedulerRunState{
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		parallelism: parallelism,
		processor:   processor,
		s:           s,
	}
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		page := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(page, StatusRunning)

		go func(p string) {
			report, err := state.annotatePage(state.ctx, p)
			state.resultsCh <- result{page: p, report: report, err: err}
		}(page)
	}
}

func (state *schedulerRunState) handleResult(res result) {
	state.active--
	state.report.Merge(res.report)

	switch {
	case res.err != nil:
		wrappedErr := zerr.With(zerr.Wrap(res.err, "page annotation failed"), "page", res.page)
		state.errs = errors.Join(state.errs, wrappedErr)
		state.s.updateStatus(res.page, StatusFailed)
	case res.report.Changed > 0:
		state.s.updateStatus(res.page, StatusCompleted)
	default:
		state.s.updateStatus(res.page, StatusCached)
	}
}

// annotatePage runs one page inside its own telemetry vertex.
func (state *schedulerRunState) annotatePage(ctx context.Context, page string) (domain.Report, error) {
	ctx, vertex := state.s.telemetry.Record(ctx, page)
	report, err := state.annotate(ctx, page, vertex)
	vertex.Complete(err)
	return report, err
}

func (state *schedulerRunState) annotate(ctx context.Context, page string, vertex ports.Vertex) (domain.Report, error) {
	report := domain.Report{Pages: 1}

	data, err := state.s.pages.Read(page)
	if err != nil {
		return report, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return report, zerr.With(errors.Join(domain.ErrPageReadFailed, err), "path", page)
	}

	assetReport, procErr := state.processor.ProcessDocument(ctx, doc)
	report.Merge(assetReport)
	if procErr != nil && !errors.Is(procErr, domain.ErrAssetsFailed) {
		return report, procErr
	}

	if assetReport.Assets() > 0 {
		vertex.Log(domain.LogLevelInfo, fmt.Sprintf("%d assets: %d probed, %d from cache, %d skipped, %d failed",
			assetReport.Assets(), assetReport.Probed, assetReport.Cached, assetReport.Skipped, len(assetReport.Failed)))
	}

	// Only annotated nodes change the markup; anything else keeps the page byte for byte.
	if assetReport.Probed+assetReport.Cached == 0 {
		vertex.Cached()
		return report, procErr
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc.Nodes[0]); err != nil {
		return report, zerr.With(errors.Join(domain.ErrPageWriteFailed, err), "path", page)
	}

	changed, err := state.s.pages.Write(page, buf.Bytes())
	if err != nil {
		return report, errors.Join(procErr, err)
	}
	if changed {
		report.Changed++
	} else {
		vertex.Cached()
	}

	// Strict failures are reported after the successful annotations were saved.
	return report, procErr
}
