package scheduler_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/sitedims/internal/core/ports/mocks"
	"go.trai.ch/sitedims/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

const (
	pageWithImage = `<html><head></head><body><img src="/a.png"/></body></html>`
	pageNoAssets  = `<html><head></head><body><p>text only</p></body></html>`
	pageTwoImages = `<html><head></head><body><img src="/missing.png"/><img src="/a.png"/></body></html>`
	pageLoose     = "<!doctype html>\n<p class=x>a<br>b &amp; c</p>\n<img src=\"https://cdn.example.com/x.png\">\n"
)

// stampProcessor marks every img with a fixed size, counting each as probed.
// With err set, the images named in failing (or all of them when it is empty) fail instead.
// With skip set, every image is skipped.
type stampProcessor struct {
	err     error
	failing []string
	skip    bool
}

func (p *stampProcessor) fails(src string) bool {
	if p.err == nil {
		return false
	}
	return len(p.failing) == 0 || slices.Contains(p.failing, src)
}

func (p *stampProcessor) ProcessDocument(_ context.Context, doc *goquery.Document) (domain.Report, error) {
	var report domain.Report
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if p.skip {
			report.Record(src, domain.OutcomeSkipped, nil)
			return
		}
		if p.fails(src) {
			report.Record(src, domain.OutcomeFailed, p.err)
			return
		}
		s.SetAttr("width", "10")
		s.SetAttr("height", "20")
		report.Record(src, domain.OutcomeProbed, nil)
	})
	if p.err != nil {
		return report, errors.Join(domain.ErrAssetsFailed, report.Err())
	}
	return report, nil
}

type schedulerTestMocks struct {
	pages     *mocks.MockPageStore
	telemetry *mocks.MockTelemetry
}

// setupSchedulerTest creates a scheduler and common mocks.
func setupSchedulerTest(t *testing.T) (*scheduler.Scheduler, schedulerTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := schedulerTestMocks{
		pages:     mocks.NewMockPageStore(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
	}

	// Default optimistic mocks to reduce noise in specific tests.
	mockVertex := mocks.NewMockVertex(ctrl)
	mockVertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
	mockVertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	mockVertex.EXPECT().Cached().AnyTimes()

	m.telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, mockVertex
		},
	).AnyTimes()

	return scheduler.NewScheduler(m.pages, m.telemetry), m
}

func TestRun_RewritesPagesWithAssets(t *testing.T) {
	s, m := setupSchedulerTest(t)

	m.pages.EXPECT().Read("a.html").Return([]byte(pageWithImage), nil)
	m.pages.EXPECT().Read("b.html").Return([]byte(pageNoAssets), nil)
	m.pages.EXPECT().Read("c.html").Return([]byte(pageWithImage), nil)

	var written []byte
	m.pages.EXPECT().Write("a.html", gomock.Any()).DoAndReturn(func(_ string, data []byte) (bool, error) {
		written = data
		return true, nil
	})
	m.pages.EXPECT().Write("c.html", gomock.Any()).Return(false, nil)

	report, err := s.Run(context.Background(), &stampProcessor{}, []string{"a.html", "b.html", "c.html"}, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Pages)
	assert.Equal(t, 1, report.Changed)
	assert.Equal(t, 2, report.Probed)
	assert.Contains(t, string(written), `<img src="/a.png" width="10" height="20"/>`)

	assert.Equal(t, map[string]scheduler.PageStatus{
		"a.html": scheduler.StatusCompleted,
		"b.html": scheduler.StatusCached,
		"c.html": scheduler.StatusCached,
	}, s.GetPageStatusMap())
}

func TestRun_ReadFailureDoesNotStopOtherPages(t *testing.T) {
	s, m := setupSchedulerTest(t)

	readErr := pageReadError("broken.html")
	m.pages.EXPECT().Read("broken.html").Return(nil, readErr)
	m.pages.EXPECT().Read("ok.html").Return([]byte(pageWithImage), nil)
	m.pages.EXPECT().Write("ok.html", gomock.Any()).Return(true, nil)

	report, err := s.Run(context.Background(), &stampProcessor{}, []string{"broken.html", "ok.html"}, 1)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrPageReadFailed)

	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, 1, report.Changed)

	statuses := s.GetPageStatusMap()
	assert.Equal(t, scheduler.StatusFailed, statuses["broken.html"])
	assert.Equal(t, scheduler.StatusCompleted, statuses["ok.html"])
}

func TestRun_StrictFailureStillWritesPage(t *testing.T) {
	s, m := setupSchedulerTest(t)

	m.pages.EXPECT().Read("a.html").Return([]byte(pageTwoImages), nil)
	var written []byte
	m.pages.EXPECT().Write("a.html", gomock.Any()).DoAndReturn(func(_ string, data []byte) (bool, error) {
		written = data
		return true, nil
	})

	errProbe := errors.New("probe exploded")
	proc := &stampProcessor{err: errProbe, failing: []string{"/missing.png"}}
	report, err := s.Run(context.Background(), proc, []string{"a.html"}, 1)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrAssetsFailed)
	require.ErrorIs(t, err, errProbe)

	require.Len(t, report.Failed, 1)
	assert.Equal(t, "/missing.png", report.Failed[0].Src)
	assert.Equal(t, 1, report.Changed)
	assert.Contains(t, string(written), `<img src="/a.png" width="10" height="20"/>`)
	assert.Equal(t, scheduler.StatusFailed, s.GetPageStatusMap()["a.html"])
}

func TestRun_AllFailedPageIsNotWritten(t *testing.T) {
	s, m := setupSchedulerTest(t)

	// No Write is expected: the mock fails the test if one happens.
	m.pages.EXPECT().Read("a.html").Return([]byte(pageWithImage), nil)

	errProbe := errors.New("probe exploded")
	report, err := s.Run(context.Background(), &stampProcessor{err: errProbe}, []string{"a.html"}, 1)
	require.ErrorIs(t, err, domain.ErrAssetsFailed)

	require.Len(t, report.Failed, 1)
	assert.Zero(t, report.Changed)
	assert.Equal(t, scheduler.StatusFailed, s.GetPageStatusMap()["a.html"])
}

func TestRun_SkippedPageKeepsMarkup(t *testing.T) {
	s, m := setupSchedulerTest(t)

	// Re-serializing would quote attributes and add html/head/body, so no Write may happen.
	m.pages.EXPECT().Read("loose.html").Return([]byte(pageLoose), nil)

	report, err := s.Run(context.Background(), &stampProcessor{skip: true}, []string{"loose.html"}, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Pages)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Changed)
	assert.Equal(t, scheduler.StatusCached, s.GetPageStatusMap()["loose.html"])
}

func TestRun_WriteFailure(t *testing.T) {
	s, m := setupSchedulerTest(t)

	m.pages.EXPECT().Read("a.html").Return([]byte(pageWithImage), nil)
	m.pages.EXPECT().Write("a.html", gomock.Any()).Return(false, domain.ErrPageWriteFailed)

	_, err := s.Run(context.Background(), &stampProcessor{}, []string{"a.html"}, 1)
	require.ErrorIs(t, err, domain.ErrPageWriteFailed)
	assert.Equal(t, scheduler.StatusFailed, s.GetPageStatusMap()["a.html"])
}

// blockingProcessor holds every document until released and tracks how many are in flight.
type blockingProcessor struct {
	release  chan struct{}
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (p *blockingProcessor) ProcessDocument(_ context.Context, _ *goquery.Document) (domain.Report, error) {
	n := p.inFlight.Add(1)
	for {
		seen := p.maxSeen.Load()
		if n <= seen || p.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	<-p.release
	p.inFlight.Add(-1)
	return domain.Report{}, nil
}

func TestRun_RespectsParallelism(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, m := setupSchedulerTest(t)
		pages := []string{"1.html", "2.html", "3.html", "4.html", "5.html"}
		m.pages.EXPECT().Read(gomock.Any()).Return([]byte(pageNoAssets), nil).Times(len(pages))

		proc := &blockingProcessor{release: make(chan struct{})}

		var (
			wg     sync.WaitGroup
			report domain.Report
			runErr error
		)
		wg.Go(func() {
			report, runErr = s.Run(context.Background(), proc, pages, 2)
		})

		synctest.Wait()
		assert.Equal(t, int32(2), proc.inFlight.Load())

		close(proc.release)
		wg.Wait()

		require.NoError(t, runErr)
		assert.Equal(t, len(pages), report.Pages)
		assert.Equal(t, int32(2), proc.maxSeen.Load())
		for _, p := range pages {
			assert.Equal(t, scheduler.StatusCached, s.GetPageStatusMap()[p])
		}
	})
}

func TestRun_CancelledContext(t *testing.T) {
	s, _ := setupSchedulerTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := s.Run(ctx, &stampProcessor{}, []string{"a.html", "b.html"}, 2)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Pages)

	statuses := s.GetPageStatusMap()
	assert.Equal(t, scheduler.StatusPending, statuses["a.html"])
	assert.Equal(t, scheduler.StatusPending, statuses["b.html"])
}

func TestRun_CancelDrainsInFlightPages(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, m := setupSchedulerTest(t)
		m.pages.EXPECT().Read("1.html").Return([]byte(pageNoAssets), nil)

		proc := &blockingProcessor{release: make(chan struct{})}
		ctx, cancel := context.WithCancel(context.Background())

		var (
			wg     sync.WaitGroup
			runErr error
		)
		wg.Go(func() {
			_, runErr = s.Run(ctx, proc, []string{"1.html", "2.html"}, 1)
		})

		synctest.Wait()
		cancel()
		close(proc.release)
		wg.Wait()

		require.ErrorIs(t, runErr, context.Canceled)
		statuses := s.GetPageStatusMap()
		assert.Equal(t, scheduler.StatusCached, statuses["1.html"])
		assert.Equal(t, scheduler.StatusPending, statuses["2.html"])
	})
}

func pageReadError(path string) error {
	return errors.Join(domain.ErrPageReadFailed, errors.New("permission denied: "+path))
}
