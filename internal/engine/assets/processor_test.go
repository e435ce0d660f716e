package assets_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitedims/internal/adapters/cas"
	"go.trai.ch/sitedims/internal/adapters/fs"
	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports/mocks"
	"go.trai.ch/sitedims/internal/engine/assets"
	"go.uber.org/mock/gomock"
	"golang.org/x/net/html"
)

type fixture struct {
	paths     domain.Paths
	store     *cas.Store
	fetcher   *mocks.MockFetcher
	prober    *mocks.MockProber
	logger    *mocks.MockLogger
	processor *assets.Processor
}

func newFixture(t *testing.T, offline, strict bool) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	root := t.TempDir()

	f := &fixture{
		paths:   domain.DefaultConfig(root).Paths,
		fetcher: mocks.NewMockFetcher(ctrl),
		prober:  mocks.NewMockProber(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
	}
	f.store = cas.NewStore(filepath.Join(root, domain.DefaultCachePath()), f.logger)
	f.processor = assets.NewProcessor(
		fs.NewResolver(f.paths, offline),
		f.fetcher,
		f.prober,
		f.store,
		f.logger,
		assets.Options{Strict: strict, Concurrency: 4},
	)
	return f
}

// expectProbe makes location measure as dim exactly once.
func (f *fixture) expectProbe(location string, dim domain.Dimension) {
	asset := &domain.Asset{Target: domain.ResolvedTarget{Location: location}}
	f.fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Cond(func(target domain.ResolvedTarget) bool { return target.Location == location })).
		Return(asset, nil).
		Times(1)
	f.prober.EXPECT().Probe(gomock.Any(), asset).Return(dim, nil).Times(1)
}

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func render(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, doc.Nodes[0]))
	return buf.String()
}

func firstNode(t *testing.T, page string) assets.Node {
	t.Helper()
	nodes := assets.Collect(parse(t, page))
	require.Len(t, nodes, 1)
	return nodes[0]
}

func TestCollect_DocumentOrder(t *testing.T) {
	doc := parse(t, `<html><body>
<img src="/a.png">
<img alt="no source">
<div><svg src="icons/b.svg"></svg></div>
<svg class="mask" style="color: red; --mask-url: url('/masks/c.svg');"></svg>
<svg width="10" height="10"><rect/></svg>
<video src="https://cdn.example.com/d.mp4"></video>
<video controls><source src="e.webm" type="video/webm"><source src="e.mp4"></video>
<video><source type="video/webm"><source src="late.mp4"></video>
<p><img src="  f.jpg  "></p>
</body></html>`)

	nodes := assets.Collect(doc)

	srcs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		srcs = append(srcs, n.Src)
	}
	assert.Equal(t, []string{
		"/a.png",
		"icons/b.svg",
		"/masks/c.svg",
		"https://cdn.example.com/d.mp4",
		"e.webm",
		"f.jpg",
	}, srcs)
}

func TestProcessAsset_ProbesOnceThenServesFromCache(t *testing.T) {
	f := newFixture(t, false, false)
	location := filepath.Join(f.paths.Static, "img", "hero.png")
	f.expectProbe(location, domain.Dimension{Width: 200, Height: 150})

	first := firstNode(t, `<img src="/img/hero.png">`)
	outcome, err := f.processor.ProcessAsset(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeProbed, outcome)
	assert.Equal(t, "200", first.Selection.AttrOr("width", ""))
	assert.Equal(t, "150", first.Selection.AttrOr("height", ""))
	assert.Equal(t, "aspect-ratio: 200 / 150;", first.Selection.AttrOr("style", ""))
	assert.True(t, f.store.Dirty())

	second := firstNode(t, `<img src="/img/hero.png" style="border: 0">`)
	outcome, err = f.processor.ProcessAsset(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCached, outcome)
	assert.Equal(t, "aspect-ratio: 200 / 150; border: 0", second.Selection.AttrOr("style", ""))
}

func TestProcessAsset_CacheHitDoesNoIO(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockSourceResolver(ctrl)
	store := mocks.NewMockDimensionStore(ctrl)
	target := domain.ResolvedTarget{Kind: domain.SourceRemote, Location: "https://cdn.example.com/a.png"}

	resolver.EXPECT().Resolve("https://cdn.example.com/a.png").Return(target)
	store.EXPECT().Get(target.Location).Return(domain.Dimension{Width: 4, Height: 3}, true)

	// Fetcher and prober carry no expectations: any call fails the test.
	p := assets.NewProcessor(resolver, mocks.NewMockFetcher(ctrl), mocks.NewMockProber(ctrl), store,
		mocks.NewMockLogger(ctrl), assets.Options{})

	node := firstNode(t, `<video src="https://cdn.example.com/a.png"></video>`)
	outcome, err := p.ProcessAsset(context.Background(), node)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCached, outcome)
	assert.Equal(t, "4", node.Selection.AttrOr("width", ""))
}

func TestProcessAsset_OfflineSkipsRemote(t *testing.T) {
	f := newFixture(t, true, false)

	node := firstNode(t, `<img src="https://cdn.example.com/a.png" style="color: red">`)
	outcome, err := f.processor.ProcessAsset(context.Background(), node)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSkipped, outcome)
	_, hasWidth := node.Selection.Attr("width")
	assert.False(t, hasWidth)
	assert.Equal(t, "color: red", node.Selection.AttrOr("style", ""))
	assert.False(t, f.store.Dirty())
}

func TestProcessAsset_FailureIsNotCached(t *testing.T) {
	f := newFixture(t, false, false)
	location := filepath.Join(f.paths.Content, "missing.png")
	f.fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrAssetNotFound).
		Times(2)

	for range 2 {
		node := firstNode(t, `<img src="missing.png">`)
		outcome, err := f.processor.ProcessAsset(context.Background(), node)

		require.ErrorIs(t, err, domain.ErrAssetNotFound)
		assert.Equal(t, domain.OutcomeFailed, outcome)
		_, hasWidth := node.Selection.Attr("width")
		assert.False(t, hasWidth)
	}

	assert.False(t, f.store.Dirty())
	_, ok := f.store.Get(location)
	assert.False(t, ok)
}

func TestProcessDocument_DeduplicatesAndReports(t *testing.T) {
	f := newFixture(t, true, false)
	f.expectProbe(filepath.Join(f.paths.Static, "a.png"), domain.Dimension{Width: 10, Height: 20})
	f.expectProbe(filepath.Join(f.paths.Staging, "asset_staging", "clip.mp4"), domain.Dimension{Width: 640, Height: 360})

	doc := parse(t, `<html><body>
<img src="/a.png"><img src="/a.png"><img src="/a.png">
<video><source src="../asset_staging/clip.mp4"></video>
<img src="/asset_staging/clip.mp4">
<img src="https://cdn.example.com/remote.png">
</body></html>`)

	report, err := f.processor.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 6, report.Assets())
	assert.Equal(t, 5, report.Probed+report.Cached)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Failed)

	doc.Find("img[src='/a.png']").Each(func(_ int, s *goquery.Selection) {
		assert.Equal(t, "10", s.AttrOr("width", ""))
		assert.Equal(t, "20", s.AttrOr("height", ""))
	})
	assert.Equal(t, "640", doc.Find("video").AttrOr("width", ""))
}

func TestProcessDocument_StrictMode(t *testing.T) {
	tests := []struct {
		name    string
		strict  bool
		wantErr bool
	}{
		{name: "lenient", strict: false, wantErr: false},
		{name: "strict", strict: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false, tt.strict)
			f.expectProbe(filepath.Join(f.paths.Static, "ok.png"), domain.Dimension{Width: 1, Height: 1})
			f.fetcher.EXPECT().
				Fetch(gomock.Any(), gomock.Cond(func(target domain.ResolvedTarget) bool {
					return strings.HasSuffix(target.Location, "broken.png")
				})).
				Return(nil, domain.ErrAssetNotFound)
			f.logger.EXPECT().Warn(gomock.Any()).Times(1)

			doc := parse(t, `<img src="/ok.png"><img src="/broken.png">`)
			report, err := f.processor.ProcessDocument(context.Background(), doc)

			assert.Equal(t, 1, report.Probed)
			require.Len(t, report.Failed, 1)
			assert.Equal(t, "/broken.png", report.Failed[0].Src)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrAssetsFailed)
				assert.ErrorIs(t, err, domain.ErrAssetNotFound)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, "1", doc.Find("img[src='/ok.png']").AttrOr("width", ""))
		})
	}
}

func TestProcessDocument_Idempotent(t *testing.T) {
	f := newFixture(t, false, false)
	f.expectProbe(filepath.Join(f.paths.Static, "a.png"), domain.Dimension{Width: 200, Height: 150})
	f.expectProbe(filepath.Join(f.paths.Content, "b.svg"), domain.Dimension{Width: 24, Height: 24})

	page := `<!DOCTYPE html><html><head></head><body>` +
		`<img src="/a.png" style="aspect-ratio: 1 / 1; max-width: 100%">` +
		`<svg style="--mask-url: url(b.svg)"></svg></body></html>`

	doc := parse(t, page)
	_, err := f.processor.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)
	once := render(t, doc)

	again := parse(t, once)
	report, err := f.processor.ProcessDocument(context.Background(), again)
	require.NoError(t, err)
	twice := render(t, again)

	assert.Equal(t, once, twice)
	assert.Equal(t, 2, report.Cached)
	assert.Contains(t, once, `style="aspect-ratio: 200 / 150; max-width: 100%"`)
	assert.Contains(t, once, `style="aspect-ratio: 24 / 24; --mask-url: url(b.svg)"`)
}

func TestProcessDocument_CancelledContext(t *testing.T) {
	f := newFixture(t, false, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.processor.ProcessDocument(ctx, parse(t, `<img src="/a.png">`))

	require.ErrorIs(t, err, context.Canceled)
}

func TestFlush_PersistsProbedDimensions(t *testing.T) {
	f := newFixture(t, false, false)
	location := filepath.Join(f.paths.Static, "a.png")
	f.expectProbe(location, domain.Dimension{Width: 3, Height: 2})

	_, err := f.processor.ProcessAsset(context.Background(), firstNode(t, `<img src="/a.png">`))
	require.NoError(t, err)
	require.NoError(t, f.processor.Flush())
	assert.False(t, f.store.Dirty())

	reloaded := cas.NewStore(f.store.Path(), f.logger)
	dim, ok := reloaded.Get(location)
	require.True(t, ok)
	assert.Equal(t, domain.Dimension{Width: 3, Height: 2}, dim)
}
