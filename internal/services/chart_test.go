package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sportify-app/apiserver/internal/chart"
	"github.com/sportify-app/apiserver/types"
)

type countingRenderer struct {
	*chart.Renderer
	calls int
}

func (r *countingRenderer) Pie(ctx context.Context, title string, data []chart.Datum) ([]byte, error) {
	r.calls++
	return r.Renderer.Pie(ctx, title, data)
}

func (r *countingRenderer) Bar(ctx context.Context, title string, data []chart.Datum) ([]byte, error) {
	r.calls++
	return r.Renderer.Bar(ctx, title, data)
}

type mapCache map[string][]byte

func (c mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := c[key]
	return data, ok, nil
}

func (c mapCache) Set(_ context.Context, key string, data []byte) error {
	c[key] = data
	return nil
}

type mapStore struct {
	objects map[string][]byte
	err     error
}

func (s *mapStore) PutIfAbsent(_ context.Context, key string, data []byte, _ string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.objects[key]; ok {
		return false, nil
	}
	s.objects[key] = data
	return true, nil
}

func sampleViews() []types.StatView {
	return []types.StatView{
		{ID: 1, Category: "training", Sport: types.SportFootball, Date: "2025-03-04 18:30:05", Metrics: types.FootballLine{Goals: 2, Assists: 1, MinutesPlayed: 60}},
		{ID: 2, Category: "league", Sport: types.SportFootball, Date: "2025-03-05 18:30:05", Metrics: types.FootballLine{Goals: 1, MinutesPlayed: 90}},
		{ID: 3, Category: "training", Sport: types.SportFootball, Date: "2025-03-06 18:30:05", Metrics: types.FootballLine{Assists: 3, MinutesPlayed: 45}},
	}
}

func TestChartsInline(t *testing.T) {
	svc := NewChartService(chart.NewRenderer(320, 200), nil)

	charts, err := svc.Charts(context.Background(), 1, sampleViews())
	if err != nil {
		t.Fatalf("charts: %v", err)
	}
	if len(charts) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(charts))
	}
	if charts[0].Kind != ChartEntriesByCategory || charts[1].Kind != ChartMetricTotals {
		t.Fatalf("unexpected chart kinds %+v", charts)
	}
	for _, c := range charts {
		if !strings.HasPrefix(c.DataURI, "data:image/png;base64,") || c.ObjectKey != "" {
			t.Fatalf("expected inline chart, got %+v", c)
		}
	}
}

func TestChartsSkipAllZeroTotals(t *testing.T) {
	svc := NewChartService(chart.NewRenderer(320, 200), nil)
	views := []types.StatView{
		{ID: 1, Category: "friendly", Sport: types.SportTennis, Date: "2025-03-04 18:30:05", Metrics: types.TennisLine{}},
	}

	charts, err := svc.Charts(context.Background(), 1, views)
	if err != nil {
		t.Fatalf("charts: %v", err)
	}
	if len(charts) != 1 || charts[0].Kind != ChartEntriesByCategory {
		t.Fatalf("expected only the category chart, got %+v", charts)
	}
}

func TestChartsUseCache(t *testing.T) {
	renderer := &countingRenderer{Renderer: chart.NewRenderer(320, 200)}
	cache := mapCache{}
	svc := NewChartService(renderer, nil).WithCache(cache)
	ctx := context.Background()

	first, err := svc.Charts(ctx, 1, sampleViews())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.Charts(ctx, 1, sampleViews())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if renderer.calls != 2 {
		t.Fatalf("expected charts to be rendered once each, got %d renders", renderer.calls)
	}
	if len(cache) != 2 || first[0].DataURI != second[0].DataURI {
		t.Fatalf("expected cached charts to be reused")
	}

	changed := sampleViews()[:2]
	if _, err := svc.Charts(ctx, 1, changed); err != nil {
		t.Fatalf("third: %v", err)
	}
	if renderer.calls != 4 {
		t.Fatalf("expected new stats to render again, got %d renders", renderer.calls)
	}
}

func TestChartsUploadToStore(t *testing.T) {
	store := &mapStore{objects: map[string][]byte{}}
	svc := NewChartService(chart.NewRenderer(320, 200), nil).WithStore(store)

	charts, err := svc.Charts(context.Background(), 7, sampleViews())
	if err != nil {
		t.Fatalf("charts: %v", err)
	}
	for _, c := range charts {
		if c.DataURI != "" {
			t.Fatalf("expected object key only, got %+v", c)
		}
		if !strings.HasPrefix(c.ObjectKey, "charts/7/") || !strings.HasSuffix(c.ObjectKey, ".png") {
			t.Fatalf("unexpected object key %s", c.ObjectKey)
		}
		if _, ok := store.objects[c.ObjectKey]; !ok {
			t.Fatalf("chart %s not uploaded", c.ObjectKey)
		}
	}
	if !strings.Contains(charts[0].ObjectKey, "/entries-by-category-") {
		t.Fatalf("expected slugged kind in key, got %s", charts[0].ObjectKey)
	}
}

func TestChartsFallBackInlineWhenUploadFails(t *testing.T) {
	store := &mapStore{err: errors.New("bucket gone")}
	svc := NewChartService(chart.NewRenderer(320, 200), nil).WithStore(store)

	charts, err := svc.Charts(context.Background(), 7, sampleViews())
	if err != nil {
		t.Fatalf("charts: %v", err)
	}
	if charts[0].DataURI == "" {
		t.Fatalf("expected inline fallback, got %+v", charts[0])
	}
}

func TestChartsWithoutStats(t *testing.T) {
	svc := NewChartService(chart.NewRenderer(0, 0), nil)
	if _, err := svc.Charts(context.Background(), 1, nil); !errors.Is(err, ErrNoStats) {
		t.Fatalf("expected ErrNoStats, got %v", err)
	}
}

func TestMetricTotals(t *testing.T) {
	totals := metricTotals(sampleViews())
	want := map[string]float64{"goals": 3, "assists": 4, "minutes_played": 195}
	if len(totals) != len(want) {
		t.Fatalf("unexpected totals %+v", totals)
	}
	for _, d := range totals {
		if want[d.Label] != d.Value {
			t.Fatalf("total of %s: expected %v, got %v", d.Label, want[d.Label], d.Value)
		}
	}
	if totals[0].Label != "goals" {
		t.Fatalf("expected first-seen order, got %+v", totals)
	}
}
