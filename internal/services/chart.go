package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/gosimple/slug"
	"github.com/sportify-app/apiserver/internal/chart"
	"github.com/sportify-app/apiserver/types"
	"go.uber.org/zap"
)

const (
	ChartEntriesByCategory = "Entries by category"
	ChartMetricTotals      = "Metric totals"

	chartContentType = "image/png"
)

// ChartRenderer draws PNG charts.
type ChartRenderer interface {
	Pie(ctx context.Context, title string, data []chart.Datum) ([]byte, error)
	Bar(ctx context.Context, title string, data []chart.Datum) ([]byte, error)
}

// ChartCache keeps rendered charts between requests.
type ChartCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// ChartStore publishes rendered charts as objects.
type ChartStore interface {
	PutIfAbsent(ctx context.Context, key string, data []byte, contentType string) (bool, error)
}

// Chart is a rendered chart. Exactly one of ObjectKey and DataURI is set.
type Chart struct {
	Kind      string `json:"kind"`
	ObjectKey string `json:"object_key,omitempty"`
	DataURI   string `json:"data_uri,omitempty"`
}

// ChartService turns statistics into charts. Cache and store are optional.
type ChartService struct {
	renderer ChartRenderer
	cache    ChartCache
	store    ChartStore
	logger   *zap.Logger
}

func NewChartService(renderer ChartRenderer, logger *zap.Logger) *ChartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChartService{renderer: renderer, logger: logger}
}

func (s *ChartService) WithCache(cache ChartCache) *ChartService {
	s.cache = cache
	return s
}

func (s *ChartService) WithStore(store ChartStore) *ChartService {
	s.store = store
	return s
}

// Charts renders the category pie and the metric totals bar chart for the
// given views of one user.
func (s *ChartService) Charts(ctx context.Context, userID int, views []types.StatView) ([]Chart, error) {
	if len(views) == 0 {
		return nil, ErrNoStats
	}
	fingerprint, err := viewsFingerprint(views)
	if err != nil {
		return nil, err
	}

	plans := []struct {
		kind   string
		data   []chart.Datum
		render func(context.Context, string, []chart.Datum) ([]byte, error)
	}{
		{ChartEntriesByCategory, entriesByCategory(views), s.renderer.Pie},
		{ChartMetricTotals, metricTotals(views), s.renderer.Bar},
	}

	charts := make([]Chart, 0, len(plans))
	for _, plan := range plans {
		png, err := s.render(ctx, userID, plan.kind, fingerprint, plan.data, plan.render)
		if errors.Is(err, chart.ErrNoData) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", plan.kind, err)
		}
		charts = append(charts, s.publish(ctx, userID, plan.kind, fingerprint, png))
	}
	return charts, nil
}

func (s *ChartService) render(
	ctx context.Context,
	userID int,
	kind, fingerprint string,
	data []chart.Datum,
	render func(context.Context, string, []chart.Datum) ([]byte, error),
) ([]byte, error) {
	cacheKey := fmt.Sprintf("%d:%s:%s", userID, slug.Make(kind), fingerprint)
	if s.cache != nil {
		png, ok, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			s.logger.Warn("chart cache read failed", zap.String("key", cacheKey), zap.Error(err))
		} else if ok {
			return png, nil
		}
	}

	png, err := render(ctx, kind, data)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, png); err != nil {
			s.logger.Warn("chart cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return png, nil
}

// publish uploads png when a store is configured and falls back to an
// inline data URI otherwise or when the upload fails.
func (s *ChartService) publish(ctx context.Context, userID int, kind, fingerprint string, png []byte) Chart {
	if s.store != nil {
		key := ChartObjectKey(userID, kind, fingerprint)
		_, err := s.store.PutIfAbsent(ctx, key, png, chartContentType)
		if err == nil {
			return Chart{Kind: kind, ObjectKey: key}
		}
		s.logger.Warn("chart upload failed", zap.String("key", key), zap.Error(err))
	}
	return Chart{
		Kind:    kind,
		DataURI: "data:" + chartContentType + ";base64," + base64.StdEncoding.EncodeToString(png),
	}
}

// ChartObjectKey names the object holding a chart.
func ChartObjectKey(userID int, kind, fingerprint string) string {
	return fmt.Sprintf("charts/%d/%s-%s.png", userID, slug.Make(kind), fingerprint)
}

func viewsFingerprint(views []types.StatView) (string, error) {
	data, err := json.Marshal(views)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}

// entriesByCategory counts entries per category, sorted by category.
func entriesByCategory(views []types.StatView) []chart.Datum {
	counts := make(map[string]int)
	for _, v := range views {
		counts[v.Category]++
	}
	data := make([]chart.Datum, 0, len(counts))
	for category, n := range counts {
		data = append(data, chart.Datum{Label: category, Value: float64(n)})
	}
	sort.Slice(data, func(i, j int) bool { return data[i].Label < data[j].Label })
	return data
}

// metricTotals sums every metric across views, in first-seen order.
func metricTotals(views []types.StatView) []chart.Datum {
	index := make(map[string]int)
	var data []chart.Datum
	for _, v := range views {
		if v.Metrics == nil {
			continue
		}
		for _, m := range v.Metrics.Metrics() {
			i, ok := index[m.Name]
			if !ok {
				i = len(data)
				index[m.Name] = i
				data = append(data, chart.Datum{Label: m.Name})
			}
			data[i].Value += m.Value
		}
	}
	return data
}
