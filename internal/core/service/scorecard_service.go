package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/uhndata/delirium-scorecard/internal/api/metrics"
	"github.com/uhndata/delirium-scorecard/internal/core/domain"
	"github.com/uhndata/delirium-scorecard/internal/core/ports"
)

// Dataset object names inside the scorecard bucket.
const (
	objectRates        = "delirium_rates.csv"
	objectTimeTrends   = "time_trends.csv"
	objectDemographics = "demographics.csv"
)

// ScorecardService shapes the raw CSV datasets into dashboard responses.
// Shaped results are cached; a cache failure degrades to a fresh load.
type ScorecardService struct {
	store ports.ObjectStore
	cache ports.DatasetCache
	log   zerolog.Logger
}

func NewScorecardService(store ports.ObjectStore, cache ports.DatasetCache, log zerolog.Logger) *ScorecardService {
	return &ScorecardService{store: store, cache: cache, log: log}
}

// DeliriumRates returns the per-ward quarterly delirium rates.
func (s *ScorecardService) DeliriumRates(ctx context.Context) ([]domain.DeliriumRate, error) {
	var cached []domain.DeliriumRate
	if s.cacheGet(ctx, objectRates, &cached) {
		return cached, nil
	}

	rows, err := s.load(ctx, objectRates)
	if err != nil {
		return nil, err
	}

	rates := make([]domain.DeliriumRate, 0, len(rows))
	for _, row := range rows {
		year, err := strconv.Atoi(row["year"])
		if err != nil {
			return nil, fmt.Errorf("%w: bad year %q", domain.ErrDatasetUnavailable, row["year"])
		}
		rate, err := strconv.ParseFloat(row["rate"], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad rate %q", domain.ErrDatasetUnavailable, row["rate"])
		}
		rates = append(rates, domain.DeliriumRate{
			Quarter: domain.Quarter(row["quarter"]),
			Year:    year,
			Rate:    rate,
			Ward:    row["ward"],
		})
	}

	s.cacheSet(ctx, objectRates, rates)
	return rates, nil
}

// TimeTrends returns the GIM-versus-other-wards series.
func (s *ScorecardService) TimeTrends(ctx context.Context) ([]domain.TimeSeriesPoint, error) {
	var cached []domain.TimeSeriesPoint
	if s.cacheGet(ctx, objectTimeTrends, &cached) {
		return cached, nil
	}

	rows, err := s.load(ctx, objectTimeTrends)
	if err != nil {
		return nil, err
	}

	points := make([]domain.TimeSeriesPoint, 0, len(rows))
	for _, row := range rows {
		gim, err := strconv.ParseFloat(row["gim"], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad gim %q", domain.ErrDatasetUnavailable, row["gim"])
		}
		other, err := strconv.ParseFloat(row["other_wards"], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad other_wards %q", domain.ErrDatasetUnavailable, row["other_wards"])
		}
		points = append(points, domain.TimeSeriesPoint{
			Period:     row["period"],
			GIM:        gim,
			OtherWards: other,
		})
	}

	s.cacheSet(ctx, objectTimeTrends, points)
	return points, nil
}

// Demographics returns the demographics table restricted to the most recent
// quarter present in the dataset.
func (s *ScorecardService) Demographics(ctx context.Context) (*domain.PatientDemographics, error) {
	var cached domain.PatientDemographics
	if s.cacheGet(ctx, objectDemographics, &cached) {
		return &cached, nil
	}

	rows, err := s.load(ctx, objectDemographics)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: demographics dataset is empty", domain.ErrDatasetUnavailable)
	}

	recentYear := 0
	recentQuarter := domain.Quarter("")
	for _, row := range rows {
		year, err := strconv.Atoi(row["year"])
		if err != nil {
			return nil, fmt.Errorf("%w: bad year %q", domain.ErrDatasetUnavailable, row["year"])
		}
		q := domain.Quarter(row["quarter"])
		if recentYear == 0 || q.After(year, recentQuarter, recentYear) {
			recentYear, recentQuarter = year, q
		}
	}

	data := make(map[string]domain.DemographicItem)
	for _, row := range rows {
		year, _ := strconv.Atoi(row["year"])
		if year != recentYear || domain.Quarter(row["quarter"]) != recentQuarter {
			continue
		}
		data[row["attribute"]] = domain.DemographicItem{
			Recent:                 demographicValue(row, "recent"),
			Training:               demographicValue(row, "training"),
			StandardMeanDifference: demographicValue(row, "smd"),
		}
	}

	result := &domain.PatientDemographics{
		Data:          data,
		RecentQuarter: recentQuarter,
		RecentYear:    recentYear,
	}
	s.cacheSet(ctx, objectDemographics, result)
	return result, nil
}

// load fetches one CSV object and returns its rows keyed by header name.
func (s *ScorecardService) load(ctx context.Context, object string) ([]map[string]string, error) {
	start := time.Now()
	raw, err := s.store.Fetch(ctx, object)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues(object, "error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetUnavailable, err)
	}

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues(object, "error").Inc()
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrDatasetUnavailable, object, err)
	}
	if len(records) < 1 {
		metrics.DatasetLoadsTotal.WithLabelValues(object, "error").Inc()
		return nil, fmt.Errorf("%w: %s has no header", domain.ErrDatasetUnavailable, object)
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	metrics.DatasetLoadsTotal.WithLabelValues(object, "ok").Inc()
	metrics.DatasetLoadDuration.WithLabelValues(object).Observe(time.Since(start).Seconds())
	return rows, nil
}

func (s *ScorecardService) cacheGet(ctx context.Context, key string, value any) bool {
	hit, err := s.cache.Get(ctx, key, value)
	if err != nil {
		s.log.Warn().Err(err).Str("dataset", key).Msg("dataset cache read failed")
		return false
	}
	if hit {
		metrics.DatasetCacheTotal.WithLabelValues("hit").Inc()
		return true
	}
	metrics.DatasetCacheTotal.WithLabelValues("miss").Inc()
	return false
}

func (s *ScorecardService) cacheSet(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.Warn().Err(err).Str("dataset", key).Msg("dataset cache write failed")
	}
}

// demographicValue reads the <prefix>_value/_units/_sd columns of one row.
// Blank or NaN cells become nil, matching how the dashboard renders gaps.
func demographicValue(row map[string]string, prefix string) domain.DemographicValue {
	return domain.DemographicValue{
		Value:             parseOptionalFloat(row[prefix+"_value"]),
		Units:             row[prefix+"_units"],
		StandardDeviation: parseOptionalFloat(row[prefix+"_sd"]),
	}
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}
