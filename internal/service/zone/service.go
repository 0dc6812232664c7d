// internal/service/zone/service.go

package zone

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"denguecero/internal/domain/evaluation"
	zoneDomain "denguecero/internal/domain/zone"
)

const (
	publicCacheKey      = "public"
	periodUnavailable   = "Sin datos disponibles"
	publicFetchErrorMsg = "Error al obtener datos del servidor"
)

// Config contains the tunables of the zone pipeline
type Config struct {
	ClusterRadiusKm float64
	PublicTopN      int
	PublicWindow    time.Duration
	CacheTTL        time.Duration
}

// Cache stores computed results for a bounded time
type Cache interface {
	// Get decodes the value stored under key into dst; false means a miss
	Get(ctx context.Context, key string, dst interface{}) (bool, error)

	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Service implements the zone.Service interface
type Service struct {
	source zoneDomain.EvaluationSource
	cache  Cache
	config Config
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new zone service. cache may be nil.
func NewService(
	source zoneDomain.EvaluationSource,
	cache Cache,
	config Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		source: source,
		cache:  cache,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// MapData builds every zone for a dashboard filter
func (s *Service) MapData(ctx context.Context, filter evaluation.Filter) (*zoneDomain.MapData, error) {
	key := mapCacheKey(filter)

	var cached zoneDomain.MapData
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	now := s.now()
	query := filter.Query(now)

	records, err := s.source.FindEvaluations(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "zone: find evaluations")
	}

	data := BuildMapData(records, filter, query, now, s.config.ClusterRadiusKm)

	s.logger.Debug("built map data",
		zap.String("date_filter", string(filter.DateFilter)),
		zap.String("risk_level", filter.RiskLevel),
		zap.Int("points", data.Metadata.TotalPoints),
		zap.Int("zones", data.Metadata.TotalZones),
	)

	s.cacheSet(ctx, key, data)
	return data, nil
}

// PublicSummary builds the top zones of the trailing public window.
// Upstream failures yield an explicit empty summary flagged as unsuccessful.
func (s *Service) PublicSummary(ctx context.Context) *zoneDomain.PublicSummary {
	var cached zoneDomain.PublicSummary
	if s.cacheGet(ctx, publicCacheKey, &cached) {
		return &cached
	}

	summary, err := s.RefreshPublicSummary(ctx)
	if err != nil {
		s.logger.Error("failed to build public summary", zap.Error(err))
		return UnavailableSummary(s.now())
	}
	return summary
}

// RefreshPublicSummary recomputes the public summary, bypassing and then
// repopulating the cache.
func (s *Service) RefreshPublicSummary(ctx context.Context) (*zoneDomain.PublicSummary, error) {
	now := s.now()
	query := evaluation.Query{From: now.Add(-s.config.PublicWindow)}

	records, err := s.source.FindEvaluations(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "zone: find public evaluations")
	}

	summary := BuildPublicSummary(records, now, s.config)
	s.cacheSet(ctx, publicCacheKey, summary)
	return summary, nil
}

// BuildMapData runs the full pipeline for the dashboard
func BuildMapData(
	records []evaluation.Record,
	filter evaluation.Filter,
	query evaluation.Query,
	now time.Time,
	radiusKm float64,
) *zoneDomain.MapData {
	located := Normalize(records)

	clusters := Build(located, radiusKm)
	if clusters == nil {
		clusters = []zoneDomain.Cluster{}
	}
	stats := FormatZones(clusters)

	return &zoneDomain.MapData{
		Points:    clusters,
		ZoneStats: stats,
		Filters: zoneDomain.AppliedFilters{
			Filter:    filter,
			DateRange: zoneDomain.DateRange{From: query.From, To: now},
		},
		Metadata: zoneDomain.MapMetadata{
			TotalPoints:      len(located),
			Clusters:         len(clusters),
			TotalZones:       len(stats),
			TotalCases:       TotalCases(stats),
			RiskDistribution: RiskDistribution(located),
		},
	}
}

// BuildPublicSummary runs the pipeline for the landing page: no risk filter,
// top zones only. No records gives an empty, successful summary.
func BuildPublicSummary(records []evaluation.Record, now time.Time, config Config) *zoneDomain.PublicSummary {
	clusters := Build(records, config.ClusterRadiusKm)
	top := TopZones(FormatZones(clusters), config.PublicTopN)

	return &zoneDomain.PublicSummary{
		Success:   true,
		ZoneStats: top,
		Metadata: zoneDomain.PublicMetadata{
			TotalZones:    len(top),
			TotalCases:    TotalCases(top),
			LastUpdated:   now,
			PeriodCovered: PeriodCovered(config.PublicWindow, config.PublicTopN),
		},
	}
}

// UnavailableSummary is returned when the public summary cannot be built
func UnavailableSummary(now time.Time) *zoneDomain.PublicSummary {
	return &zoneDomain.PublicSummary{
		Success:   false,
		ZoneStats: []zoneDomain.Stat{},
		Metadata: zoneDomain.PublicMetadata{
			LastUpdated:   now,
			PeriodCovered: periodUnavailable,
		},
		Error: publicFetchErrorMsg,
	}
}

// PeriodCovered describes the public window for display. Windows that are
// not a whole number of days are given in hours, rounded up.
func PeriodCovered(window time.Duration, topN int) string {
	const day = 24 * time.Hour
	if window%day != 0 {
		hours := int((window + time.Hour - 1) / time.Hour)
		if hours == 1 {
			return fmt.Sprintf("Última hora (Top %d)", topN)
		}
		return fmt.Sprintf("Últimas %d horas (Top %d)", hours, topN)
	}

	days := int(window / day)
	switch days {
	case 1:
		return fmt.Sprintf("Último día (Top %d)", topN)
	case 30:
		return fmt.Sprintf("Último mes (Top %d)", topN)
	}
	return fmt.Sprintf("Últimos %d días (Top %d)", days, topN)
}

func mapCacheKey(filter evaluation.Filter) string {
	return fmt.Sprintf("map:%s:%s", filter.DateFilter, filter.RiskLevel)
}

func (s *Service) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}

	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("zone cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return
	}

	if err := s.cache.Set(ctx, key, value, s.config.CacheTTL); err != nil {
		s.logger.Warn("zone cache write failed", zap.String("key", key), zap.Error(err))
	}
}
