// internal/domain/zone/service.go

package zone

import (
	"context"

	"denguecero/internal/domain/evaluation"
)

// Service defines the zone statistics operations exposed to transports
type Service interface {
	// MapData builds every zone for the dashboard filter
	MapData(ctx context.Context, filter evaluation.Filter) (*MapData, error)

	// PublicSummary builds the top zones of the trailing public window.
	// It never fails; upstream errors yield an explicit empty summary.
	PublicSummary(ctx context.Context) *PublicSummary
}

// EvaluationSource supplies already-filtered records
type EvaluationSource interface {
	// FindEvaluations returns georeferenced records matching the query
	FindEvaluations(ctx context.Context, query evaluation.Query) ([]evaluation.Record, error)
}
