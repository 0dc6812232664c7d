// internal/adapter/storage/evaluation_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/rotisserie/eris"

	"denguecero/internal/domain/evaluation"
)

// Querier is the subset of *pgxpool.Pool used by the stores
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// EvaluationStore reads self-assessments from Postgres
type EvaluationStore struct {
	db Querier
}

// NewEvaluationStore creates a new evaluation store
func NewEvaluationStore(db Querier) *EvaluationStore {
	return &EvaluationStore{
		db: db,
	}
}

// FindEvaluations returns georeferenced evaluations matching the query,
// oldest first so that cluster seeds are stable between calls.
func (s *EvaluationStore) FindEvaluations(ctx context.Context, q evaluation.Query) ([]evaluation.Record, error) {
	query := `
		SELECT id, risk_level, latitude, longitude, temperature, address, created_at
		FROM autoevaluations
		WHERE created_at >= $1
		AND latitude IS NOT NULL
		AND longitude IS NOT NULL
	`

	args := []interface{}{q.From}
	argIndex := 2

	if !q.To.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, q.To)
		argIndex++
	}

	if q.RiskLevel != nil {
		query += fmt.Sprintf(" AND risk_level = $%d", argIndex)
		args = append(args, string(*q.RiskLevel))
		argIndex++
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "storage: query evaluations")
	}
	defer rows.Close()

	records := []evaluation.Record{}
	for rows.Next() {
		var r evaluation.Record
		var risk string
		var address *string

		if err := rows.Scan(
			&r.ID,
			&risk,
			&r.Latitude,
			&r.Longitude,
			&r.Temperature,
			&address,
			&r.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "storage: scan evaluation")
		}

		r.RiskLevel = evaluation.RiskLevel(risk)
		if address != nil {
			r.Address = *address
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "storage: iterate evaluations")
	}

	return records, nil
}
