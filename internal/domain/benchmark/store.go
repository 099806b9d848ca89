package benchmark

import (
	"context"
	"strconv"

	"github.com/georgysavva/scany/v2/pgxscan"

	"hrinsight/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

var _ StoreAPI = (*Store)(nil)

const snapshotColumns = `
  id, scope, scope_id, period_start, period_end, total_employees, evaluated_employees,
  p25_score, p50_score, p75_score, p90_score,
  avg_overall_score, avg_competency_score, avg_goal_completion,
  below_expectations, meets_expectations, exceeds_expectations, exceptional, calculated_at`

func (s *Store) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	if s.DB == nil {
		return unavailable("save benchmark", ErrBenchmarkStoreUnset)
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_benchmarks (
      scope, scope_id, period_start, period_end, total_employees, evaluated_employees,
      p25_score, p50_score, p75_score, p90_score,
      avg_overall_score, avg_competency_score, avg_goal_completion,
      below_expectations, meets_expectations, exceeds_expectations, exceptional
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING id, calculated_at
  `,
		snapshot.Scope, snapshot.ScopeID, snapshot.PeriodStart, snapshot.PeriodEnd,
		snapshot.TotalEmployees, snapshot.EvaluatedEmployees,
		snapshot.P25Score, snapshot.P50Score, snapshot.P75Score, snapshot.P90Score,
		snapshot.AvgOverallScore, snapshot.AvgCompetencyScore, snapshot.AvgGoalCompletion,
		snapshot.BelowExpectations, snapshot.MeetsExpectations, snapshot.ExceedsExpectations, snapshot.Exceptional,
	).Scan(&snapshot.ID, &snapshot.CalculatedAt)
	if err != nil {
		return unavailable("save benchmark", err)
	}
	return nil
}

func (s *Store) LatestSnapshot(ctx context.Context, scope string, scopeID *int64) (*Snapshot, error) {
	if s.DB == nil {
		return nil, unavailable("latest benchmark", ErrBenchmarkStoreUnset)
	}
	var snapshot Snapshot
	err := pgxscan.Get(ctx, s.DB, &snapshot, `
    SELECT`+snapshotColumns+`
    FROM performance_benchmarks
    WHERE scope = $1 AND scope_id IS NOT DISTINCT FROM $2
    ORDER BY calculated_at DESC, id DESC
    LIMIT 1
  `, scope, scopeID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, unavailable("latest benchmark", err)
	}
	return &snapshot, nil
}

func (s *Store) ListSnapshots(ctx context.Context, scope string, scopeID *int64, limit int) ([]Snapshot, error) {
	if s.DB == nil {
		return nil, unavailable("list benchmarks", ErrBenchmarkStoreUnset)
	}
	query := `SELECT` + snapshotColumns + ` FROM performance_benchmarks WHERE 1=1`
	var args []any
	if scope != "" {
		args = append(args, scope)
		query += " AND scope = $1"
		if scopeID != nil {
			args = append(args, *scopeID)
			query += " AND scope_id = $2"
		}
	}
	args = append(args, limit)
	query += " ORDER BY calculated_at DESC, id DESC LIMIT $" + strconv.Itoa(len(args))

	var rows []Snapshot
	if err := pgxscan.Select(ctx, s.DB, &rows, query, args...); err != nil {
		return nil, unavailable("list benchmarks", err)
	}
	return rows, nil
}
