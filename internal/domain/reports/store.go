package reports

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"hrinsight/internal/platform/querier"
)

// HistoryStore records who exported which report. Entries past ExpiresAt
// are hidden from listings and purged by the cleanup job.
type HistoryStore interface {
	SaveExport(ctx context.Context, record ExportRecord) (int64, error)
	ListExports(ctx context.Context, userID int64, limit int) ([]ExportRecord, error)
	DeleteExpiredExports(ctx context.Context) (int64, error)
}

type Store struct {
	DB  querier.Querier
	Now func() time.Time
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db, Now: time.Now}
}

var _ HistoryStore = (*Store)(nil)

func (s *Store) SaveExport(ctx context.Context, record ExportRecord) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO report_export_history (report_type, export_format, file_name, file_size, exported_by, exported_at, expires_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, record.ReportType, record.Format, record.FileName, record.FileSize, record.ExportedBy, record.ExportedAt, record.ExpiresAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) ListExports(ctx context.Context, userID int64, limit int) ([]ExportRecord, error) {
	rows := []ExportRecord{}
	err := pgxscan.Select(ctx, s.DB, &rows, `
    SELECT id, report_type, export_format, file_name, file_size, exported_by, exported_at, expires_at
    FROM report_export_history
    WHERE exported_by = $1 AND expires_at > $2
    ORDER BY exported_at DESC, id DESC
    LIMIT $3
  `, userID, s.Now(), limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) DeleteExpiredExports(ctx context.Context) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM report_export_history WHERE expires_at <= $1", s.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type JobRunFilter struct {
	JobType     string
	Status      string
	StartedFrom *time.Time
	StartedTo   *time.Time
}

func (s *Store) ListJobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, error) {
	query, args := buildJobRunsBaseQuery(filter)
	query += " ORDER BY started_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []JobRun{}
	for rows.Next() {
		var run JobRun
		var detailsRaw []byte
		if err := rows.Scan(&run.ID, &run.JobType, &run.Status, &detailsRaw, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		run.Details = decodeDetails(detailsRaw)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) CountJobRuns(ctx context.Context, filter JobRunFilter) (int, error) {
	query, args := buildJobRunsBaseQuery(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM ("+query+") job_runs", args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildJobRunsBaseQuery(filter JobRunFilter) (string, []any) {
	query := `
    SELECT id::text, job_type, status, COALESCE(details_json, '{}'::jsonb), started_at, completed_at
    FROM job_runs
    WHERE 1=1
  `
	var args []any

	if value := strings.TrimSpace(filter.JobType); value != "" {
		query += " AND job_type = $" + strconv.Itoa(len(args)+1)
		args = append(args, value)
	}
	if value := strings.TrimSpace(filter.Status); value != "" {
		query += " AND status = $" + strconv.Itoa(len(args)+1)
		args = append(args, value)
	}
	if filter.StartedFrom != nil && !filter.StartedFrom.IsZero() {
		query += " AND started_at >= $" + strconv.Itoa(len(args)+1)
		args = append(args, *filter.StartedFrom)
	}
	if filter.StartedTo != nil && !filter.StartedTo.IsZero() {
		query += " AND started_at <= $" + strconv.Itoa(len(args)+1)
		args = append(args, *filter.StartedTo)
	}

	return query, args
}

func decodeDetails(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	details := map[string]any{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return map[string]any{
			"raw": string(raw),
		}
	}
	return details
}
