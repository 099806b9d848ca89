package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hrinsight/internal/domain/benchmark"
	"hrinsight/internal/domain/reports"
	"hrinsight/internal/platform/config"
	"hrinsight/internal/platform/querier"
)

const (
	JobReportWarm          = "report_cache_warm"
	JobBenchmarkRecalc     = "benchmark_recalculate"
	JobPurgeExpiredReports = "report_purge"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type ReportRunner interface {
	Generate(ctx context.Context, req reports.Request) (*reports.ConsolidatedReport, error)
	PurgeExpired(ctx context.Context) (cacheRows, historyRows int64, err error)
}

type BenchmarkRunner interface {
	Calculate(ctx context.Context, req benchmark.CalculateRequest) (benchmark.Snapshot, error)
}

type Recorder interface {
	JobFinished(jobType, status string)
}

// Service runs background work on a single worker and records every run in
// job_runs. A nil DB disables the ledger.
type Service struct {
	DB         querier.Querier
	Cfg        config.Config
	Reports    ReportRunner
	Benchmarks BenchmarkRunner
	Recorder   Recorder
	Now        func() time.Time
	queue      chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db querier.Querier, cfg config.Config, reportsSvc ReportRunner, benchmarks BenchmarkRunner, recorder Recorder) *Service {
	return &Service{
		DB:         db,
		Cfg:        cfg,
		Reports:    reportsSvc,
		Benchmarks: benchmarks,
		Recorder:   recorder,
		Now:        time.Now,
		queue:      make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.ReportWarmInterval > 0 && s.Reports != nil {
		go s.schedule(ctx, s.Cfg.ReportWarmInterval, JobReportWarm, s.WarmReport)
	}
	if s.Cfg.BenchmarkInterval > 0 && s.Benchmarks != nil {
		go s.schedule(ctx, s.Cfg.BenchmarkInterval, JobBenchmarkRecalc, s.RecalculateBenchmarks)
	}
	if s.Cfg.PurgeInterval > 0 && s.Reports != nil {
		go s.schedule(ctx, s.Cfg.PurgeInterval, JobPurgeExpiredReports, s.PurgeExpired)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.DB != nil {
		id := uuid.NewString()
		if _, err := s.DB.Exec(ctx, `
      INSERT INTO job_runs (id, job_type, status)
      VALUES ($1,$2,$3)
    `, id, j.Type, StatusRunning); err != nil {
			slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
		} else {
			runID = id
		}
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		details = map[string]any{"error": err.Error()}
	}
	if s.Recorder != nil {
		s.Recorder.JobFinished(j.Type, status)
	}

	if runID != "" {
		detailsJSON, marshalErr := json.Marshal(details)
		if marshalErr != nil {
			slog.Warn("job details marshal failed", "err", marshalErr)
			detailsJSON = []byte("{}")
		}
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "jobType", j.Type, "err", updErr)
		}
	}
	return details, err
}

func (s *Service) schedule(ctx context.Context, interval time.Duration, jobType string, run func(context.Context) (any, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(jobType, run)
		}
	}
}

// WarmReport regenerates the organization-wide report for the default window
// so the first request of the day is served from cache.
func (s *Service) WarmReport(ctx context.Context) (any, error) {
	report, err := s.Reports.Generate(ctx, reports.Request{Refresh: true})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"periodStart":     report.Summary.PeriodStart,
		"periodEnd":       report.Summary.PeriodEnd,
		"npsResponses":    report.NPSAnalysis.TotalResponses,
		"recommendations": len(report.Recommendations),
	}, nil
}

// RecalculateBenchmarks stores a fresh organization benchmark over the
// trailing report window.
func (s *Service) RecalculateBenchmarks(ctx context.Context) (any, error) {
	end := s.Now().UTC()
	snapshot, err := s.Benchmarks.Calculate(ctx, benchmark.CalculateRequest{
		Scope:       benchmark.ScopeOrganization,
		PeriodStart: end.Add(-s.window()),
		PeriodEnd:   end,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"snapshotId":         snapshot.ID,
		"totalEmployees":     snapshot.TotalEmployees,
		"evaluatedEmployees": snapshot.EvaluatedEmployees,
	}, nil
}

func (s *Service) PurgeExpired(ctx context.Context) (any, error) {
	cacheRows, historyRows, err := s.Reports.PurgeExpired(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"cacheRows": cacheRows, "historyRows": historyRows}, nil
}

func (s *Service) window() time.Duration {
	if s.Cfg.ReportWindow > 0 {
		return s.Cfg.ReportWindow
	}
	return reports.DefaultWindow
}
