package reports

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"hrinsight/internal/domain/integrity"
	"hrinsight/internal/domain/readers"
	"hrinsight/internal/requestctx"
)

// Recorder receives report instrumentation. The platform metrics package
// provides the prometheus implementation.
type Recorder interface {
	ReportGenerated(source string, duration time.Duration)
	CacheLookup(hit bool)
	ExportRendered(format string, size int)
}

type nopRecorder struct{}

func (nopRecorder) ReportGenerated(string, time.Duration) {}
func (nopRecorder) CacheLookup(bool)                      {}
func (nopRecorder) ExportRendered(string, int)            {}

type Options struct {
	Window     time.Duration
	CacheTTL   time.Duration
	HistoryTTL time.Duration
	Thresholds integrity.Thresholds
	Now        func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Window:     DefaultWindow,
		CacheTTL:   DefaultCacheTTL,
		HistoryTTL: DefaultHistoryTTL,
		Thresholds: integrity.DefaultThresholds,
		Now:        time.Now,
	}
}

type Service struct {
	reader   readers.Reader
	cache    Cache
	history  HistoryStore
	recorder Recorder
	logger   *slog.Logger
	opts     Options
}

func NewService(reader readers.Reader, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultOptions()
	if opts.Window <= 0 {
		opts.Window = defaults.Window
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaults.CacheTTL
	}
	if opts.HistoryTTL <= 0 {
		opts.HistoryTTL = defaults.HistoryTTL
	}
	if opts.Thresholds == (integrity.Thresholds{}) {
		opts.Thresholds = defaults.Thresholds
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	return &Service{reader: reader, recorder: nopRecorder{}, logger: logger, opts: opts}
}

func (s *Service) WithCache(cache Cache) *Service {
	s.cache = cache
	return s
}

func (s *Service) WithHistory(history HistoryStore) *Service {
	s.history = history
	return s
}

func (s *Service) WithRecorder(recorder Recorder) *Service {
	if recorder != nil {
		s.recorder = recorder
	}
	return s
}

// ResolvePeriod applies the trailing default window to missing bounds. The
// default end is the last instant of the current UTC day so that repeated
// requests on the same day share a cache key.
func (s *Service) ResolvePeriod(start, end time.Time) (readers.Period, error) {
	if end.IsZero() {
		end = endOfDay(s.opts.Now())
	}
	if start.IsZero() {
		start = end.Add(-s.opts.Window).Add(time.Microsecond)
	}
	period := readers.Period{Start: start, End: end}
	if err := period.Validate(); err != nil {
		return readers.Period{}, err
	}
	return period, nil
}

// Generate returns a cached report while it is unexpired and composes a
// fresh one otherwise. Cache failures are logged and never fail the request.
func (s *Service) Generate(ctx context.Context, req Request) (*ConsolidatedReport, error) {
	period, err := s.ResolvePeriod(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	key := CacheKey(period, req.DepartmentID)

	if s.cache != nil && !req.Refresh {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log(ctx).Warn("report cache read failed", "key", key, "err", err)
		}
		s.recorder.CacheLookup(ok)
		if ok {
			return cached, nil
		}
	}

	started := time.Now()
	report, err := s.Compose(ctx, period, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	s.recorder.ReportGenerated("composed", time.Since(started))

	if s.cache != nil {
		entry := CacheEntry{
			Key:          key,
			Period:       period,
			DepartmentID: req.DepartmentID,
			Report:       report,
			ExpiresAt:    report.GeneratedAt.Add(s.opts.CacheTTL),
		}
		if err := s.cache.Put(ctx, entry); err != nil {
			s.log(ctx).Warn("report cache write failed", "key", key, "err", err)
		}
	}
	return report, nil
}

// Compose gathers every section concurrently and aggregates them. Any read
// failure aborts the whole report.
func (s *Service) Compose(ctx context.Context, period readers.Period, departmentID *int64) (*ConsolidatedReport, error) {
	scope := readers.Scope{DepartmentID: departmentID}

	var (
		processes   []readers.AssessmentProcess
		responses   []readers.NPSResponse
		evaluations []readers.Evaluation
		pir         integrity.AuditInput
		breakdown   []DepartmentBreakdown
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		processes, err = s.reader.AssessmentProcesses(gctx, period, scope)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = s.reader.NPSResponses(gctx, period, scope)
		return err
	})
	g.Go(func() error {
		var err error
		evaluations, err = s.reader.Evaluations(gctx, period, scope)
		return err
	})
	g.Go(func() error {
		var err error
		pir, err = integrity.Load(gctx, s.reader, period, scope)
		return err
	})
	g.Go(func() error {
		var err error
		breakdown, err = s.departmentBreakdown(gctx, period, departmentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &ConsolidatedReport{
		Summary:                Summarize(period, processes, responses, evaluations),
		NPSAnalysis:            AnalyzeNPS(responses),
		PerformanceCorrelation: Correlate(evaluations, responses),
		PIRIntegrity:           integrity.Audit(pir, s.opts.Thresholds),
		DepartmentBreakdown:    breakdown,
		DepartmentID:           departmentID,
		GeneratedAt:            s.opts.Now().UTC(),
	}
	report.Recommendations = Recommend(report.Summary, report.NPSAnalysis, report.PerformanceCorrelation, report.PIRIntegrity)

	s.log(ctx).Info("consolidated report composed",
		"period_start", period.Start,
		"period_end", period.End,
		"nps_responses", report.NPSAnalysis.TotalResponses,
		"recommendations", len(report.Recommendations),
	)
	return report, nil
}

// departmentBreakdown resolves each department's employees before reading its
// rows. With a department filter only that department is reported.
func (s *Service) departmentBreakdown(ctx context.Context, period readers.Period, departmentID *int64) ([]DepartmentBreakdown, error) {
	departments, err := s.reader.ActiveDepartments(ctx)
	if err != nil {
		return nil, err
	}
	out := []DepartmentBreakdown{}
	for _, dept := range departments {
		if departmentID != nil && dept.ID != *departmentID {
			continue
		}
		ids, err := s.reader.EmployeeIDs(ctx, readers.Scope{DepartmentID: &dept.ID})
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			continue
		}
		scope := readers.Scope{EmployeeIDs: ids}
		processes, err := s.reader.AssessmentProcesses(ctx, period, scope)
		if err != nil {
			return nil, err
		}
		responses, err := s.reader.NPSResponses(ctx, period, scope)
		if err != nil {
			return nil, err
		}
		evaluations, err := s.reader.Evaluations(ctx, period, scope)
		if err != nil {
			return nil, err
		}
		assessments, err := s.reader.IntegrityAssessments(ctx, period, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, Breakdown(dept, processes, responses, evaluations, assessments))
	}
	SortBreakdown(out)
	return out, nil
}

// Export renders a report and records the export for the requesting user.
// A failed history write is logged; the export itself still succeeds.
func (s *Service) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	if !SupportedFormat(req.Format) {
		return ExportResult{}, ErrUnsupportedFormat
	}
	report, err := s.Generate(ctx, req.Request)
	if err != nil {
		return ExportResult{}, err
	}
	content, err := Render(report, req.Format)
	if err != nil {
		return ExportResult{}, err
	}
	now := s.opts.Now()
	result := ExportResult{
		FileName:    ExportFileName(req.Format, now),
		Format:      req.Format,
		ContentType: contentTypes[req.Format],
		Content:     content,
		Size:        len(content),
	}
	s.recorder.ExportRendered(req.Format, result.Size)

	if req.UserID != nil && s.history != nil {
		id, err := s.history.SaveExport(ctx, ExportRecord{
			ReportType: ReportTypeConsolidated,
			Format:     req.Format,
			FileName:   result.FileName,
			FileSize:   result.Size,
			ExportedBy: *req.UserID,
			ExportedAt: now.UTC(),
			ExpiresAt:  now.UTC().Add(s.opts.HistoryTTL),
		})
		if err != nil {
			s.log(ctx).Warn("export history write failed", "user_id", *req.UserID, "err", err)
		} else {
			result.ExportID = &id
		}
	}
	return result, nil
}

func (s *Service) ExportHistory(ctx context.Context, userID int64, limit int) ([]ExportRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryUnset
	}
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return s.history.ListExports(ctx, userID, limit)
}

// PurgeExpired removes expired cache entries and export history records.
func (s *Service) PurgeExpired(ctx context.Context) (cacheRows, historyRows int64, err error) {
	if s.cache != nil {
		if cacheRows, err = s.cache.DeleteExpired(ctx); err != nil {
			return 0, 0, err
		}
	}
	if s.history != nil {
		if historyRows, err = s.history.DeleteExpiredExports(ctx); err != nil {
			return cacheRows, 0, err
		}
	}
	return cacheRows, historyRows, nil
}

func endOfDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour).Add(24*time.Hour - time.Microsecond)
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	if id := requestctx.GetRequestID(ctx); id != "" {
		return s.logger.With("requestId", id)
	}
	return s.logger
}
