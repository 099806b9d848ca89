package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"hrinsight/internal/domain/readers"
	"hrinsight/internal/domain/stats"
)

type periodRows struct {
	processes   []readers.AssessmentProcess
	responses   []readers.NPSResponse
	evaluations []readers.Evaluation
	assessments []readers.IntegrityAssessment
}

// loadPeriod reads the four row sets a period summary needs. Evaluations are
// skipped when withEvaluations is false.
func (s *Service) loadPeriod(ctx context.Context, period readers.Period, scope readers.Scope, withEvaluations bool) (periodRows, error) {
	var rows periodRows
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows.processes, err = s.reader.AssessmentProcesses(gctx, period, scope)
		return err
	})
	g.Go(func() error {
		var err error
		rows.responses, err = s.reader.NPSResponses(gctx, period, scope)
		return err
	})
	g.Go(func() error {
		var err error
		rows.assessments, err = s.reader.IntegrityAssessments(gctx, period, scope)
		return err
	})
	if withEvaluations {
		g.Go(func() error {
			var err error
			rows.evaluations, err = s.reader.Evaluations(gctx, period, scope)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return periodRows{}, err
	}
	return rows, nil
}

// Dashboard summarizes the trailing 30 days.
func (s *Service) Dashboard(ctx context.Context) (DashboardSummary, error) {
	now := s.opts.Now().UTC()
	period := readers.Period{Start: now.Add(-DashboardWindow), End: now}
	rows, err := s.loadPeriod(ctx, period, readers.Scope{}, true)
	if err != nil {
		return DashboardSummary{}, err
	}
	completed := countCompletedProcesses(rows.processes)
	return DashboardSummary{
		NPSScore:               stats.GroupNPS(npsCategories(rows.responses)),
		NPSResponses:           len(rows.responses),
		CompletionRate:         stats.Percent(completed, len(rows.processes)),
		TotalProcesses:         len(rows.processes),
		AvgIntegrityScore:      stats.MeanOrZero(completedIntegrityScores(rows.assessments), 0),
		IntegrityAssessments:   len(rows.assessments),
		AvgPerformanceScore:    stats.MeanOrZero(overallScores(rows.evaluations), 0),
		PerformanceEvaluations: len(rows.evaluations),
		PeriodStart:            period.Start,
		PeriodEnd:              period.End,
	}, nil
}

// Trends reports the last n calendar months, oldest first, the current month
// included.
func (s *Service) Trends(ctx context.Context, months int) ([]TrendPoint, error) {
	if months == 0 {
		months = DefaultTrendMonths
	}
	if months < 1 || months > MaxTrendMonths {
		return nil, ErrInvalidMonths
	}
	now := s.opts.Now().UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	points := make([]TrendPoint, months)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := 0; i < months; i++ {
		monthStart := current.AddDate(0, -(months - 1 - i), 0)
		period := readers.Period{Start: monthStart, End: monthStart.AddDate(0, 1, 0).Add(-time.Microsecond)}
		g.Go(func() error {
			rows, err := s.loadPeriod(gctx, period, readers.Scope{}, false)
			if err != nil {
				return err
			}
			completed := countCompletedProcesses(rows.processes)
			points[i] = TrendPoint{
				Month:                monthStart.Format("2006-01"),
				MonthStart:           monthStart,
				NPSScore:             stats.GroupNPS(npsCategories(rows.responses)),
				NPSResponses:         len(rows.responses),
				CompletionRate:       stats.Percent(completed, len(rows.processes)),
				TotalProcesses:       len(rows.processes),
				AvgIntegrityScore:    stats.MeanOrZero(completedIntegrityScores(rows.assessments), 0),
				IntegrityAssessments: len(rows.assessments),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// EmployeeCorrelation lists per-employee averages for active employees that
// have at least one sample in the period.
func (s *Service) EmployeeCorrelation(ctx context.Context, start, end time.Time, departmentID *int64) ([]EmployeeMetrics, error) {
	period, err := s.ResolvePeriod(start, end)
	if err != nil {
		return nil, err
	}
	scope := readers.Scope{DepartmentID: departmentID}

	var employees []readers.Employee
	var rows periodRows
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.reader.Employees(gctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.loadPeriod(gctx, period, scope, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return EmployeeAverages(employees, rows.responses, rows.evaluations, rows.assessments), nil
}

func EmployeeAverages(employees []readers.Employee, responses []readers.NPSResponse, evaluations []readers.Evaluation, assessments []readers.IntegrityAssessment) []EmployeeMetrics {
	nps := make(map[int64][]float64)
	for _, r := range responses {
		nps[r.EmployeeID] = append(nps[r.EmployeeID], float64(r.Score))
	}
	performance := make(map[int64][]float64)
	for _, e := range evaluations {
		if e.OverallScore != nil {
			performance[e.EmployeeID] = append(performance[e.EmployeeID], *e.OverallScore)
		}
	}
	integrityScores := make(map[int64][]float64)
	for _, a := range assessments {
		if a.TotalScore == nil {
			continue
		}
		integrityScores[a.EmployeeID] = append(integrityScores[a.EmployeeID], *a.TotalScore)
	}

	out := []EmployeeMetrics{}
	for _, employee := range employees {
		row := EmployeeMetrics{
			EmployeeID:          employee.ID,
			EmployeeName:        employee.Name,
			DepartmentID:        employee.DepartmentID,
			AvgNPSScore:         roundedMean(nps[employee.ID], 1),
			AvgPerformanceScore: roundedMean(performance[employee.ID], 0),
			AvgIntegrityScore:   roundedMean(integrityScores[employee.ID], 0),
		}
		if row.AvgNPSScore == nil && row.AvgPerformanceScore == nil && row.AvgIntegrityScore == nil {
			continue
		}
		out = append(out, row)
	}
	return out
}

func roundedMean(values []float64, decimals int) *float64 {
	mean, ok := stats.Mean(values)
	if !ok {
		return nil
	}
	v := stats.Round(mean, decimals)
	return &v
}
