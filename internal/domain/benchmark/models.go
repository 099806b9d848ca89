package benchmark

import (
	"time"

	"hrinsight/internal/domain/stats"
)

// Snapshot is a persisted benchmark. Percentile and average fields are nil
// when no evaluation in scope carried a score.
type Snapshot struct {
	ID                  int64     `json:"id" db:"id"`
	Scope               string    `json:"scope" db:"scope"`
	ScopeID             *int64    `json:"scopeId" db:"scope_id"`
	PeriodStart         time.Time `json:"periodStart" db:"period_start"`
	PeriodEnd           time.Time `json:"periodEnd" db:"period_end"`
	TotalEmployees      int       `json:"totalEmployees" db:"total_employees"`
	EvaluatedEmployees  int       `json:"evaluatedEmployees" db:"evaluated_employees"`
	P25Score            *float64  `json:"p25Score" db:"p25_score"`
	P50Score            *float64  `json:"p50Score" db:"p50_score"`
	P75Score            *float64  `json:"p75Score" db:"p75_score"`
	P90Score            *float64  `json:"p90Score" db:"p90_score"`
	AvgOverallScore     *float64  `json:"avgOverallScore" db:"avg_overall_score"`
	AvgCompetencyScore  *float64  `json:"avgCompetencyScore" db:"avg_competency_score"`
	AvgGoalCompletion   *float64  `json:"avgGoalCompletion" db:"avg_goal_completion"`
	BelowExpectations   int       `json:"belowExpectations" db:"below_expectations"`
	MeetsExpectations   int       `json:"meetsExpectations" db:"meets_expectations"`
	ExceedsExpectations int       `json:"exceedsExpectations" db:"exceeds_expectations"`
	Exceptional         int       `json:"exceptional" db:"exceptional"`
	CalculatedAt        time.Time `json:"calculatedAt" db:"calculated_at"`
	// Overall is the score aggregate behind the percentile columns. Only
	// freshly calculated snapshots carry it; it is not persisted.
	Overall *stats.AggregateResult `json:"overall,omitempty" db:"-"`
}

func (s *Snapshot) SetPercentiles(p *stats.Percentiles) {
	if p == nil {
		s.P25Score, s.P50Score, s.P75Score, s.P90Score = nil, nil, nil, nil
		return
	}
	s.P25Score, s.P50Score, s.P75Score, s.P90Score = ptr(p.P25), ptr(p.P50), ptr(p.P75), ptr(p.P90)
}

func (s *Snapshot) SetHistogram(h map[string]int) {
	s.BelowExpectations = h[stats.ClassBelowExpectations]
	s.MeetsExpectations = h[stats.ClassMeetsExpectations]
	s.ExceedsExpectations = h[stats.ClassExceedsExpectations]
	s.Exceptional = h[stats.ClassExceptional]
}

type CalculateRequest struct {
	Scope       string    `json:"scope"`
	ScopeID     *int64    `json:"scopeId"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
}

type EmployeeRef struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	DepartmentName *string `json:"departmentName"`
	PositionTitle  *string `json:"positionTitle"`
}

type EvaluationSummary struct {
	FinalScore      *float64 `json:"finalScore"`
	CompetencyScore *float64 `json:"competencyScore"`
	Classification  *string  `json:"classification"`
}

type Benchmarks struct {
	Organization *Snapshot `json:"organization"`
	Department   *Snapshot `json:"department"`
	Position     *Snapshot `json:"position"`
}

type Comparison struct {
	VsOrganization *string `json:"vsOrganization"`
	VsDepartment   *string `json:"vsDepartment"`
	VsPosition     *string `json:"vsPosition"`
}

type EmployeeComparison struct {
	Employee   EmployeeRef        `json:"employee"`
	Evaluation *EvaluationSummary `json:"evaluation"`
	Benchmarks Benchmarks         `json:"benchmarks"`
	Comparison Comparison         `json:"comparison"`
}

type RankingEntry struct {
	Rank            int     `json:"rank"`
	EmployeeID      int64   `json:"employeeId"`
	EmployeeName    string  `json:"employeeName"`
	FinalScore      float64 `json:"finalScore"`
	CompetencyScore float64 `json:"competencyScore"`
	Classification  string  `json:"classification"`
}

func ptr[T any](v T) *T {
	return &v
}
