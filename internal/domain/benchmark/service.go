package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"hrinsight/internal/domain/org"
	"hrinsight/internal/domain/readers"
	"hrinsight/internal/domain/stats"
)

// Reader is the subset of readers.Reader the benchmark engine needs.
type Reader interface {
	Evaluations(ctx context.Context, period readers.Period, scope readers.Scope) ([]readers.Evaluation, error)
	LatestEvaluation(ctx context.Context, employeeID int64) (*readers.Evaluation, error)
	Employees(ctx context.Context, scope readers.Scope) ([]readers.Employee, error)
	EmployeeByID(ctx context.Context, employeeID int64) (readers.Employee, error)
	Goals(ctx context.Context, period readers.Period, scope readers.Scope) ([]readers.Goal, error)
}

type Service struct {
	reader Reader
	store  StoreAPI
	logger *slog.Logger
}

// NewService accepts a nil store, in which case snapshots are returned
// without being persisted and the read queries fail.
func NewService(reader Reader, store StoreAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reader: reader, store: store, logger: logger}
}

func ValidateScope(scope string, scopeID *int64) error {
	switch scope {
	case ScopeOrganization:
		return nil
	case ScopeDepartment, ScopePosition, ScopeTeam:
		if scopeID == nil {
			return fmt.Errorf("%w: %s scope requires an id", ErrInvalidScope, scope)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
}

func (r CalculateRequest) Validate() error {
	if err := ValidateScope(r.Scope, r.ScopeID); err != nil {
		return err
	}
	if r.PeriodStart.IsZero() || r.PeriodEnd.IsZero() {
		return fmt.Errorf("%w: period start and end are required", readers.ErrInvalidPeriod)
	}
	return readers.Period{Start: r.PeriodStart, End: r.PeriodEnd}.Validate()
}

func (s *Service) Calculate(ctx context.Context, req CalculateRequest) (Snapshot, error) {
	if err := req.Validate(); err != nil {
		return Snapshot{}, err
	}
	employees, err := s.resolveEmployees(ctx, req.Scope, req.ScopeID)
	if err != nil {
		return Snapshot{}, err
	}
	if len(employees) == 0 {
		return Snapshot{}, ErrNoEmployeesInScope
	}

	ids := employeeIDs(employees)
	period := readers.Period{Start: req.PeriodStart, End: req.PeriodEnd}
	evaluations, err := s.reader.Evaluations(ctx, period, readers.Scope{EmployeeIDs: ids})
	if err != nil {
		return Snapshot{}, err
	}
	goals, err := s.reader.Goals(ctx, period, readers.Scope{EmployeeIDs: ids})
	if err != nil {
		return Snapshot{}, err
	}

	snapshot, err := BuildSnapshot(req, len(employees), latestPerEmployee(evaluations), goals)
	if err != nil {
		return Snapshot{}, err
	}
	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, &snapshot); err != nil {
			return Snapshot{}, err
		}
	} else {
		snapshot.CalculatedAt = time.Now().UTC()
	}

	s.logger.Info("benchmark calculated",
		"scope", snapshot.Scope,
		"total_employees", snapshot.TotalEmployees,
		"evaluated_employees", snapshot.EvaluatedEmployees,
	)
	return snapshot, nil
}

// BuildSnapshot reduces the latest evaluation of each employee and the goals
// in scope into a benchmark. It performs no I/O.
func BuildSnapshot(req CalculateRequest, totalEmployees int, latest []readers.Evaluation, goals []readers.Goal) (Snapshot, error) {
	weighted := make([]stats.Weighted, 0, len(goals))
	for _, goal := range goals {
		weighted = append(weighted, stats.Weighted{Value: goal.Progress, Weight: goal.Weight})
	}
	if err := stats.ValidateWeights(weighted); err != nil {
		return Snapshot{}, err
	}

	var scores, competency []float64
	for _, evaluation := range latest {
		if evaluation.OverallScore != nil {
			scores = append(scores, *evaluation.OverallScore)
		}
		if evaluation.CompetencyScore != nil {
			competency = append(competency, *evaluation.CompetencyScore)
		}
	}

	snapshot := Snapshot{
		Scope:              req.Scope,
		ScopeID:            req.ScopeID,
		PeriodStart:        req.PeriodStart,
		PeriodEnd:          req.PeriodEnd,
		TotalEmployees:     totalEmployees,
		EvaluatedEmployees: len(latest),
	}
	if req.Scope == ScopeOrganization {
		snapshot.ScopeID = nil
	}
	overall := stats.Aggregate(scopeLabel(snapshot.Scope, snapshot.ScopeID), MetricOverallScore, scores)
	snapshot.Overall = &overall
	snapshot.SetPercentiles(overall.Percentiles)
	snapshot.SetHistogram(stats.ClassHistogram(scores, stats.PerformanceBands))
	if overall.Mean != nil {
		snapshot.AvgOverallScore = ptr(stats.Round(*overall.Mean, 0))
	}
	if mean, ok := stats.Mean(competency); ok {
		snapshot.AvgCompetencyScore = ptr(stats.Round(mean, 0))
	}
	if len(weighted) > 0 {
		snapshot.AvgGoalCompletion = ptr(stats.Round(stats.WeightedProgress(weighted), 0))
	}
	return snapshot, nil
}

// scopeLabel renders a scope as "organization" or "<scope>:<id>".
func scopeLabel(scope string, scopeID *int64) string {
	if scopeID == nil {
		return scope
	}
	return scope + ":" + strconv.FormatInt(*scopeID, 10)
}

// Compare places a score against a snapshot's percentiles. It returns nil when
// the score or the snapshot's percentiles are missing.
func Compare(score *float64, snapshot *Snapshot) *string {
	if score == nil || snapshot == nil {
		return nil
	}
	if snapshot.P25Score == nil || snapshot.P50Score == nil || snapshot.P75Score == nil || snapshot.P90Score == nil {
		return nil
	}
	var position string
	switch v := *score; {
	case v >= *snapshot.P90Score:
		position = PositionTop10
	case v >= *snapshot.P75Score:
		position = PositionTop25
	case v >= *snapshot.P50Score:
		position = PositionAboveMedian
	case v >= *snapshot.P25Score:
		position = PositionBelowMedian
	default:
		position = PositionBottom25
	}
	return &position
}

func (s *Service) Latest(ctx context.Context, scope string, scopeID *int64) (*Snapshot, error) {
	if err := ValidateScope(scope, scopeID); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, unavailable("latest benchmark", ErrBenchmarkStoreUnset)
	}
	if scope == ScopeOrganization {
		scopeID = nil
	}
	return s.store.LatestSnapshot(ctx, scope, scopeID)
}

func (s *Service) List(ctx context.Context, scope string, scopeID *int64, limit int) ([]Snapshot, error) {
	if scope != "" {
		if err := ValidateScope(scope, scopeID); err != nil {
			return nil, err
		}
	}
	if s.store == nil {
		return nil, unavailable("list benchmarks", ErrBenchmarkStoreUnset)
	}
	return s.store.ListSnapshots(ctx, scope, scopeID, clampLimit(limit, DefaultListLimit))
}

func (s *Service) CompareEmployee(ctx context.Context, employeeID int64) (EmployeeComparison, error) {
	employee, err := s.reader.EmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, readers.ErrNotFound) {
			return EmployeeComparison{}, ErrEmployeeNotFound
		}
		return EmployeeComparison{}, err
	}
	evaluation, err := s.reader.LatestEvaluation(ctx, employeeID)
	if err != nil {
		return EmployeeComparison{}, err
	}

	out := EmployeeComparison{
		Employee: EmployeeRef{
			ID:             employee.ID,
			Name:           employee.Name,
			DepartmentName: employee.DepartmentName,
			PositionTitle:  employee.PositionTitle,
		},
	}
	var score *float64
	if evaluation != nil {
		score = evaluation.OverallScore
		out.Evaluation = &EvaluationSummary{
			FinalScore:      evaluation.OverallScore,
			CompetencyScore: evaluation.CompetencyScore,
		}
		if score != nil {
			out.Evaluation.Classification = ptr(stats.Classify(*score, stats.PerformanceBands))
		}
	}

	if s.store == nil {
		return out, nil
	}
	if out.Benchmarks.Organization, err = s.store.LatestSnapshot(ctx, ScopeOrganization, nil); err != nil {
		return EmployeeComparison{}, err
	}
	if employee.DepartmentID != nil {
		if out.Benchmarks.Department, err = s.store.LatestSnapshot(ctx, ScopeDepartment, employee.DepartmentID); err != nil {
			return EmployeeComparison{}, err
		}
	}
	if employee.PositionID != nil {
		if out.Benchmarks.Position, err = s.store.LatestSnapshot(ctx, ScopePosition, employee.PositionID); err != nil {
			return EmployeeComparison{}, err
		}
	}
	out.Comparison = Comparison{
		VsOrganization: Compare(score, out.Benchmarks.Organization),
		VsDepartment:   Compare(score, out.Benchmarks.Department),
		VsPosition:     Compare(score, out.Benchmarks.Position),
	}
	return out, nil
}

// Ranking orders employees in scope by the final score of their latest
// evaluation. Employees without a positive score are left out.
func (s *Service) Ranking(ctx context.Context, scope string, scopeID *int64, limit int) ([]RankingEntry, error) {
	if err := ValidateScope(scope, scopeID); err != nil {
		return nil, err
	}
	employees, err := s.resolveEmployees(ctx, scope, scopeID)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return []RankingEntry{}, nil
	}
	evaluations, err := s.reader.Evaluations(ctx, readers.Period{}, readers.Scope{EmployeeIDs: employeeIDs(employees)})
	if err != nil {
		return nil, err
	}
	return BuildRanking(employees, latestPerEmployee(evaluations), clampLimit(limit, DefaultRankingLimit)), nil
}

func BuildRanking(employees []readers.Employee, latest []readers.Evaluation, limit int) []RankingEntry {
	byEmployee := make(map[int64]readers.Evaluation, len(latest))
	for _, evaluation := range latest {
		byEmployee[evaluation.EmployeeID] = evaluation
	}

	entries := make([]RankingEntry, 0, len(employees))
	for _, employee := range employees {
		evaluation, ok := byEmployee[employee.ID]
		if !ok {
			continue
		}
		final := readers.Float(evaluation.OverallScore)
		if final <= 0 {
			continue
		}
		entries = append(entries, RankingEntry{
			EmployeeID:      employee.ID,
			EmployeeName:    employee.Name,
			FinalScore:      final,
			CompetencyScore: readers.Float(evaluation.CompetencyScore),
			Classification:  stats.Classify(final, stats.PerformanceBands),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].FinalScore > entries[j].FinalScore
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func (s *Service) resolveEmployees(ctx context.Context, scope string, scopeID *int64) ([]readers.Employee, error) {
	switch scope {
	case ScopeOrganization:
		return s.reader.Employees(ctx, readers.Scope{})
	case ScopeDepartment:
		return s.reader.Employees(ctx, readers.Scope{DepartmentID: scopeID})
	case ScopePosition:
		return s.reader.Employees(ctx, readers.Scope{PositionID: scopeID})
	case ScopeTeam:
		all, err := s.reader.Employees(ctx, readers.Scope{})
		if err != nil {
			return nil, err
		}
		return TeamMembers(all, *scopeID), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
}

// TeamMembers returns everyone reporting directly or indirectly to managerID,
// excluding the manager.
func TeamMembers(all []readers.Employee, managerID int64) []readers.Employee {
	hierarchy := org.NewHierarchy(all)
	subtree := hierarchy.Subtree(managerID)
	if len(subtree) <= 1 {
		return nil
	}
	members := make(map[int64]struct{}, len(subtree))
	for _, id := range subtree[1:] {
		members[id] = struct{}{}
	}
	out := make([]readers.Employee, 0, len(members))
	for _, employee := range all {
		if _, ok := members[employee.ID]; ok {
			out = append(out, employee)
		}
	}
	return out
}

// latestPerEmployee keeps the most recent evaluation for each employee,
// preserving first-seen employee order.
func latestPerEmployee(evaluations []readers.Evaluation) []readers.Evaluation {
	index := make(map[int64]int)
	out := make([]readers.Evaluation, 0, len(evaluations))
	for _, evaluation := range evaluations {
		i, ok := index[evaluation.EmployeeID]
		if !ok {
			index[evaluation.EmployeeID] = len(out)
			out = append(out, evaluation)
			continue
		}
		if !evaluation.CreatedAt.Before(out[i].CreatedAt) {
			out[i] = evaluation
		}
	}
	return out
}

func employeeIDs(employees []readers.Employee) []int64 {
	ids := make([]int64, 0, len(employees))
	for _, employee := range employees {
		ids = append(ids, employee.ID)
	}
	return ids
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return min(limit, MaxLimit)
}
