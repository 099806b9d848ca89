package benchmark

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrinsight/internal/domain/readers"
	"hrinsight/internal/domain/stats"
)

func f(v float64) *float64 { return &v }
func id(v int64) *int64    { return &v }

var (
	periodStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
)

func orgRequest() CalculateRequest {
	return CalculateRequest{Scope: ScopeOrganization, PeriodStart: periodStart, PeriodEnd: periodEnd}
}

func evaluationsFor(scores ...float64) []readers.Evaluation {
	out := make([]readers.Evaluation, 0, len(scores))
	for i, score := range scores {
		out = append(out, readers.Evaluation{ID: int64(i + 1), EmployeeID: int64(i + 1), OverallScore: f(score), CreatedAt: periodStart})
	}
	return out
}

func TestBuildSnapshotPercentilesAndCompare(t *testing.T) {
	snapshot, err := BuildSnapshot(orgRequest(), 6, evaluationsFor(50, 60, 70, 80, 90), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *snapshot.P25Score != 60 || *snapshot.P50Score != 70 || *snapshot.P75Score != 80 || *snapshot.P90Score != 90 {
		t.Fatalf("unexpected percentiles: %v %v %v %v", *snapshot.P25Score, *snapshot.P50Score, *snapshot.P75Score, *snapshot.P90Score)
	}
	if snapshot.TotalEmployees != 6 || snapshot.EvaluatedEmployees != 5 {
		t.Fatalf("unexpected counts: %+v", snapshot)
	}
	if snapshot.BelowExpectations != 1 || snapshot.MeetsExpectations != 2 || snapshot.ExceedsExpectations != 1 || snapshot.Exceptional != 1 {
		t.Fatalf("unexpected histogram: %+v", snapshot)
	}
	if *snapshot.AvgOverallScore != 70 {
		t.Fatalf("expected avg 70, got %v", *snapshot.AvgOverallScore)
	}
	if o := snapshot.Overall; o == nil || o.Scope != ScopeOrganization || o.Metric != MetricOverallScore || o.Count != 5 || o.Mean == nil || *o.Mean != 70 {
		t.Fatalf("unexpected overall aggregate: %+v", snapshot.Overall)
	}
	if snapshot.AvgGoalCompletion != nil {
		t.Fatalf("expected nil goal completion without goals")
	}

	got := Compare(f(85), &snapshot)
	if got == nil || *got != PositionTop25 {
		t.Fatalf("expected top_25, got %v", got)
	}
}

func TestCompareBands(t *testing.T) {
	snapshot, _ := BuildSnapshot(orgRequest(), 5, evaluationsFor(50, 60, 70, 80, 90), nil)
	cases := []struct {
		score float64
		want  string
	}{
		{95, PositionTop10},
		{90, PositionTop10},
		{80, PositionTop25},
		{70, PositionAboveMedian},
		{65, PositionBelowMedian},
		{59.9, PositionBottom25},
	}
	for _, tc := range cases {
		got := Compare(f(tc.score), &snapshot)
		if got == nil || *got != tc.want {
			t.Fatalf("score %v: expected %s, got %v", tc.score, tc.want, got)
		}
	}
}

func TestCompareMissingInputs(t *testing.T) {
	if Compare(nil, &Snapshot{}) != nil {
		t.Fatalf("expected nil for missing score")
	}
	if Compare(f(80), nil) != nil {
		t.Fatalf("expected nil for missing snapshot")
	}
	if Compare(f(80), &Snapshot{}) != nil {
		t.Fatalf("expected nil for snapshot without percentiles")
	}
}

func TestBuildSnapshotGoalCompletion(t *testing.T) {
	goals := []readers.Goal{{EmployeeID: 1, Progress: 100, Weight: 1}, {EmployeeID: 2, Progress: 40, Weight: 3}}
	snapshot, err := BuildSnapshot(orgRequest(), 2, nil, goals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.AvgGoalCompletion == nil || *snapshot.AvgGoalCompletion != 55 {
		t.Fatalf("expected weighted completion 55, got %v", snapshot.AvgGoalCompletion)
	}
	if snapshot.P50Score != nil || snapshot.AvgOverallScore != nil {
		t.Fatalf("expected nil score fields without evaluations")
	}
	if o := snapshot.Overall; o == nil || o.Count != 0 || o.Mean != nil || o.Percentiles != nil {
		t.Fatalf("expected empty overall aggregate, got %+v", snapshot.Overall)
	}

	_, err = BuildSnapshot(orgRequest(), 1, nil, []readers.Goal{{Progress: 10, Weight: -1}})
	if !errors.Is(err, stats.ErrMalformedInput) {
		t.Fatalf("expected malformed input, got %v", err)
	}
}

func TestLatestPerEmployee(t *testing.T) {
	older := readers.Evaluation{ID: 1, EmployeeID: 7, OverallScore: f(40), CreatedAt: periodStart}
	newer := readers.Evaluation{ID: 2, EmployeeID: 7, OverallScore: f(88), CreatedAt: periodStart.Add(24 * time.Hour)}
	other := readers.Evaluation{ID: 3, EmployeeID: 8, OverallScore: f(70), CreatedAt: periodStart}

	got := latestPerEmployee([]readers.Evaluation{newer, other, older})
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("unexpected latest evaluations: %+v", got)
	}
}

func TestValidateScope(t *testing.T) {
	if err := ValidateScope(ScopeOrganization, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateScope(ScopeDepartment, nil); !errors.Is(err, ErrInvalidScope) {
		t.Fatalf("expected invalid scope, got %v", err)
	}
	if err := ValidateScope("galaxy", id(1)); !errors.Is(err, ErrInvalidScope) {
		t.Fatalf("expected invalid scope, got %v", err)
	}
}

func TestCalculateRequestRejectsInvertedPeriod(t *testing.T) {
	req := CalculateRequest{Scope: ScopeOrganization, PeriodStart: periodEnd, PeriodEnd: periodStart}
	if err := req.Validate(); !errors.Is(err, stats.ErrMalformedInput) {
		t.Fatalf("expected malformed input, got %v", err)
	}
}

type fakeReader struct {
	employees   []readers.Employee
	evaluations []readers.Evaluation
	goals       []readers.Goal
	err         error
	lastScope   readers.Scope
}

func (r *fakeReader) Evaluations(_ context.Context, _ readers.Period, scope readers.Scope) ([]readers.Evaluation, error) {
	r.lastScope = scope
	if r.err != nil {
		return nil, r.err
	}
	var out []readers.Evaluation
	for _, evaluation := range r.evaluations {
		for _, id := range scope.EmployeeIDs {
			if evaluation.EmployeeID == id {
				out = append(out, evaluation)
			}
		}
	}
	return out, nil
}

func (r *fakeReader) LatestEvaluation(_ context.Context, employeeID int64) (*readers.Evaluation, error) {
	latest := latestPerEmployee(r.evaluations)
	for i := range latest {
		if latest[i].EmployeeID == employeeID {
			return &latest[i], nil
		}
	}
	return nil, nil
}

func (r *fakeReader) Employees(_ context.Context, scope readers.Scope) ([]readers.Employee, error) {
	var out []readers.Employee
	for _, employee := range r.employees {
		if scope.DepartmentID != nil && (employee.DepartmentID == nil || *employee.DepartmentID != *scope.DepartmentID) {
			continue
		}
		out = append(out, employee)
	}
	return out, nil
}

func (r *fakeReader) EmployeeByID(_ context.Context, employeeID int64) (readers.Employee, error) {
	for _, employee := range r.employees {
		if employee.ID == employeeID {
			return employee, nil
		}
	}
	return readers.Employee{}, readers.ErrNotFound
}

func (r *fakeReader) Goals(context.Context, readers.Period, readers.Scope) ([]readers.Goal, error) {
	return r.goals, nil
}

type memoryStore struct {
	saved []Snapshot
}

func (m *memoryStore) SaveSnapshot(_ context.Context, snapshot *Snapshot) error {
	snapshot.ID = int64(len(m.saved) + 1)
	snapshot.CalculatedAt = periodEnd
	m.saved = append(m.saved, *snapshot)
	return nil
}

func (m *memoryStore) LatestSnapshot(_ context.Context, scope string, scopeID *int64) (*Snapshot, error) {
	for i := len(m.saved) - 1; i >= 0; i-- {
		s := m.saved[i]
		if s.Scope != scope {
			continue
		}
		if (s.ScopeID == nil) != (scopeID == nil) || (s.ScopeID != nil && *s.ScopeID != *scopeID) {
			continue
		}
		return &s, nil
	}
	return nil, nil
}

func (m *memoryStore) ListSnapshots(context.Context, string, *int64, int) ([]Snapshot, error) {
	return m.saved, nil
}

func staff() []readers.Employee {
	return []readers.Employee{
		{ID: 1, Name: "Ada", DepartmentID: id(10)},
		{ID: 2, Name: "Grace", DepartmentID: id(10), ManagerID: id(1)},
		{ID: 3, Name: "Linus", DepartmentID: id(20), ManagerID: id(2)},
		{ID: 4, Name: "Ken", DepartmentID: id(20)},
	}
}

func TestCalculateSavesSnapshot(t *testing.T) {
	reader := &fakeReader{employees: staff(), evaluations: evaluationsFor(50, 60, 70, 80)}
	store := &memoryStore{}
	svc := NewService(reader, store, nil)

	snapshot, err := svc.Calculate(context.Background(), orgRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.ID != 1 || len(store.saved) != 1 {
		t.Fatalf("expected snapshot to be saved, got %+v", snapshot)
	}
	if snapshot.TotalEmployees != 4 || snapshot.EvaluatedEmployees != 4 {
		t.Fatalf("unexpected counts: %+v", snapshot)
	}
}

func TestCalculateEmptyScope(t *testing.T) {
	svc := NewService(&fakeReader{employees: staff()}, &memoryStore{}, nil)
	req := CalculateRequest{Scope: ScopeDepartment, ScopeID: id(99), PeriodStart: periodStart, PeriodEnd: periodEnd}
	if _, err := svc.Calculate(context.Background(), req); !errors.Is(err, ErrNoEmployeesInScope) {
		t.Fatalf("expected ErrNoEmployeesInScope, got %v", err)
	}
}

func TestCalculatePropagatesUnavailable(t *testing.T) {
	svc := NewService(&fakeReader{employees: staff(), err: readers.ErrDataUnavailable}, &memoryStore{}, nil)
	if _, err := svc.Calculate(context.Background(), orgRequest()); !errors.Is(err, readers.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestCalculateTeamScope(t *testing.T) {
	reader := &fakeReader{employees: staff(), evaluations: evaluationsFor(50, 60, 70, 80)}
	svc := NewService(reader, nil, nil)
	req := CalculateRequest{Scope: ScopeTeam, ScopeID: id(1), PeriodStart: periodStart, PeriodEnd: periodEnd}
	snapshot, err := svc.Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.TotalEmployees != 2 {
		t.Fatalf("expected team of 2, got %d", snapshot.TotalEmployees)
	}
	if len(reader.lastScope.EmployeeIDs) != 2 || reader.lastScope.EmployeeIDs[0] != 2 || reader.lastScope.EmployeeIDs[1] != 3 {
		t.Fatalf("unexpected team scope: %+v", reader.lastScope.EmployeeIDs)
	}
}

func TestRanking(t *testing.T) {
	evaluations := evaluationsFor(70, 95, 0, 82)
	reader := &fakeReader{employees: staff(), evaluations: evaluations}
	svc := NewService(reader, nil, nil)

	ranking, err := svc.Ranking(context.Background(), ScopeOrganization, nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranking) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranking))
	}
	if ranking[0].EmployeeID != 2 || ranking[0].Rank != 1 || ranking[0].Classification != stats.ClassExceptional {
		t.Fatalf("unexpected first entry: %+v", ranking[0])
	}
	if ranking[1].EmployeeID != 4 || ranking[1].Rank != 2 {
		t.Fatalf("unexpected second entry: %+v", ranking[1])
	}
}

func TestCompareEmployee(t *testing.T) {
	reader := &fakeReader{employees: staff(), evaluations: evaluationsFor(50, 60, 70, 85)}
	store := &memoryStore{}
	svc := NewService(reader, store, nil)
	if _, err := svc.Calculate(context.Background(), orgRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := svc.CompareEmployee(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Benchmarks.Organization == nil || out.Benchmarks.Department != nil {
		t.Fatalf("unexpected benchmarks: %+v", out.Benchmarks)
	}
	if out.Comparison.VsOrganization == nil || *out.Comparison.VsOrganization != PositionTop10 {
		t.Fatalf("unexpected comparison: %+v", out.Comparison)
	}
	if out.Comparison.VsDepartment != nil {
		t.Fatalf("expected nil department comparison")
	}

	if _, err := svc.CompareEmployee(context.Background(), 404); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestStoreWithoutDatabase(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.LatestSnapshot(context.Background(), ScopeOrganization, nil); !errors.Is(err, readers.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestScopeLabel(t *testing.T) {
	id := int64(10)
	if got := scopeLabel(ScopeDepartment, &id); got != "department:10" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := scopeLabel(ScopeOrganization, nil); got != "organization" {
		t.Fatalf("unexpected label %q", got)
	}
}
