package reports

import (
	"context"
	"sync/atomic"
	"time"

	"hrinsight/internal/domain/readers"
)

type fakeReader struct {
	processes   []readers.AssessmentProcess
	responses   []readers.NPSResponse
	evaluations []readers.Evaluation
	assessments []readers.IntegrityAssessment
	questions   []readers.IntegrityQuestion
	answers     []readers.IntegrityAnswer
	departments []readers.Department
	employees   []readers.Employee
	err         error
	calls       atomic.Int64
}

var _ readers.Reader = (*fakeReader)(nil)

func inPeriod(period readers.Period, at time.Time) bool {
	if !period.Start.IsZero() && at.Before(period.Start) {
		return false
	}
	if !period.End.IsZero() && at.After(period.End) {
		return false
	}
	return true
}

func (f *fakeReader) inScope(scope readers.Scope, employeeID int64) bool {
	if scope.EmployeeIDs != nil {
		for _, id := range scope.EmployeeIDs {
			if id == employeeID {
				return true
			}
		}
		return false
	}
	if scope.DepartmentID != nil {
		for _, e := range f.employees {
			if e.ID == employeeID {
				return e.DepartmentID != nil && *e.DepartmentID == *scope.DepartmentID
			}
		}
		return false
	}
	return true
}

func (f *fakeReader) AssessmentProcesses(_ context.Context, period readers.Period, scope readers.Scope) ([]readers.AssessmentProcess, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []readers.AssessmentProcess
	for _, row := range f.processes {
		if inPeriod(period, row.CreatedAt) && f.inScope(scope, row.EmployeeID) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeReader) NPSResponses(_ context.Context, period readers.Period, scope readers.Scope) ([]readers.NPSResponse, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []readers.NPSResponse
	for _, row := range f.responses {
		if inPeriod(period, row.CreatedAt) && f.inScope(scope, row.EmployeeID) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeReader) Evaluations(_ context.Context, period readers.Period, scope readers.Scope) ([]readers.Evaluation, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []readers.Evaluation
	for _, row := range f.evaluations {
		if inPeriod(period, row.CreatedAt) && f.inScope(scope, row.EmployeeID) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeReader) LatestEvaluation(context.Context, int64) (*readers.Evaluation, error) {
	return nil, nil
}

func (f *fakeReader) IntegrityAssessments(_ context.Context, period readers.Period, scope readers.Scope) ([]readers.IntegrityAssessment, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []readers.IntegrityAssessment
	for _, row := range f.assessments {
		if inPeriod(period, row.CreatedAt) && f.inScope(scope, row.EmployeeID) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeReader) IntegrityQuestions(context.Context) ([]readers.IntegrityQuestion, error) {
	f.calls.Add(1)
	return f.questions, f.err
}

func (f *fakeReader) IntegrityAnswers(_ context.Context, period readers.Period, _ readers.Scope) ([]readers.IntegrityAnswer, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []readers.IntegrityAnswer
	for _, row := range f.answers {
		if inPeriod(period, row.CreatedAt) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeReader) ActiveDepartments(context.Context) ([]readers.Department, error) {
	f.calls.Add(1)
	return f.departments, f.err
}

func (f *fakeReader) Employees(_ context.Context, scope readers.Scope) ([]readers.Employee, error) {
	f.calls.Add(1)
	var out []readers.Employee
	for _, e := range f.employees {
		if f.inScope(scope, e.ID) {
			out = append(out, e)
		}
	}
	return out, f.err
}

func (f *fakeReader) EmployeeIDs(ctx context.Context, scope readers.Scope) ([]int64, error) {
	employees, err := f.Employees(ctx, scope)
	if err != nil {
		return nil, err
	}
	ids := []int64{}
	for _, e := range employees {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (f *fakeReader) EmployeeByID(context.Context, int64) (readers.Employee, error) {
	return readers.Employee{}, readers.ErrNotFound
}

func (f *fakeReader) Goals(context.Context, readers.Period, readers.Scope) ([]readers.Goal, error) {
	return nil, f.err
}
