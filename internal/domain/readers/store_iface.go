package readers

import "context"

// Reader is the read-only contract over the source-of-record tables. Every
// method either returns rows (possibly none) or an error wrapping
// ErrDataUnavailable.
type Reader interface {
	AssessmentProcesses(ctx context.Context, period Period, scope Scope) ([]AssessmentProcess, error)
	NPSResponses(ctx context.Context, period Period, scope Scope) ([]NPSResponse, error)
	Evaluations(ctx context.Context, period Period, scope Scope) ([]Evaluation, error)
	LatestEvaluation(ctx context.Context, employeeID int64) (*Evaluation, error)
	IntegrityAssessments(ctx context.Context, period Period, scope Scope) ([]IntegrityAssessment, error)
	IntegrityQuestions(ctx context.Context) ([]IntegrityQuestion, error)
	IntegrityAnswers(ctx context.Context, period Period, scope Scope) ([]IntegrityAnswer, error)
	ActiveDepartments(ctx context.Context) ([]Department, error)
	Employees(ctx context.Context, scope Scope) ([]Employee, error)
	EmployeeIDs(ctx context.Context, scope Scope) ([]int64, error)
	EmployeeByID(ctx context.Context, employeeID int64) (Employee, error)
	Goals(ctx context.Context, period Period, scope Scope) ([]Goal, error)
}
