package readers

import (
	"context"
	"errors"
	"strconv"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"hrinsight/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

var _ Reader = (*Store)(nil)

func (s *Store) AssessmentProcesses(ctx context.Context, period Period, scope Scope) ([]AssessmentProcess, error) {
	if scope.restrictsToNothing() {
		return nil, nil
	}
	query := `
    SELECT id, employee_id, status, created_at
    FROM assessment_processes
    WHERE 1=1
  `
	query, args := withPeriod(query, nil, "created_at", period)
	query, args = withScope(query, args, "employee_id", scope)
	var rows []AssessmentProcess
	if err := s.selectRows(ctx, &rows, query, args); err != nil {
		return nil, unavailable("read assessment processes", err)
	}
	return rows, nil
}

func (s *Store) NPSResponses(ctx context.Context, period Period, scope Scope) ([]NPSResponse, error) {
	if scope.restrictsToNothing() {
		return nil, nil
	}
	query := `
    SELECT id, employee_id, score, COALESCE(category, '') AS category,
           response_time_seconds, follow_up_comment, created_at
    FROM nps_responses
    WHERE 1=1
  `
	query, args := withPeriod(query, nil, "created_at", period)
	query, args = withScope(query, args, "employee_id", scope)
	query += " ORDER BY created_at DESC"
	var rows []NPSResponse
	if err := s.selectRows(ctx, &rows, query, args); err != nil {
		return nil, unavailable("read nps responses", err)
	}
	return rows, nil
}

func (s *Store) Evaluations(ctx context.Context, period Period, scope Scope) ([]Evaluation, error) {
	if scope.restrictsToNothing() {
		return nil, nil
	}
	query := `
    SELECT id, employee_id, overall_score, competency_score, created_at
    FROM performance_evaluations
    WHERE 1=1
  `
	query, args := withPeriod(query, nil, "created_at", period)
	query, args = withScope(query, args, "employee_id", scope)
	query += " ORDER BY created_at ASC"
	var rows []Evaluation
	if err := s.selectRows(ctx, &rows, query, args); err != nil {
		return nil, unavailable("read performance evaluations", err)
	}
	return rows, nil
}

func (s *Store) LatestEvaluation(ctx context.Context, employeeID int64) (*Evaluation, error) {
	if s.DB == nil {
		return nil, unavailable("read latest evaluation", errNoDB)
	}
	var row Evaluation
	err := pgxscan.Get(ctx, s.DB, &row, `
    SELECT id, employee_id, overall_score, competency_score, created_at
    FROM performance_evaluations
    WHERE employee_id = $1
    ORDER BY created_at DESC
    LIMIT 1
  `, employeeID)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("read latest evaluation", err)
	}
	return &row, nil
}

func (s *Store) IntegrityAssessments(ctx context.Context, period Period, scope Scope) ([]IntegrityAssessment, error) {
	if scope.restrictsToNothing() {
		return nil, nil
	}
	query := `
    SELECT id, employee_id, status, total_score, created_at
    FROM integrity_assessments
    WHERE 1=1
  `
	query, args := withPeriod(query, nil, "created_at", period)
	query, args = withScope(query, args, "employee_id", scope)
	var rows []IntegrityAssessment
	if err := s.selectRows(ctx, &rows, query, args); err != nil {
		return nil, unavailable("read integrity assessments", err)
	}
	return rows, nil
}

func (s *Store) IntegrityQuestions(ctx context.Context) ([]IntegrityQuestion, error) {
	var rows []IntegrityQuestion
	if err := s.selectRows(ctx, &rows, "SELECT id, dimension FROM integrity_questions WHERE active = true ORDER BY id", nil); err != nil {
		return nil, unavailable("read integrity questions", err)
	}
	return rows, nil
}

func (s *Store) IntegrityAnswers(ctx context.Context, period Period, scope Scope) ([]IntegrityAnswer, error) {
	if scope.restrictsToNothing() {
		return nil, nil
	}
	query := `
    SELECT an.id, an.assessment_id, an.question_id, an.score, an.created_at
    FROM integrity_answers an
    JOIN integrity_assessments a ON a.id = an.assessment_id
    WHERE 1=1
  `
	query, args := withPeriod(query, nil, "an.created_at", period)
	query, args = withScope(query, args, "a.employee_id", scope)
	var rows []IntegrityAnswer
	if err := s.selectRows(ctx, &rows, query, args); err != nil {
		return nil, unavailable("read integrity answers", err)
	}
	return rows, nil
}

func (s *Store) ActiveDepartments(ctx context.Context) ([]Department, error) {
	var rows []Department
	if err := s.selectRows(ctx, &rows, "SELECT id, name FROM departments WHERE active = true ORDER BY id", nil); err != nil {
		return nil, unavailable("read departments", err)
	}
	return rows, nil
}

const employeeColumns = `
    SELECT e.id, e.name, e.department_id, e.position_id, e.manager_id,
           d.name AS department_name, p.title AS position_title
    FROM employees e
    LEFT JOIN departments d ON d.id = e.department_id
    LEFT JOIN positions p ON p.id = e.position_id
`

func (s *Store) Employees(ctx context.Context, scope Scope) ([]Employee, error) {
	if scope.restrictsToNothing() {
		return nil, nil
	}
	query, args := withScope(employeeColumns+" WHERE e.active = true", nil, "e.id", scope)
	query += " ORDER BY e.id"
	var rows []Employee
	if err := s.selectRows(ctx, &rows, query, args); err != nil {
		return nil, unavailable("read employees", err)
	}
	return rows, nil
}

func (s *Store) EmployeeIDs(ctx context.Context, scope Scope) ([]int64, error) {
	if scope.restrictsToNothing() {
		return []int64{}, nil
	}
	query, args := withScope("SELECT id FROM employees WHERE active = true", nil, "id", scope)
	query += " ORDER BY id"
	ids := []int64{}
	if err := s.selectRows(ctx, &ids, query, args); err != nil {
		return nil, unavailable("read employee ids", err)
	}
	return ids, nil
}

func (s *Store) EmployeeByID(ctx context.Context, employeeID int64) (Employee, error) {
	if s.DB == nil {
		return Employee{}, unavailable("read employee", errNoDB)
	}
	var row Employee
	err := pgxscan.Get(ctx, s.DB, &row, employeeColumns+" WHERE e.id = $1", employeeID)
	if pgxscan.NotFound(err) || errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, unavailable("read employee", err)
	}
	return row, nil
}

func (s *Store) Goals(ctx context.Context, period Period, scope Scope) ([]Goal, error) {
	if scope.restrictsToNothing() {
		return nil, nil
	}
	query := `
    SELECT employee_id, progress, weight
    FROM goals
    WHERE 1=1
  `
	query, args := withPeriod(query, nil, "created_at", period)
	query, args = withScope(query, args, "employee_id", scope)
	var rows []Goal
	if err := s.selectRows(ctx, &rows, query, args); err != nil {
		return nil, unavailable("read goals", err)
	}
	return rows, nil
}

var errNoDB = errors.New("database handle not configured")

func (s *Store) selectRows(ctx context.Context, dst any, query string, args []any) error {
	if s.DB == nil {
		return errNoDB
	}
	return pgxscan.Select(ctx, s.DB, dst, query, args...)
}

func withPeriod(query string, args []any, column string, period Period) (string, []any) {
	if !period.Start.IsZero() {
		args = append(args, period.Start)
		query += " AND " + column + " >= $" + strconv.Itoa(len(args))
	}
	if !period.End.IsZero() {
		args = append(args, period.End)
		query += " AND " + column + " <= $" + strconv.Itoa(len(args))
	}
	return query, args
}

// withScope filters on an employee id column; department and position go
// through the employees table so callers never need the join themselves.
func withScope(query string, args []any, employeeColumn string, scope Scope) (string, []any) {
	if scope.DepartmentID != nil {
		args = append(args, *scope.DepartmentID)
		query += " AND " + employeeColumn + " IN (SELECT id FROM employees WHERE department_id = $" + strconv.Itoa(len(args)) + ")"
	}
	if scope.PositionID != nil {
		args = append(args, *scope.PositionID)
		query += " AND " + employeeColumn + " IN (SELECT id FROM employees WHERE position_id = $" + strconv.Itoa(len(args)) + ")"
	}
	if scope.EmployeeIDs != nil {
		args = append(args, scope.EmployeeIDs)
		query += " AND " + employeeColumn + " = ANY($" + strconv.Itoa(len(args)) + ")"
	}
	return query, args
}
