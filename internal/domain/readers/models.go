package readers

import (
	"time"

	"hrinsight/internal/domain/stats"
)

const (
	ProcessStatusCompleted    = "completed"
	AssessmentStatusCompleted = "completed"
	AssessmentStatusPending   = "pending"
)

// Period is an inclusive time window. The zero Period means "all time".
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

func (p Period) Validate() error {
	if !p.Start.IsZero() && !p.End.IsZero() && p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Scope narrows reads to part of the organization. A non-nil EmployeeIDs
// restricts to exactly that set, so an empty non-nil slice reads nothing.
type Scope struct {
	DepartmentID *int64
	PositionID   *int64
	EmployeeIDs  []int64
}

func (s Scope) restrictsToNothing() bool {
	return s.EmployeeIDs != nil && len(s.EmployeeIDs) == 0
}

type AssessmentProcess struct {
	ID         int64     `db:"id"`
	EmployeeID int64     `db:"employee_id"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

type NPSResponse struct {
	ID                  int64     `db:"id"`
	EmployeeID          int64     `db:"employee_id"`
	Score               int       `db:"score"`
	Category            string    `db:"category"`
	ResponseTimeSeconds *int      `db:"response_time_seconds"`
	FollowUpComment     *string   `db:"follow_up_comment"`
	CreatedAt           time.Time `db:"created_at"`
}

// ResolvedCategory prefers the stored category and derives one from the
// 0-10 score when the stored value is missing or unknown.
func (r NPSResponse) ResolvedCategory() string {
	switch r.Category {
	case stats.NPSPromoter, stats.NPSPassive, stats.NPSDetractor:
		return r.Category
	}
	return stats.NPSCategory(r.Score)
}

type Evaluation struct {
	ID              int64     `db:"id"`
	EmployeeID      int64     `db:"employee_id"`
	OverallScore    *float64  `db:"overall_score"`
	CompetencyScore *float64  `db:"competency_score"`
	CreatedAt       time.Time `db:"created_at"`
}

type IntegrityAssessment struct {
	ID         int64     `db:"id"`
	EmployeeID int64     `db:"employee_id"`
	Status     string    `db:"status"`
	TotalScore *float64  `db:"total_score"`
	CreatedAt  time.Time `db:"created_at"`
}

func (a IntegrityAssessment) Completed() bool {
	return a.Status == AssessmentStatusCompleted
}

type IntegrityQuestion struct {
	ID        int64  `db:"id"`
	Dimension string `db:"dimension"`
}

type IntegrityAnswer struct {
	ID           int64     `db:"id"`
	AssessmentID int64     `db:"assessment_id"`
	QuestionID   int64     `db:"question_id"`
	Score        *float64  `db:"score"`
	CreatedAt    time.Time `db:"created_at"`
}

type Department struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Employee struct {
	ID             int64   `db:"id"`
	Name           string  `db:"name"`
	DepartmentID   *int64  `db:"department_id"`
	PositionID     *int64  `db:"position_id"`
	ManagerID      *int64  `db:"manager_id"`
	DepartmentName *string `db:"department_name"`
	PositionTitle  *string `db:"position_title"`
}

type Goal struct {
	EmployeeID int64   `db:"employee_id"`
	Progress   float64 `db:"progress"`
	Weight     float64 `db:"weight"`
}

// Float returns the value of a nullable score or 0.
func Float(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
