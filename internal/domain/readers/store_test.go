package readers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hrinsight/internal/domain/stats"
)

func TestPeriodValidate(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	if err := (Period{Start: start, End: end}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Period{Start: start, End: start}).Validate(); err != nil {
		t.Fatalf("equal bounds should be valid: %v", err)
	}
	err := (Period{Start: end, End: start}).Validate()
	if !errors.Is(err, ErrInvalidPeriod) || !errors.Is(err, stats.ErrMalformedInput) {
		t.Fatalf("expected invalid period, got %v", err)
	}
	if !(Period{}).IsZero() {
		t.Fatal("expected zero period")
	}
}

func TestWithPeriodAndScopeNumberPlaceholders(t *testing.T) {
	dept := int64(7)
	period := Period{Start: time.Unix(0, 0), End: time.Unix(100, 0)}
	query, args := withPeriod("SELECT 1 WHERE 1=1", nil, "created_at", period)
	query, args = withScope(query, args, "employee_id", Scope{DepartmentID: &dept, EmployeeIDs: []int64{1, 2}})

	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %d", len(args))
	}
	for _, fragment := range []string{"created_at >= $1", "created_at <= $2", "department_id = $3", "employee_id = ANY($4)"} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected %q in query %q", fragment, query)
		}
	}
}

func TestZeroPeriodAddsNoFilter(t *testing.T) {
	query, args := withPeriod("SELECT 1 WHERE 1=1", nil, "created_at", Period{})
	if len(args) != 0 || strings.Contains(query, "created_at") {
		t.Fatalf("expected no period filter, got %q %v", query, args)
	}
}

func TestStoreWithoutDatabaseFailsFast(t *testing.T) {
	store := NewStore(nil)
	_, err := store.NPSResponses(context.Background(), Period{}, Scope{})
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}
	if _, err := store.EmployeeByID(context.Background(), 1); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}
}

func TestEmptyEmployeeSetReadsNothing(t *testing.T) {
	store := NewStore(nil)
	rows, err := store.Evaluations(context.Background(), Period{}, Scope{EmployeeIDs: []int64{}})
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected no rows and no error, got %v %v", rows, err)
	}
}
