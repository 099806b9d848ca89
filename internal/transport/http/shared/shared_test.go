package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseEndDate(t *testing.T) {
	end, err := ParseEndDate("2026-09-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2026, 9, 30, 23, 59, 59, 999999000, time.UTC); !end.Equal(want) {
		t.Fatalf("expected %v, got %v", want, end)
	}
	exact, err := ParseEndDate("2026-09-30T12:00:00Z")
	if err != nil || exact.Hour() != 12 {
		t.Fatalf("expected RFC3339 value unchanged, got %v %v", exact, err)
	}
	if zero, err := ParseEndDate(""); err != nil || !zero.IsZero() {
		t.Fatalf("expected zero time for empty input")
	}
}

func TestValidatorParams(t *testing.T) {
	v := NewValidator()
	if id := v.ID("departmentId", "12"); id == nil || *id != 12 {
		t.Fatalf("expected id 12")
	}
	if id := v.ID("departmentId", ""); id != nil {
		t.Fatalf("expected nil id for empty input")
	}
	if got := v.Enum("format", " XLSX ", []string{"csv", "xlsx"}, "unsupported"); got != "xlsx" {
		t.Fatalf("expected normalized enum, got %q", got)
	}
	if months := v.IntRange("months", "", 6, 1, 12); months != 6 {
		t.Fatalf("expected fallback 6, got %d", months)
	}
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %v", v.Issues())
	}

	v.ID("scopeId", "-1")
	v.Int("limit", "six", 0)
	v.IntRange("months", "13", 6, 1, 12)
	v.Period("startDate", "30/09/2026", "endDate", "", false)
	issues := v.Issues()
	if len(issues) != 4 || issues[0].Field != "limit" || issues[1].Reason != "must be between 1 and 12" || issues[3].Field != "startDate" {
		t.Fatalf("unexpected issues: %+v", issues)
	}
}

func TestValidatorBool(t *testing.T) {
	v := NewValidator()
	if v.Bool("refresh", "") || !v.Bool("refresh", "true") || !v.Bool("refresh", "1") {
		t.Fatalf("unexpected bool parsing")
	}
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %v", v.Issues())
	}
	if v.Bool("refresh", "yes") {
		t.Fatalf("expected malformed value to parse as false")
	}
	if issues := v.Issues(); len(issues) != 1 || issues[0].Field != "refresh" {
		t.Fatalf("expected refresh issue, got %+v", issues)
	}
}

func TestValidatorPeriod(t *testing.T) {
	v := NewValidator()
	start, end := v.Period("startDate", "2026-09-01", "endDate", "2026-09-30", true)
	if v.HasIssues() || start.Day() != 1 || end.Hour() != 23 {
		t.Fatalf("unexpected period %v..%v issues=%v", start, end, v.Issues())
	}

	v = NewValidator()
	v.Period("startDate", "2026-09-30", "endDate", "2026-09-01", false)
	if len(v.Issues()) != 2 {
		t.Fatalf("expected both fields flagged, got %+v", v.Issues())
	}

	v = NewValidator()
	v.Period("periodStart", "", "periodEnd", "", true)
	if issues := v.Issues(); len(issues) != 2 || issues[0].Reason != "is required" {
		t.Fatalf("expected required issues, got %+v", issues)
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest("GET", "/reports/jobs?limit=500&offset=20", nil)
	p := ParsePagination(req, 20, 100)
	if p.Limit != 100 || p.Offset != 20 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	req = httptest.NewRequest("GET", "/reports/jobs?limit=-3&offset=x", nil)
	p = ParsePagination(req, 20, 100)
	if p.Limit != 20 || p.Offset != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}
