package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hrinsight/internal/domain/benchmark"
	"hrinsight/internal/domain/reports"
	"hrinsight/internal/platform/config"
)

type fakeReports struct {
	requests []reports.Request
	err      error
}

func (f *fakeReports) Generate(_ context.Context, req reports.Request) (*reports.ConsolidatedReport, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &reports.ConsolidatedReport{NPSAnalysis: reports.NPSAnalysis{TotalResponses: 4}, Recommendations: []string{"a"}}, nil
}

func (f *fakeReports) PurgeExpired(context.Context) (int64, int64, error) {
	return 3, 1, f.err
}

type fakeBenchmarks struct {
	req benchmark.CalculateRequest
}

func (f *fakeBenchmarks) Calculate(_ context.Context, req benchmark.CalculateRequest) (benchmark.Snapshot, error) {
	f.req = req
	return benchmark.Snapshot{ID: 9, TotalEmployees: 12, EvaluatedEmployees: 10}, nil
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []string
}

func (f *fakeRecorder) JobFinished(jobType, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, jobType+":"+status)
}

func TestWarmReportRefreshesCache(t *testing.T) {
	rep := &fakeReports{}
	rec := &fakeRecorder{}
	svc := New(nil, config.Config{}, rep, nil, rec)

	details, err := svc.RunNow(context.Background(), JobReportWarm, svc.WarmReport)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.requests) != 1 || !rep.requests[0].Refresh {
		t.Fatalf("expected one refresh request, got %+v", rep.requests)
	}
	if details.(map[string]any)["npsResponses"] != 4 {
		t.Fatalf("unexpected details: %v", details)
	}
	if len(rec.runs) != 1 || rec.runs[0] != JobReportWarm+":"+StatusCompleted {
		t.Fatalf("unexpected recorded runs: %v", rec.runs)
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	rec := &fakeRecorder{}
	svc := New(nil, config.Config{}, &fakeReports{err: errors.New("boom")}, nil, rec)
	details, err := svc.RunNow(context.Background(), JobPurgeExpiredReports, svc.PurgeExpired)
	if err == nil {
		t.Fatal("expected error")
	}
	if details.(map[string]any)["error"] != "boom" {
		t.Fatalf("expected error details, got %v", details)
	}
	if rec.runs[0] != JobPurgeExpiredReports+":"+StatusFailed {
		t.Fatalf("unexpected recorded runs: %v", rec.runs)
	}
}

func TestRecalculateBenchmarksUsesWindow(t *testing.T) {
	bench := &fakeBenchmarks{}
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	svc := New(nil, config.Config{ReportWindow: 30 * 24 * time.Hour}, nil, bench, nil)
	svc.Now = func() time.Time { return now }

	details, err := svc.RecalculateBenchmarks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bench.req.Scope != benchmark.ScopeOrganization || !bench.req.PeriodEnd.Equal(now) || !bench.req.PeriodStart.Equal(now.AddDate(0, 0, -30)) {
		t.Fatalf("unexpected request: %+v", bench.req)
	}
	if details.(map[string]any)["snapshotId"] != int64(9) {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestWorkerDrainsQueue(t *testing.T) {
	svc := New(nil, config.Config{}, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	done := make(chan struct{})
	if !svc.Enqueue("test", func(context.Context) (any, error) {
		close(done)
		return nil, nil
	}) {
		t.Fatal("expected job to be queued")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
}

func TestEnqueueRejectsWhenFull(t *testing.T) {
	svc := New(nil, config.Config{}, nil, nil, nil)
	svc.queue = make(chan job, 1)
	noop := func(context.Context) (any, error) { return nil, nil }
	if !svc.Enqueue("a", noop) {
		t.Fatal("expected first job to be queued")
	}
	if svc.Enqueue("b", noop) {
		t.Fatal("expected full queue to reject")
	}
}
