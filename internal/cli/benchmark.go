package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"hrinsight/internal/domain/benchmark"
	"hrinsight/internal/platform/jobs"
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Calculate and store a performance benchmark snapshot",
	Long: `Calculate percentile, average and classification figures for the
employees in scope over a period and store the snapshot. The run is
recorded in the job ledger like a scheduled recalculation.

Scopes:
  organization   every active employee (no --scope-id)
  department     employees of department --scope-id
  position       employees holding position --scope-id
  team           the full reporting tree under manager --scope-id`,
	RunE: runBenchmark,
}

var (
	benchmarkPeriod  periodFlags
	benchmarkScope   string
	benchmarkScopeID int64
)

func init() {
	benchmarkPeriod.register(benchmarkCmd)
	benchmarkCmd.Flags().StringVar(&benchmarkScope, "scope", benchmark.ScopeOrganization, "Benchmark scope")
	benchmarkCmd.Flags().Int64Var(&benchmarkScopeID, "scope-id", 0, "Department, position or manager id")
	_ = benchmarkCmd.MarkFlagRequired("start")
	_ = benchmarkCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(benchmarkCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	start, end, err := benchmarkPeriod.parse()
	if err != nil {
		return err
	}
	req := benchmark.CalculateRequest{
		Scope:       strings.ToLower(strings.TrimSpace(benchmarkScope)),
		ScopeID:     optionalID(benchmarkScopeID),
		PeriodStart: start,
		PeriodEnd:   end,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	app, ctx, cancel, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer app.Close()

	snapshot, err := app.Jobs.RunNow(ctx, jobs.JobBenchmarkRecalc, func(ctx context.Context) (any, error) {
		return app.Benchmarks.Calculate(ctx, req)
	})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), snapshot)
}
