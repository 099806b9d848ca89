package cli

import (
	"github.com/spf13/cobra"

	"hrinsight/internal/domain/reports"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the consolidated report as JSON",
	Long: `Compose the consolidated NPS, performance and integrity report for a
period. Without --start/--end the trailing default window ending today is
used. Cached reports are returned unless --refresh is set.`,
	RunE: runGenerate,
}

var (
	generatePeriod     periodFlags
	generateDepartment int64
	generateRefresh    bool
)

func init() {
	generatePeriod.register(generateCmd)
	generateCmd.Flags().Int64Var(&generateDepartment, "department", 0, "Restrict the report to one department id")
	generateCmd.Flags().BoolVar(&generateRefresh, "refresh", false, "Bypass the report cache")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start, end, err := generatePeriod.parse()
	if err != nil {
		return err
	}
	app, ctx, cancel, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer app.Close()

	report, err := app.Reports.Generate(ctx, reports.Request{
		Start:        start,
		End:          end,
		DepartmentID: optionalID(generateDepartment),
		Refresh:      generateRefresh,
	})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), report)
}
