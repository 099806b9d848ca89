package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Check integrity questionnaire coverage",
	RunE:  runCoverage,
}

var coverageFailBelow int

func init() {
	coverageCmd.Flags().IntVar(&coverageFailBelow, "fail-below", 0, "Exit non-zero when the integrity score is below this value")
	rootCmd.AddCommand(coverageCmd)
}

func runCoverage(cmd *cobra.Command, args []string) error {
	app, ctx, cancel, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer app.Close()

	report, err := app.Integrity.CheckCoverage(ctx)
	if err != nil {
		return err
	}
	if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if report.IntegrityScore < coverageFailBelow {
		return fmt.Errorf("integrity score %d is below %d", report.IntegrityScore, coverageFailBelow)
	}
	return nil
}
