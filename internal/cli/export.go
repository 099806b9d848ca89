package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hrinsight/internal/domain/reports"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the consolidated report to a file",
	Long: `Render the consolidated report as csv, json, pdf or xlsx. The file is
written to --output, or to the generated export name in the current
directory. Use "-o -" to write to stdout.`,
	RunE: runExport,
}

var (
	exportPeriod     periodFlags
	exportDepartment int64
	exportFormat     string
	exportOutput     string
	exportUser       int64
)

func init() {
	exportPeriod.register(exportCmd)
	exportCmd.Flags().Int64Var(&exportDepartment, "department", 0, "Restrict the report to one department id")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", reports.FormatCSV, "Export format: csv | json | pdf | xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().Int64Var(&exportUser, "user", 0, "Record the export in this user's history")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(strings.TrimSpace(exportFormat))
	if !reports.SupportedFormat(format) {
		return fmt.Errorf("unsupported format %q (want csv, json, pdf or xlsx)", exportFormat)
	}
	start, end, err := exportPeriod.parse()
	if err != nil {
		return err
	}
	app, ctx, cancel, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer app.Close()

	result, err := app.Reports.Export(ctx, reports.ExportRequest{
		Request: reports.Request{Start: start, End: end, DepartmentID: optionalID(exportDepartment)},
		Format:  format,
		UserID:  optionalID(exportUser),
	})
	if err != nil {
		return err
	}

	if exportOutput == "-" {
		_, err = cmd.OutOrStdout().Write(result.Content)
		return err
	}
	path := exportOutput
	if path == "" {
		path = result.FileName
	}
	if err := os.WriteFile(path, result.Content, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", path, result.Size)
	return nil
}
