package reports

import "time"

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"

	ReportTypeConsolidated = "nps_consolidated"

	DefaultWindow       = 90 * 24 * time.Hour
	DefaultCacheTTL     = 24 * time.Hour
	DefaultHistoryTTL   = 7 * 24 * time.Hour
	DashboardWindow     = 30 * 24 * time.Hour
	DefaultTrendMonths  = 6
	MaxTrendMonths      = 12
	DefaultHistoryLimit = 50
	TopCommentsLimit    = 10
)

// Performance tiers used by the correlation analysis, on the 0-100 scale.
const (
	HighPerformerMin   = 80
	MediumPerformerMin = 50
	InsightThreshold   = 20
)

const (
	InsightHighPerformersHappier = "High performers give markedly higher NPS scores, indicating satisfaction with the evaluation process."
	InsightLowPerformersHappier  = "Low performers give higher NPS scores, which may indicate misaligned expectations."
	InsightNoCorrelation         = "No significant correlation between performance and satisfaction with the evaluation process."
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatJSON: "application/json",
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func SupportedFormat(format string) bool {
	_, ok := contentTypes[format]
	return ok
}
