package reports

import (
	"time"

	"hrinsight/internal/domain/integrity"
)

// ConsolidatedReport has no identity beyond its period, department filter
// and generation time.
type ConsolidatedReport struct {
	Summary                ReportSummary          `json:"summary"`
	NPSAnalysis            NPSAnalysis            `json:"npsAnalysis"`
	PerformanceCorrelation PerformanceCorrelation `json:"performanceCorrelation"`
	PIRIntegrity           integrity.Report       `json:"pirIntegrity"`
	DepartmentBreakdown    []DepartmentBreakdown  `json:"departmentBreakdown"`
	Recommendations        []string               `json:"recommendations"`
	DepartmentID           *int64                 `json:"departmentId"`
	GeneratedAt            time.Time              `json:"generatedAt"`
}

type ReportSummary struct {
	TotalProcesses      int       `json:"totalProcesses"`
	CompletedProcesses  int       `json:"completedProcesses"`
	CompletionRate      int       `json:"completionRate"`
	AvgNPSScore         float64   `json:"avgNpsScore"`
	AvgPerformanceScore float64   `json:"avgPerformanceScore"`
	PeriodStart         time.Time `json:"periodStart"`
	PeriodEnd           time.Time `json:"periodEnd"`
}

type Comment struct {
	Category string `json:"category"`
	Comment  string `json:"comment"`
	Score    int    `json:"score"`
}

type NPSAnalysis struct {
	TotalResponses   int       `json:"totalResponses"`
	NPSScore         int       `json:"npsScore"`
	Promoters        int       `json:"promoters"`
	Passives         int       `json:"passives"`
	Detractors       int       `json:"detractors"`
	PromoterPercent  int       `json:"promoterPercent"`
	PassivePercent   int       `json:"passivePercent"`
	DetractorPercent int       `json:"detractorPercent"`
	AvgResponseTime  int       `json:"avgResponseTime"`
	TopComments      []Comment `json:"topComments"`
}

type PerformanceCorrelation struct {
	HighPerformersNPS      int     `json:"highPerformersNps"`
	MediumPerformersNPS    int     `json:"mediumPerformersNps"`
	LowPerformersNPS       int     `json:"lowPerformersNps"`
	CorrelationCoefficient float64 `json:"correlationCoefficient"`
	PairedEmployees        int     `json:"pairedEmployees"`
	Insight                string  `json:"insight"`
}

type DepartmentBreakdown struct {
	DepartmentID        int64   `json:"departmentId"`
	DepartmentName      string  `json:"departmentName"`
	ProcessCount        int     `json:"processCount"`
	CompletionRate      int     `json:"completionRate"`
	AvgNPSScore         float64 `json:"avgNpsScore"`
	AvgPerformanceScore float64 `json:"avgPerformanceScore"`
	AvgIntegrityScore   float64 `json:"avgIntegrityScore"`
}

// Request leaves Start and End zero to fall back to the trailing default window.
type Request struct {
	Start        time.Time
	End          time.Time
	DepartmentID *int64
	// Refresh skips the cache lookup; the fresh report is still cached.
	Refresh bool
}

type ExportRequest struct {
	Request
	Format string
	UserID *int64
}

type ExportResult struct {
	FileName    string `json:"fileName"`
	Format      string `json:"format"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
	Size        int    `json:"size"`
	ExportID    *int64 `json:"exportId,omitempty"`
}

type ExportRecord struct {
	ID         int64     `json:"id" db:"id"`
	ReportType string    `json:"reportType" db:"report_type"`
	Format     string    `json:"format" db:"export_format"`
	FileName   string    `json:"fileName" db:"file_name"`
	FileSize   int       `json:"fileSize" db:"file_size"`
	ExportedBy int64     `json:"exportedBy" db:"exported_by"`
	ExportedAt time.Time `json:"exportedAt" db:"exported_at"`
	ExpiresAt  time.Time `json:"expiresAt" db:"expires_at"`
}

type DashboardSummary struct {
	NPSScore               int       `json:"npsScore"`
	NPSResponses           int       `json:"npsResponses"`
	CompletionRate         int       `json:"completionRate"`
	TotalProcesses         int       `json:"totalProcesses"`
	AvgIntegrityScore      float64   `json:"avgIntegrityScore"`
	IntegrityAssessments   int       `json:"integrityAssessments"`
	AvgPerformanceScore    float64   `json:"avgPerformanceScore"`
	PerformanceEvaluations int       `json:"performanceEvaluations"`
	PeriodStart            time.Time `json:"periodStart"`
	PeriodEnd              time.Time `json:"periodEnd"`
}

type TrendPoint struct {
	Month                string    `json:"month"`
	MonthStart           time.Time `json:"monthStart"`
	NPSScore             int       `json:"npsScore"`
	NPSResponses         int       `json:"npsResponses"`
	CompletionRate       int       `json:"completionRate"`
	TotalProcesses       int       `json:"totalProcesses"`
	AvgIntegrityScore    float64   `json:"avgIntegrityScore"`
	IntegrityAssessments int       `json:"integrityAssessments"`
}

// EmployeeMetrics carries nil averages for metrics without samples.
type EmployeeMetrics struct {
	EmployeeID          int64    `json:"employeeId"`
	EmployeeName        string   `json:"employeeName"`
	DepartmentID        *int64   `json:"departmentId"`
	AvgNPSScore         *float64 `json:"avgNpsScore"`
	AvgPerformanceScore *float64 `json:"avgPerformanceScore"`
	AvgIntegrityScore   *float64 `json:"avgIntegrityScore"`
}

type JobRun struct {
	ID          string         `json:"id"`
	JobType     string         `json:"jobType"`
	Status      string         `json:"status"`
	Details     map[string]any `json:"details"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt"`
}
