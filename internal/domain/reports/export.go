package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Render serializes a report in one of the supported export formats.
func Render(report *ConsolidatedReport, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return RenderCSV(report), nil
	case FormatJSON:
		return RenderJSON(report)
	case FormatPDF:
		return RenderPDF(report)
	case FormatXLSX:
		return RenderXLSX(report)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func ExportFileName(format string, at time.Time) string {
	return "consolidated-report-" + at.UTC().Format("2006-01-02") + "." + format
}

func RenderJSON(report *ConsolidatedReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

type csvWriter struct {
	buf bytes.Buffer
}

func (w *csvWriter) line(fields ...string) {
	w.buf.WriteString(strings.Join(fields, ","))
	w.buf.WriteByte('\n')
}

func (w *csvWriter) section(name string) {
	w.line("=== " + name + " ===")
}

// RenderCSV writes one section per report part. Sections with nothing to
// list are omitted, except the fixed summary sections and recommendations.
func RenderCSV(report *ConsolidatedReport) []byte {
	w := &csvWriter{}
	s := report.Summary
	w.section("SUMMARY")
	w.line("Metric", "Value")
	w.line("Total Processes", itoa(s.TotalProcesses))
	w.line("Completed Processes", itoa(s.CompletedProcesses))
	w.line("Completion Rate", pct(s.CompletionRate))
	w.line("Average NPS Score", num(s.AvgNPSScore))
	w.line("Average Performance Score", num(s.AvgPerformanceScore))
	w.line("Period Start", s.PeriodStart.UTC().Format("2006-01-02"))
	w.line("Period End", s.PeriodEnd.UTC().Format("2006-01-02"))
	w.line()

	n := report.NPSAnalysis
	w.section("NPS ANALYSIS")
	w.line("Metric", "Value")
	w.line("Total Responses", itoa(n.TotalResponses))
	w.line("NPS Score", itoa(n.NPSScore))
	w.line("Promoters", itoa(n.Promoters), pct(n.PromoterPercent))
	w.line("Passives", itoa(n.Passives), pct(n.PassivePercent))
	w.line("Detractors", itoa(n.Detractors), pct(n.DetractorPercent))
	w.line("Average Response Time", itoa(n.AvgResponseTime)+"s")
	w.line()

	c := report.PerformanceCorrelation
	w.section("CORRELATION")
	w.line("Group", "NPS")
	w.line("High Performers", itoa(c.HighPerformersNPS))
	w.line("Medium Performers", itoa(c.MediumPerformersNPS))
	w.line("Low Performers", itoa(c.LowPerformersNPS))
	w.line("Correlation Coefficient", num(c.CorrelationCoefficient))
	w.line("Insight", quote(c.Insight))
	w.line()

	p := report.PIRIntegrity
	w.section("INTEGRITY")
	w.line("Metric", "Value")
	w.line("Total Assessments", itoa(p.TotalAssessments))
	w.line("Completed Assessments", itoa(p.CompletedAssessments))
	w.line("Pending Assessments", itoa(p.PendingAssessments))
	w.line("Average Integrity Score", num(p.AvgIntegrityScore)+"%")
	w.line()

	w.section("DIMENSION SCORES")
	w.line("Dimension", "Average Score", "Questions Answered", "Total Questions", "Coverage")
	for _, d := range p.DimensionScores {
		w.line(quote(d.Dimension), num(d.AvgScore), itoa(d.QuestionsAnswered), itoa(d.TotalQuestions), num(d.Coverage)+"%")
	}
	w.line()

	if len(p.RiskAlerts) > 0 {
		w.section("RISK ALERTS")
		w.line("Level", "Count", "Description")
		for _, a := range p.RiskAlerts {
			w.line(a.Level, itoa(a.Count), quote(a.Description))
		}
		w.line()
	}

	if len(p.MissingData) > 0 {
		w.section("MISSING DATA")
		w.line("Type", "Count", "Description")
		for _, m := range p.MissingData {
			w.line(quote(m.Type), itoa(m.Count), quote(m.Description))
		}
		w.line()
	}

	if len(report.DepartmentBreakdown) > 0 {
		w.section("DEPARTMENT BREAKDOWN")
		w.line("Department", "Processes", "Completion Rate", "Average NPS", "Average Performance", "Average Integrity")
		for _, d := range report.DepartmentBreakdown {
			w.line(quote(d.DepartmentName), itoa(d.ProcessCount), pct(d.CompletionRate), num(d.AvgNPSScore), num(d.AvgPerformanceScore), num(d.AvgIntegrityScore))
		}
		w.line()
	}

	w.section("RECOMMENDATIONS")
	for i, r := range report.Recommendations {
		w.line(itoa(i+1), quote(r))
	}
	return w.buf.Bytes()
}

func RenderPDF(report *ConsolidatedReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Consolidated Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", report.Summary.PeriodStart.UTC().Format("2006-01-02"), report.Summary.PeriodEnd.UTC().Format("2006-01-02")))
	pdf.Ln(10)

	heading := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
	}
	row := func(label, value string) {
		pdf.Cell(70, 6, tr(label))
		pdf.Cell(0, 6, tr(value))
		pdf.Ln(6)
	}

	s := report.Summary
	heading("Summary")
	row("Total processes", itoa(s.TotalProcesses))
	row("Completed processes", itoa(s.CompletedProcesses))
	row("Completion rate", pct(s.CompletionRate))
	row("Average NPS score", num(s.AvgNPSScore))
	row("Average performance score", num(s.AvgPerformanceScore))
	pdf.Ln(4)

	n := report.NPSAnalysis
	heading("NPS Analysis")
	row("Total responses", itoa(n.TotalResponses))
	row("NPS score", itoa(n.NPSScore))
	row("Promoters", fmt.Sprintf("%d (%d%%)", n.Promoters, n.PromoterPercent))
	row("Passives", fmt.Sprintf("%d (%d%%)", n.Passives, n.PassivePercent))
	row("Detractors", fmt.Sprintf("%d (%d%%)", n.Detractors, n.DetractorPercent))
	pdf.Ln(4)

	c := report.PerformanceCorrelation
	heading("Performance Correlation")
	row("High performers NPS", itoa(c.HighPerformersNPS))
	row("Medium performers NPS", itoa(c.MediumPerformersNPS))
	row("Low performers NPS", itoa(c.LowPerformersNPS))
	row("Correlation coefficient", num(c.CorrelationCoefficient))
	pdf.MultiCell(0, 6, tr(c.Insight), "", "L", false)
	pdf.Ln(4)

	p := report.PIRIntegrity
	heading("Integrity")
	row("Assessments (completed/pending)", fmt.Sprintf("%d (%d/%d)", p.TotalAssessments, p.CompletedAssessments, p.PendingAssessments))
	row("Average integrity score", num(p.AvgIntegrityScore))
	for _, d := range p.DimensionScores {
		row(d.Dimension, fmt.Sprintf("avg %s, %d/%d answered", num(d.AvgScore), d.QuestionsAnswered, d.TotalQuestions))
	}
	for _, a := range p.RiskAlerts {
		row("Alert ("+a.Level+")", a.Description)
	}
	for _, m := range p.MissingData {
		row(m.Type, m.Description)
	}
	pdf.Ln(4)

	if len(report.DepartmentBreakdown) > 0 {
		heading("Departments")
		for _, d := range report.DepartmentBreakdown {
			row(d.DepartmentName, fmt.Sprintf("%d processes, %d%% complete, NPS %s", d.ProcessCount, d.CompletionRate, num(d.AvgNPSScore)))
		}
		pdf.Ln(4)
	}

	heading("Recommendations")
	for i, r := range report.Recommendations {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, r)), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type sheetData struct {
	name string
	rows [][]any
}

func RenderXLSX(report *ConsolidatedReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	s, n, c, p := report.Summary, report.NPSAnalysis, report.PerformanceCorrelation, report.PIRIntegrity
	sheets := []sheetData{
		{"Summary", [][]any{
			{"Metric", "Value"},
			{"Total Processes", s.TotalProcesses},
			{"Completed Processes", s.CompletedProcesses},
			{"Completion Rate", s.CompletionRate},
			{"Average NPS Score", s.AvgNPSScore},
			{"Average Performance Score", s.AvgPerformanceScore},
			{"Period Start", s.PeriodStart.UTC().Format("2006-01-02")},
			{"Period End", s.PeriodEnd.UTC().Format("2006-01-02")},
		}},
		{"NPS", [][]any{
			{"Metric", "Value", "Percent"},
			{"Total Responses", n.TotalResponses},
			{"NPS Score", n.NPSScore},
			{"Promoters", n.Promoters, n.PromoterPercent},
			{"Passives", n.Passives, n.PassivePercent},
			{"Detractors", n.Detractors, n.DetractorPercent},
			{"Average Response Time (s)", n.AvgResponseTime},
		}},
		{"Correlation", [][]any{
			{"Group", "NPS"},
			{"High Performers", c.HighPerformersNPS},
			{"Medium Performers", c.MediumPerformersNPS},
			{"Low Performers", c.LowPerformersNPS},
			{"Correlation Coefficient", c.CorrelationCoefficient},
			{"Insight", c.Insight},
		}},
		{"Integrity", [][]any{
			{"Metric", "Value"},
			{"Total Assessments", p.TotalAssessments},
			{"Completed Assessments", p.CompletedAssessments},
			{"Pending Assessments", p.PendingAssessments},
			{"Average Integrity Score", p.AvgIntegrityScore},
		}},
	}

	dimensions := [][]any{{"Dimension", "Average Score", "Questions Answered", "Total Questions", "Coverage"}}
	for _, d := range p.DimensionScores {
		dimensions = append(dimensions, []any{d.Dimension, d.AvgScore, d.QuestionsAnswered, d.TotalQuestions, d.Coverage})
	}
	findings := [][]any{{"Kind", "Level/Type", "Count", "Description"}}
	for _, a := range p.RiskAlerts {
		findings = append(findings, []any{"risk alert", a.Level, a.Count, a.Description})
	}
	for _, m := range p.MissingData {
		findings = append(findings, []any{"missing data", m.Type, m.Count, m.Description})
	}
	departments := [][]any{{"Department", "Processes", "Completion Rate", "Average NPS", "Average Performance", "Average Integrity"}}
	for _, d := range report.DepartmentBreakdown {
		departments = append(departments, []any{d.DepartmentName, d.ProcessCount, d.CompletionRate, d.AvgNPSScore, d.AvgPerformanceScore, d.AvgIntegrityScore})
	}
	recommendations := [][]any{{"#", "Recommendation"}}
	for i, r := range report.Recommendations {
		recommendations = append(recommendations, []any{i + 1, r})
	}
	sheets = append(sheets,
		sheetData{"Dimensions", dimensions},
		sheetData{"Findings", findings},
		sheetData{"Departments", departments},
		sheetData{"Recommendations", recommendations},
	)

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, err
		}
		for i, values := range sheet.rows {
			for j, value := range values {
				cell, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet.name, cell, value); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func itoa(v int) string { return strconv.Itoa(v) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func pct(v int) string { return strconv.Itoa(v) + "%" }

// quote always wraps the value; encoding/csv only quotes when it must.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
