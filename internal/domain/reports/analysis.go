package reports

import (
	"sort"

	"hrinsight/internal/domain/readers"
	"hrinsight/internal/domain/stats"
)

func Summarize(period readers.Period, processes []readers.AssessmentProcess, responses []readers.NPSResponse, evaluations []readers.Evaluation) ReportSummary {
	completed := countCompletedProcesses(processes)
	return ReportSummary{
		TotalProcesses:      len(processes),
		CompletedProcesses:  completed,
		CompletionRate:      stats.Percent(completed, len(processes)),
		AvgNPSScore:         stats.MeanOrZero(npsScores(responses), 1),
		AvgPerformanceScore: stats.MeanOrZero(overallScores(evaluations), 1),
		PeriodStart:         period.Start,
		PeriodEnd:           period.End,
	}
}

// AnalyzeNPS expects responses newest first; the top comments keep that order.
func AnalyzeNPS(responses []readers.NPSResponse) NPSAnalysis {
	out := NPSAnalysis{TotalResponses: len(responses), TopComments: []Comment{}}
	categories := npsCategories(responses)
	counts := stats.Distribution(categories)
	out.Promoters = counts[stats.NPSPromoter]
	out.Passives = counts[stats.NPSPassive]
	out.Detractors = counts[stats.NPSDetractor]

	var responseSeconds int
	for i, r := range responses {
		category := categories[i]
		if r.ResponseTimeSeconds != nil {
			responseSeconds += *r.ResponseTimeSeconds
		}
		if r.FollowUpComment != nil && *r.FollowUpComment != "" && len(out.TopComments) < TopCommentsLimit {
			out.TopComments = append(out.TopComments, Comment{Category: category, Comment: *r.FollowUpComment, Score: r.Score})
		}
	}
	out.PromoterPercent = stats.Percent(out.Promoters, out.TotalResponses)
	out.PassivePercent = stats.Percent(out.Passives, out.TotalResponses)
	out.DetractorPercent = stats.Percent(out.Detractors, out.TotalResponses)
	out.NPSScore = out.PromoterPercent - out.DetractorPercent
	if out.TotalResponses > 0 {
		out.AvgResponseTime = stats.RoundInt(float64(responseSeconds) / float64(out.TotalResponses))
	}
	return out
}

// Correlate pairs each employee's mean performance score with that employee's
// mean NPS score. Tiers come from the mean performance score and each tier
// reports the net promoter score of its members' responses.
func Correlate(evaluations []readers.Evaluation, responses []readers.NPSResponse) PerformanceCorrelation {
	performance := make(map[int64][]float64)
	for _, e := range evaluations {
		performance[e.EmployeeID] = append(performance[e.EmployeeID], readers.Float(e.OverallScore))
	}
	npsByEmployee := make(map[int64][]float64)
	categoriesByEmployee := make(map[int64][]string)
	for _, r := range responses {
		npsByEmployee[r.EmployeeID] = append(npsByEmployee[r.EmployeeID], float64(r.Score))
		categoriesByEmployee[r.EmployeeID] = append(categoriesByEmployee[r.EmployeeID], r.ResolvedCategory())
	}

	employees := make([]int64, 0, len(performance))
	for id := range performance {
		employees = append(employees, id)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i] < employees[j] })

	var high, medium, low []string
	var x, y []float64
	for _, id := range employees {
		mean, _ := stats.Mean(performance[id])
		switch {
		case mean >= HighPerformerMin:
			high = append(high, categoriesByEmployee[id]...)
		case mean >= MediumPerformerMin:
			medium = append(medium, categoriesByEmployee[id]...)
		default:
			low = append(low, categoriesByEmployee[id]...)
		}
		if nps, ok := stats.Mean(npsByEmployee[id]); ok {
			x = append(x, mean)
			y = append(y, nps)
		}
	}

	out := PerformanceCorrelation{
		HighPerformersNPS:      stats.GroupNPS(high),
		MediumPerformersNPS:    stats.GroupNPS(medium),
		LowPerformersNPS:       stats.GroupNPS(low),
		CorrelationCoefficient: stats.Pearson(x, y),
		PairedEmployees:        len(x),
	}
	out.Insight = Insight(out.HighPerformersNPS, out.LowPerformersNPS)
	return out
}

func Insight(highNPS, lowNPS int) string {
	switch {
	case highNPS > lowNPS+InsightThreshold:
		return InsightHighPerformersHappier
	case lowNPS > highNPS+InsightThreshold:
		return InsightLowPerformersHappier
	default:
		return InsightNoCorrelation
	}
}

func Breakdown(dept readers.Department, processes []readers.AssessmentProcess, responses []readers.NPSResponse, evaluations []readers.Evaluation, assessments []readers.IntegrityAssessment) DepartmentBreakdown {
	completed := countCompletedProcesses(processes)
	return DepartmentBreakdown{
		DepartmentID:        dept.ID,
		DepartmentName:      dept.Name,
		ProcessCount:        len(processes),
		CompletionRate:      stats.Percent(completed, len(processes)),
		AvgNPSScore:         stats.MeanOrZero(npsScores(responses), 1),
		AvgPerformanceScore: stats.MeanOrZero(overallScores(evaluations), 0),
		AvgIntegrityScore:   stats.MeanOrZero(completedIntegrityScores(assessments), 0),
	}
}

// SortBreakdown orders departments by process count, busiest first.
func SortBreakdown(rows []DepartmentBreakdown) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ProcessCount > rows[j].ProcessCount
	})
}

func countCompletedProcesses(processes []readers.AssessmentProcess) int {
	n := 0
	for _, p := range processes {
		if p.Status == readers.ProcessStatusCompleted {
			n++
		}
	}
	return n
}

func npsScores(responses []readers.NPSResponse) []float64 {
	out := make([]float64, 0, len(responses))
	for _, r := range responses {
		out = append(out, float64(r.Score))
	}
	return out
}

func npsCategories(responses []readers.NPSResponse) []string {
	out := make([]string, 0, len(responses))
	for _, r := range responses {
		out = append(out, r.ResolvedCategory())
	}
	return out
}

// overallScores counts a missing score as 0.
func overallScores(evaluations []readers.Evaluation) []float64 {
	out := make([]float64, 0, len(evaluations))
	for _, e := range evaluations {
		out = append(out, readers.Float(e.OverallScore))
	}
	return out
}

func completedIntegrityScores(assessments []readers.IntegrityAssessment) []float64 {
	var out []float64
	for _, a := range assessments {
		if a.Completed() {
			out = append(out, readers.Float(a.TotalScore))
		}
	}
	return out
}
