package reports

import (
	"fmt"

	"hrinsight/internal/domain/integrity"
)

const (
	RecommendationNegativeNPS      = "NPS is negative. Investigate the main causes of dissatisfaction through detractor comments."
	RecommendationLowNPS           = "NPS is below the market average. Consider improving the evaluation process based on employee feedback."
	RecommendationDetractors       = "High share of detractors. Prioritize improvements to the employee experience during evaluations."
	RecommendationCompletion       = "Process completion rate is below 70%. Consider automatic reminders and simpler process steps."
	RecommendationPendingIntegrity = "More integrity assessments are pending than completed. Reinforce the importance of integrity assessments with managers."
	RecommendationLowIntegrity     = "Average integrity score is low. Consider reviewing the integrity questions or offering ethics training."
	RecommendationHighAlerts       = "There are high-priority integrity risk alerts. Review the identified cases urgently."
	RecommendationMisalignment     = "Low performers are more satisfied with the process than high performers. Review evaluation criteria for alignment."
	RecommendationFallback         = "Indicators are within the expected range. Keep monitoring and improving continuously."
)

// Rule thresholds. Every rule is checked independently and matching messages
// keep this order.
const (
	LowNPSThreshold          = 30
	DetractorPercentLimit    = 30
	CompletionRateMin        = 70
	IntegrityScoreMin        = 50
	RecommendationMissingFmt = "%d kinds of missing integrity data were identified. Check the integrity data."
)

func Recommend(summary ReportSummary, nps NPSAnalysis, correlation PerformanceCorrelation, pir integrity.Report) []string {
	var out []string
	if nps.NPSScore < 0 {
		out = append(out, RecommendationNegativeNPS)
	} else if nps.NPSScore < LowNPSThreshold {
		out = append(out, RecommendationLowNPS)
	}
	if nps.DetractorPercent > DetractorPercentLimit {
		out = append(out, RecommendationDetractors)
	}
	if summary.CompletionRate < CompletionRateMin {
		out = append(out, RecommendationCompletion)
	}
	if pir.PendingAssessments > pir.CompletedAssessments {
		out = append(out, RecommendationPendingIntegrity)
	}
	if pir.AvgIntegrityScore < IntegrityScoreMin {
		out = append(out, RecommendationLowIntegrity)
	}
	if pir.HasAlert(integrity.LevelHigh) {
		out = append(out, RecommendationHighAlerts)
	}
	if len(pir.MissingData) > 0 {
		out = append(out, fmt.Sprintf(RecommendationMissingFmt, len(pir.MissingData)))
	}
	if correlation.LowPerformersNPS > correlation.HighPerformersNPS {
		out = append(out, RecommendationMisalignment)
	}
	if len(out) == 0 {
		out = append(out, RecommendationFallback)
	}
	return out
}
