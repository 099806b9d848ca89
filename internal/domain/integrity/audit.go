package integrity

import (
	"fmt"

	"hrinsight/internal/domain/readers"
	"hrinsight/internal/domain/stats"
)

type Thresholds struct {
	// LowScoreFloor is the absolute score below which a completed assessment is at risk.
	LowScoreFloor float64
	// LowScoreMaxFraction of completed assessments may fall below the floor before a high alert.
	LowScoreMaxFraction float64
	// IncompleteMaxFraction of all assessments may be incomplete before a medium alert.
	IncompleteMaxFraction float64
	// MinDimensionCoverage is a percentage.
	MinDimensionCoverage float64
}

var DefaultThresholds = Thresholds{
	LowScoreFloor:         40,
	LowScoreMaxFraction:   0,
	IncompleteMaxFraction: 0.2,
	MinDimensionCoverage:  50,
}

type AuditInput struct {
	Dimensions  []Dimension
	Questions   []readers.IntegrityQuestion
	Answers     []readers.IntegrityAnswer
	Assessments []readers.IntegrityAssessment
}

// Audit cross-references questions against recorded answers for the
// assessments in scope. Empty inputs produce a zero-valued report.
func Audit(in AuditInput, th Thresholds) Report {
	dimensions := in.Dimensions
	if dimensions == nil {
		dimensions = Dimensions
	}

	report := Report{
		TotalAssessments: len(in.Assessments),
		DimensionScores:  make([]DimensionScore, 0, len(dimensions)),
		RiskAlerts:       []Alert{},
		MissingData:      []MissingDataEntry{},
	}

	var completedScores []float64
	for _, assessment := range in.Assessments {
		if assessment.Completed() {
			completedScores = append(completedScores, readers.Float(assessment.TotalScore))
		}
	}
	report.CompletedAssessments = len(completedScores)
	report.PendingAssessments = report.TotalAssessments - report.CompletedAssessments
	report.AvgIntegrityScore = stats.MeanOrZero(completedScores, 0)

	questionDimension := make(map[int64]string, len(in.Questions))
	questionsPerDimension := make(map[string]int)
	for _, q := range in.Questions {
		questionDimension[q.ID] = q.Dimension
		questionsPerDimension[q.Dimension]++
	}

	// Answers are only counted against assessments in scope. An answer can
	// fall inside the period while its assessment was created before it.
	inScope := make(map[int64]struct{}, len(in.Assessments))
	for _, assessment := range in.Assessments {
		inScope[assessment.ID] = struct{}{}
	}

	type answerKey struct{ assessmentID, questionID int64 }
	answeredPairs := make(map[string]map[answerKey]struct{})
	answerScores := make(map[string][]float64)
	answeredQuestions := make(map[int64]struct{})
	for _, answer := range in.Answers {
		if _, ok := inScope[answer.AssessmentID]; !ok {
			continue
		}
		answeredQuestions[answer.QuestionID] = struct{}{}
		dim, ok := questionDimension[answer.QuestionID]
		if !ok {
			continue
		}
		if answeredPairs[dim] == nil {
			answeredPairs[dim] = make(map[answerKey]struct{})
		}
		answeredPairs[dim][answerKey{answer.AssessmentID, answer.QuestionID}] = struct{}{}
		answerScores[dim] = append(answerScores[dim], readers.Float(answer.Score))
	}

	for _, dim := range dimensions {
		total := questionsPerDimension[dim.Code] * report.TotalAssessments
		answered := len(answeredPairs[dim.Code])
		report.DimensionScores = append(report.DimensionScores, DimensionScore{
			Code:              dim.Code,
			Dimension:         dim.DisplayName,
			AvgScore:          stats.MeanOrZero(answerScores[dim.Code], 1),
			QuestionsAnswered: answered,
			TotalQuestions:    total,
			Coverage:          stats.Round(stats.Ratio(answered, total), 1),
		})
	}

	lowScores := 0
	for _, score := range completedScores {
		if score < th.LowScoreFloor {
			lowScores++
		}
	}
	if lowScores > 0 && float64(lowScores) > th.LowScoreMaxFraction*float64(report.CompletedAssessments) {
		report.RiskAlerts = append(report.RiskAlerts, Alert{
			Level:       LevelHigh,
			Count:       lowScores,
			Description: fmt.Sprintf("%d completed assessments scored below %g", lowScores, th.LowScoreFloor),
		})
	}

	incomplete := report.PendingAssessments
	if incomplete > 0 && float64(incomplete) > float64(report.TotalAssessments)*th.IncompleteMaxFraction {
		report.RiskAlerts = append(report.RiskAlerts, Alert{
			Level:       LevelMedium,
			Count:       incomplete,
			Description: fmt.Sprintf("%d incomplete assessments (%d%%)", incomplete, stats.Percent(incomplete, report.TotalAssessments)),
		})
	}

	unanswered := 0
	for _, q := range in.Questions {
		if _, ok := answeredQuestions[q.ID]; !ok {
			unanswered++
		}
	}
	if unanswered > 0 {
		report.MissingData = append(report.MissingData, MissingDataEntry{
			Type:        "Unanswered questions",
			Count:       unanswered,
			Description: fmt.Sprintf("%d integrity questions were never answered in the period", unanswered),
		})
	}

	for _, ds := range report.DimensionScores {
		if ds.TotalQuestions > 0 && stats.Ratio(ds.QuestionsAnswered, ds.TotalQuestions) < th.MinDimensionCoverage {
			report.MissingData = append(report.MissingData, MissingDataEntry{
				Type:        "Dimension " + ds.Dimension,
				Count:       ds.TotalQuestions - ds.QuestionsAnswered,
				Description: fmt.Sprintf("Only %d%% of expected answers recorded", stats.Percent(ds.QuestionsAnswered, ds.TotalQuestions)),
			})
		}
	}

	return report
}
