package integrity

import (
	"fmt"

	"hrinsight/internal/domain/stats"
)

type CoverageThresholds struct {
	MinDimensionCoverage int
	LowScoreFloor        float64
	IssuePenalty         int
}

var DefaultCoverageThresholds = CoverageThresholds{
	MinDimensionCoverage: 50,
	LowScoreFloor:        30,
	IssuePenalty:         15,
}

// CheckCoverage inspects the whole question bank rather than a reporting
// period. Every issue found costs IssuePenalty points of the integrity score.
func CheckCoverage(in AuditInput, th CoverageThresholds) CoverageReport {
	dimensions := in.Dimensions
	if dimensions == nil {
		dimensions = Dimensions
	}

	answersPerQuestion := make(map[int64]int)
	for _, answer := range in.Answers {
		answersPerQuestion[answer.QuestionID]++
	}

	report := CoverageReport{
		DimensionStatus: make([]DimensionStatus, 0, len(dimensions)),
		Issues:          []Issue{},
	}
	report.Summary.TotalAssessments = len(in.Assessments)
	report.Summary.TotalQuestions = len(in.Questions)
	report.Summary.TotalAnswers = len(in.Answers)

	lowScores := 0
	for _, assessment := range in.Assessments {
		if !assessment.Completed() {
			continue
		}
		report.Summary.CompletedAssessments++
		if assessment.TotalScore != nil && *assessment.TotalScore < th.LowScoreFloor {
			lowScores++
		}
	}
	report.Summary.PendingAssessments = report.Summary.TotalAssessments - report.Summary.CompletedAssessments

	for _, q := range in.Questions {
		if answersPerQuestion[q.ID] == 0 {
			report.Summary.QuestionsWithoutAnswers++
		}
	}

	for _, dim := range dimensions {
		status := DimensionStatus{Dimension: dim.Code, DisplayName: dim.DisplayName}
		for _, q := range in.Questions {
			if q.Dimension != dim.Code {
				continue
			}
			status.TotalQuestions++
			if n := answersPerQuestion[q.ID]; n > 0 {
				status.AnsweredQuestions++
				status.TotalAnswers += n
			}
		}
		status.Coverage = stats.Percent(status.AnsweredQuestions, status.TotalQuestions)
		report.DimensionStatus = append(report.DimensionStatus, status)
	}

	if n := report.Summary.QuestionsWithoutAnswers; n > 0 {
		report.Issues = append(report.Issues, Issue{
			Severity: LevelMedium,
			Message:  fmt.Sprintf("%d questions have no answers", n),
		})
	}
	for _, status := range report.DimensionStatus {
		if status.TotalQuestions > 0 && status.Coverage < th.MinDimensionCoverage {
			report.Issues = append(report.Issues, Issue{
				Severity: LevelHigh,
				Message:  fmt.Sprintf("Dimension %s has low coverage (%d%%)", status.DisplayName, status.Coverage),
			})
		}
	}
	if report.Summary.PendingAssessments > report.Summary.CompletedAssessments {
		report.Issues = append(report.Issues, Issue{
			Severity: LevelMedium,
			Message: fmt.Sprintf("More pending assessments (%d) than completed (%d)",
				report.Summary.PendingAssessments, report.Summary.CompletedAssessments),
		})
	}
	if lowScores > 0 {
		report.Issues = append(report.Issues, Issue{
			Severity: LevelHigh,
			Message:  fmt.Sprintf("%d completed assessments scored below %g", lowScores, th.LowScoreFloor),
		})
	}

	report.IntegrityScore = max(0, 100-th.IssuePenalty*len(report.Issues))
	return report
}
