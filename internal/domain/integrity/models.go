package integrity

type DimensionScore struct {
	Code              string  `json:"code"`
	Dimension         string  `json:"dimension"`
	AvgScore          float64 `json:"avgScore"`
	QuestionsAnswered int     `json:"questionsAnswered"`
	TotalQuestions    int     `json:"totalQuestions"`
	Coverage          float64 `json:"coverage"`
}

type Alert struct {
	Level       string `json:"level"`
	Count       int    `json:"count"`
	Description string `json:"description"`
}

type MissingDataEntry struct {
	Type        string `json:"type"`
	Count       int    `json:"count"`
	Description string `json:"description"`
}

type Report struct {
	TotalAssessments     int                `json:"totalAssessments"`
	CompletedAssessments int                `json:"completedAssessments"`
	PendingAssessments   int                `json:"pendingAssessments"`
	AvgIntegrityScore    float64            `json:"avgIntegrityScore"`
	DimensionScores      []DimensionScore   `json:"dimensionScores"`
	RiskAlerts           []Alert            `json:"riskAlerts"`
	MissingData          []MissingDataEntry `json:"missingData"`
}

func (r Report) HasAlert(level string) bool {
	for _, alert := range r.RiskAlerts {
		if alert.Level == level {
			return true
		}
	}
	return false
}

type CoverageSummary struct {
	TotalAssessments        int `json:"totalAssessments"`
	CompletedAssessments    int `json:"completedAssessments"`
	PendingAssessments      int `json:"pendingAssessments"`
	TotalQuestions          int `json:"totalQuestions"`
	TotalAnswers            int `json:"totalAnswers"`
	QuestionsWithoutAnswers int `json:"questionsWithoutAnswers"`
}

type DimensionStatus struct {
	Dimension         string `json:"dimension"`
	DisplayName       string `json:"displayName"`
	TotalQuestions    int    `json:"totalQuestions"`
	AnsweredQuestions int    `json:"answeredQuestions"`
	TotalAnswers      int    `json:"totalAnswers"`
	Coverage          int    `json:"coverage"`
}

type Issue struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type CoverageReport struct {
	Summary         CoverageSummary   `json:"summary"`
	DimensionStatus []DimensionStatus `json:"dimensionStatus"`
	Issues          []Issue           `json:"issues"`
	IntegrityScore  int               `json:"integrityScore"`
}
