package benchmark

const (
	ScopeOrganization = "organization"
	ScopeDepartment   = "department"
	ScopePosition     = "position"
	ScopeTeam         = "team"

	PositionTop10       = "top_10"
	PositionTop25       = "top_25"
	PositionAboveMedian = "above_median"
	PositionBelowMedian = "below_median"
	PositionBottom25    = "bottom_25"

	MetricOverallScore = "overallScore"

	DefaultRankingLimit = 20
	DefaultListLimit    = 20
	MaxLimit            = 200
)
