package stats

const (
	NPSPromoter  = "promoter"
	NPSPassive   = "passive"
	NPSDetractor = "detractor"
)

// NPSCategory buckets a 0-10 score: 9-10 promoter, 7-8 passive, 0-6 detractor.
func NPSCategory(score int) string {
	switch {
	case score >= 9:
		return NPSPromoter
	case score >= 7:
		return NPSPassive
	default:
		return NPSDetractor
	}
}

// NPSContribution maps a category onto the +100/0/-100 scale, so the mean of
// contributions over a group equals that group's net promoter score.
func NPSContribution(category string) float64 {
	switch category {
	case NPSPromoter:
		return 100
	case NPSDetractor:
		return -100
	default:
		return 0
	}
}

// GroupNPS is round((promoters-detractors)/n*100), 0 for an empty group.
func GroupNPS(categories []string) int {
	if len(categories) == 0 {
		return 0
	}
	contributions := make([]float64, 0, len(categories))
	for _, category := range categories {
		contributions = append(contributions, NPSContribution(category))
	}
	mean, _ := Mean(contributions)
	return RoundInt(mean)
}
