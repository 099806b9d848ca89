package integrity

type Dimension struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

var Dimensions = []Dimension{
	{Code: "IP", DisplayName: "Personal integrity"},
	{Code: "ID", DisplayName: "Decisional integrity"},
	{Code: "IC", DisplayName: "Behavioral integrity"},
	{Code: "ES", DisplayName: "Stability"},
	{Code: "FL", DisplayName: "Flexibility"},
	{Code: "AU", DisplayName: "Autonomy"},
}

const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)
