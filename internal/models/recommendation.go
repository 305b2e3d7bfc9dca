package models

// Recommendation is one ranked, eligible game for the selected players
type Recommendation struct {
	Name         string  `json:"name"`
	TotalScore   float64 `json:"total_score"`
	AverageScore float64 `json:"average_score"`
	Bonus        int     `json:"bonus"`
	IdealRange   string  `json:"ideal_range,omitempty"`
}

// Exclusion explains why a candidate game was dropped
type Exclusion struct {
	Name    string   `json:"name"`
	Reasons []string `json:"reasons"`
}
