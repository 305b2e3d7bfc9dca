package models

// Override is one persisted user edit layered over the base preferences.
type Override struct {
	GameKey string             `json:"gameKey"`
	Name    string             `json:"name,omitempty"`
	Scores  map[string]float64 `json:"scores,omitempty"`
}

// OverrideDoc is the whole persisted override document
type OverrideDoc struct {
	Entries []Override `json:"entries"`
}

// ScoreEdit is a single admin change to one player's score for one game.
type ScoreEdit struct {
	GameKey string  `json:"game_key" validate:"required"`
	Player  string  `json:"player" validate:"required"`
	Score   float64 `json:"score" validate:"min=0,max=3"`
}
