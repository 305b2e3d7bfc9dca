package models

import "time"

// Source kinds
const (
	SourcePreferences = "preferences"
	SourceRules       = "rules"
)

// Source formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatText = "text"
)

// Source is the raw content a data load was built from.
type Source struct {
	Kind      string    `json:"kind"`
	Revision  string    `json:"revision"`
	Format    string    `json:"format"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}
