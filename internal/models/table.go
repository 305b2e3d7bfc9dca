package models

// Table is the generic "fields + rows" shape handed over by ingestion.
// Rows map a field name to its raw cell value (string, number or nil).
type Table struct {
	Fields []string         `json:"fields"`
	Rows   []map[string]any `json:"rows"`
}
