// Package tabular turns raw uploaded files into the generic fields+rows table
// the parsers consume.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/meur/whichgame/internal/models"
)

var ErrUnknownFormat = errors.New("unknown source format")

// ReadCSV reads a header row followed by records. Short rows are padded with
// blanks and extra cells beyond the header are dropped.
func ReadCSV(r io.Reader) (models.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return models.Table{}, nil
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := models.Table{Fields: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Table{}, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+2, err)
		}
		if isBlank(record) {
			continue
		}
		row := make(map[string]any, len(header))
		for i, field := range header {
			if i < len(record) {
				row[field] = record[i]
			} else {
				row[field] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadJSON decodes the {"fields": [...], "rows": [...]} shape. When fields is
// omitted it is taken from the keys of the first row, sorted.
func ReadJSON(data []byte) (models.Table, error) {
	var table models.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return models.Table{}, fmt.Errorf("failed to decode table: %w", err)
	}
	if len(table.Fields) == 0 && len(table.Rows) > 0 {
		for k := range table.Rows[0] {
			table.Fields = append(table.Fields, k)
		}
		sort.Strings(table.Fields)
	}
	return table, nil
}

// Decode reads a table in the given format.
func Decode(format string, body []byte) (models.Table, error) {
	switch format {
	case models.FormatCSV:
		return ReadCSV(bytes.NewReader(body))
	case models.FormatJSON:
		return ReadJSON(body)
	default:
		return models.Table{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FormatFromPath guesses a source format from a file name.
func FormatFromPath(path string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		return models.FormatCSV
	case strings.HasSuffix(strings.ToLower(path), ".json"):
		return models.FormatJSON
	default:
		return models.FormatText
	}
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

