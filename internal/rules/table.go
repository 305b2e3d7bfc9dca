package rules

import (
	"fmt"
	"math"
	"strconv"

	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/normalize"
)

type ruleColumns struct {
	game, min, max, idealMin, idealMax, onlineCap, notes string
}

func findRuleColumns(fields []string) ruleColumns {
	var c ruleColumns
	c.game, _ = normalize.FindField(fields, normalize.GameFields)
	c.min, _ = normalize.FindField(fields, normalize.MinFields)
	c.max, _ = normalize.FindField(fields, normalize.MaxFields)
	c.idealMin, _ = normalize.FindField(fields, normalize.IdealMinFields)
	c.idealMax, _ = normalize.FindField(fields, normalize.IdealMaxFields)
	c.onlineCap, _ = normalize.FindField(fields, normalize.OnlineCapFields)
	c.notes, _ = normalize.FindField(fields, normalize.NotesFields)
	return c
}

// ParseTable reads a structured rules table. Only min/max/ideal/online cap and
// notes are taken from it; discrete allowed counts come from prose only.
func ParseTable(table models.Table) (*Result, error) {
	if len(table.Fields) == 0 {
		return nil, ErrMissingHeader
	}
	cols := findRuleColumns(table.Fields)
	if cols.game == "" {
		return nil, ErrMissingGameColumn
	}

	res := &Result{Rules: models.Rules{}}
	for _, row := range table.Rows {
		game := normalize.Clean(row[cols.game])
		if game == "" {
			continue
		}

		rule := models.NewRuleEntry(game)
		if n, ok := countCell(row, cols.min, math.Ceil); ok {
			rule.MinPlayers = n
		}
		if n, ok := countCell(row, cols.max, math.Floor); ok {
			rule.MaxPlayers = intPtr(n)
		}
		if n, ok := countCell(row, cols.idealMin, math.Ceil); ok {
			rule.IdealMin = intPtr(n)
		}
		if n, ok := countCell(row, cols.idealMax, math.Floor); ok {
			rule.IdealMax = intPtr(n)
		}
		if n, ok := countCell(row, cols.onlineCap, math.Floor); ok {
			rule.OnlineCap = intPtr(n)
		}
		rule.Notes = normalize.Clean(cell(row, cols.notes))

		if rule.MaxPlayers != nil && rule.MinPlayers > *rule.MaxPlayers {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("Rule issue for %s: min_players is greater than max_players.", game))
		}

		res.Rules[normalize.Name(game)] = rule
	}
	return res, nil
}

// countCell reads a whole player count, rounding fractions with round.
// Counts beyond maxCount in either direction are treated as blank.
func countCell(row map[string]any, field string, round func(float64) float64) (int, bool) {
	v, ok := parseNumber(cell(row, field))
	if !ok {
		return 0, false
	}
	v = round(v)
	if v > maxCount || v < -maxCount {
		return 0, false
	}
	return int(v), true
}

func cell(row map[string]any, field string) any {
	if field == "" {
		return nil
	}
	return row[field]
}

// parseNumber returns false for blank or non-numeric input so the caller keeps
// its default. No warning is produced in either case.
func parseNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	}
	s := normalize.Clean(v)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
