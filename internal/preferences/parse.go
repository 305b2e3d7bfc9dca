// Package preferences turns a preference table into per-game, per-player scores.
//
// Three table shapes are accepted, tried in this order:
//
//   - long: one row per (game, player, score)
//   - paired: adjacent "<Player>" / "<Player> score" column pairs
//   - wide: a game column plus one column per player
package preferences

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/normalize"
)

var (
	ErrMissingHeader        = errors.New("no header row found for preferences")
	ErrMissingGameColumn    = errors.New("preferences must include a game column")
	ErrMissingPlayerColumns = errors.New("no player columns found in preferences")
)

const (
	MinScore = 0
	MaxScore = 3
)

// Result is a successful parse. Warnings are non-fatal and kept in order.
type Result struct {
	Preferences models.Preferences `json:"preferences"`
	Players     []string           `json:"players"`
	Warnings    []string           `json:"warnings"`
}

type builder struct {
	prefs    models.Preferences
	players  map[string]struct{}
	warnings []string
}

func newBuilder() *builder {
	return &builder{
		prefs:   models.Preferences{},
		players: map[string]struct{}{},
	}
}

func (b *builder) result() *Result {
	players := make([]string, 0, len(b.players))
	for p := range b.players {
		players = append(players, p)
	}
	sort.Strings(players)
	return &Result{Preferences: b.prefs, Players: players, Warnings: b.warnings}
}

// add records a score under the game's key. The entry is created even when
// the score is absent so the game still shows up as a candidate.
func (b *builder) add(gameName, player string, score float64, ok bool) {
	key := normalize.Name(gameName)
	if key == "" {
		return
	}
	entry := b.prefs[key]
	if entry == nil {
		entry = &models.PreferenceEntry{Scores: map[string]float64{}}
		b.prefs[key] = entry
	}
	if name := normalize.Clean(gameName); name != "" {
		entry.Name = name
	}
	if ok {
		entry.Scores[player] = score
	}
}

// Parse converts a preference table into a preferences map.
func Parse(table models.Table) (*Result, error) {
	if len(table.Fields) == 0 {
		return nil, ErrMissingHeader
	}

	gameField, hasGame := normalize.FindField(table.Fields, normalize.GameFields)
	playerField, hasPlayer := normalize.FindField(table.Fields, normalize.PlayerFields)
	scoreField, hasScore := normalize.FindField(table.Fields, normalize.ScoreFields)

	if hasGame && hasPlayer && hasScore {
		return parseLong(table, gameField, playerField, scoreField), nil
	}

	if res := parsePaired(table); res != nil {
		return res, nil
	}

	if !hasGame {
		return nil, ErrMissingGameColumn
	}
	return parseWide(table, gameField)
}

func parseLong(table models.Table, gameField, playerField, scoreField string) *Result {
	b := newBuilder()
	for _, row := range table.Rows {
		game := normalize.Clean(row[gameField])
		player := normalize.Clean(row[playerField])
		if game == "" || player == "" {
			continue
		}
		score, ok := ParseScore(row[scoreField], game, player, &b.warnings)
		b.add(game, player, score, ok)
		b.players[player] = struct{}{}
	}
	return b.result()
}

type columnPair struct {
	player     string
	gameField  string
	scoreField string
}

func parsePaired(table models.Table) *Result {
	var pairs []columnPair
	fields := table.Fields
	for i := 0; i < len(fields)-1; i++ {
		player := normalize.Clean(fields[i])
		scoreHeader := normalize.Clean(fields[i+1])
		if player == "" || scoreHeader == "" {
			continue
		}
		if !strings.Contains(normalize.Header(scoreHeader), "score") || normalize.Header(player) == "game" {
			continue
		}
		pairs = append(pairs, columnPair{player: player, gameField: fields[i], scoreField: fields[i+1]})
		i++
	}
	if len(pairs) == 0 {
		return nil
	}

	b := newBuilder()
	for _, p := range pairs {
		b.players[p.player] = struct{}{}
	}

	for i, row := range table.Rows {
		game := ""
		flagged := false
		for _, p := range pairs {
			candidate := normalize.Clean(row[p.gameField])
			if candidate == "" {
				continue
			}
			if game == "" {
				game = candidate
				continue
			}
			// TODO: add a strict mode that rejects the row instead of keeping the first name.
			if !flagged && normalize.Name(candidate) != normalize.Name(game) {
				b.warnings = append(b.warnings,
					fmt.Sprintf("Row %d has mismatched game names across player columns.", i+2))
				flagged = true
			}
		}
		if game == "" {
			continue
		}
		for _, p := range pairs {
			score, ok := ParseScore(row[p.scoreField], game, p.player, &b.warnings)
			b.add(game, p.player, score, ok)
		}
	}
	return b.result()
}

func parseWide(table models.Table, gameField string) (*Result, error) {
	var playerFields []string
	for _, f := range table.Fields {
		if f != gameField {
			playerFields = append(playerFields, f)
		}
	}
	if len(playerFields) == 0 {
		return nil, ErrMissingPlayerColumns
	}

	b := newBuilder()
	for _, f := range playerFields {
		if p := normalize.Clean(f); p != "" {
			b.players[p] = struct{}{}
		}
	}
	for _, row := range table.Rows {
		game := normalize.Clean(row[gameField])
		if game == "" {
			continue
		}
		for _, f := range playerFields {
			player := normalize.Clean(f)
			if player == "" {
				continue
			}
			score, ok := ParseScore(row[f], game, player, &b.warnings)
			b.add(game, player, score, ok)
		}
	}
	return b.result(), nil
}

// ParseScore parses a raw score cell. Blank cells are absent without a
// warning; non-numeric or out-of-range values are absent with one warning.
func ParseScore(v any, game, player string, warnings *[]string) (float64, bool) {
	num, present, numeric := toNumber(v)
	if !present {
		return 0, false
	}
	if !numeric {
		*warnings = append(*warnings, fmt.Sprintf("Score for %s on %s is not a number.", player, game))
		return 0, false
	}
	if num < MinScore || num > MaxScore {
		*warnings = append(*warnings, fmt.Sprintf("Score for %s on %s is outside %d-%d.", player, game, MinScore, MaxScore))
		return 0, false
	}
	return num, true
}

// toNumber reports whether a cell holds anything and whether it is a finite number.
func toNumber(v any) (num float64, present, numeric bool) {
	switch t := v.(type) {
	case nil:
		return 0, false, false
	case float64:
		return t, true, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true, true
	case int64:
		return float64(t), true, true
	}
	s := normalize.Clean(v)
	if s == "" {
		return 0, false, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, false
	}
	return f, true, true
}

