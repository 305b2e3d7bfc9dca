// Package overrides layers persisted user edits over the base preferences and
// converts between the in-memory map and the stored override document.
package overrides

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/meur/whichgame/internal/models"
)

// Key is the fixed document key the override blob is stored under.
const Key = "whichGameOverridesV1"

// Apply merges doc into prefs in place. Overrides only add or overwrite;
// they never remove a game or a score.
func Apply(prefs models.Preferences, doc models.OverrideDoc) {
	for _, o := range doc.Entries {
		if o.GameKey == "" {
			continue
		}
		target := prefs[o.GameKey]
		if target == nil {
			name := o.Name
			if name == "" {
				name = o.GameKey
			}
			target = &models.PreferenceEntry{Name: name, Scores: map[string]float64{}}
			prefs[o.GameKey] = target
		}
		if o.Name != "" {
			target.Name = o.Name
		}
		for player, score := range o.Scores {
			if math.IsNaN(score) || math.IsInf(score, 0) {
				continue
			}
			if target.Scores == nil {
				target.Scores = map[string]float64{}
			}
			target.Scores[player] = score
		}
	}
}

// Decode reads a stored document leniently. A missing or malformed document,
// or malformed entries inside it, are treated as no overrides.
func Decode(data []byte) models.OverrideDoc {
	var doc models.OverrideDoc
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return doc
	}
	entries := gjson.GetBytes(data, "entries")
	if !entries.IsArray() {
		return doc
	}
	entries.ForEach(func(_, e gjson.Result) bool {
		if !e.IsObject() {
			return true
		}
		key := e.Get("gameKey")
		if key.Type != gjson.String || key.Str == "" {
			return true
		}
		o := models.Override{GameKey: key.Str}
		if name := e.Get("name"); name.Type == gjson.String {
			o.Name = name.Str
		}
		if scores := e.Get("scores"); scores.IsObject() {
			o.Scores = map[string]float64{}
			scores.ForEach(func(player, v gjson.Result) bool {
				if n, ok := finite(v); ok {
					o.Scores[player.String()] = n
				}
				return true
			})
		}
		doc.Entries = append(doc.Entries, o)
		return true
	})
	return doc
}

func finite(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Encode serializes a document for storage.
func Encode(doc models.OverrideDoc) ([]byte, error) {
	if doc.Entries == nil {
		doc.Entries = []models.Override{}
	}
	return json.Marshal(doc)
}

// Snapshot captures the working preferences as a whole-document override:
// one entry per game carrying every roster player's stored score.
func Snapshot(prefs models.Preferences, roster []string) models.OverrideDoc {
	doc := models.OverrideDoc{Entries: make([]models.Override, 0, len(prefs))}
	for _, key := range prefs.Keys() {
		entry := prefs[key]
		scores := map[string]float64{}
		for _, player := range roster {
			if s, ok := entry.Score(player); ok {
				scores[player] = s
			}
		}
		doc.Entries = append(doc.Entries, models.Override{GameKey: key, Name: entry.Name, Scores: scores})
	}
	return doc
}
