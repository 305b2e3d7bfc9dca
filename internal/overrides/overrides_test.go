package overrides

import (
	"reflect"
	"testing"

	"github.com/meur/whichgame/internal/models"
)

func basePrefs() models.Preferences {
	return models.Preferences{
		"chess": {Name: "Chess", Scores: map[string]float64{"Alice": 3, "Bob": 1}},
		"go":    {Name: "Go", Scores: map[string]float64{"Alice": 0}},
	}
}

func TestApply(t *testing.T) {
	t.Run("unknown key creates a new entry", func(t *testing.T) {
		prefs := basePrefs()
		Apply(prefs, models.OverrideDoc{Entries: []models.Override{
			{GameKey: "risk", Scores: map[string]float64{"Bob": 2}},
		}})
		risk := prefs["risk"]
		if risk == nil {
			t.Fatal("risk not created")
		}
		if risk.Name != "risk" || risk.Scores["Bob"] != 2 {
			t.Errorf("risk = %+v", risk)
		}
	})

	t.Run("existing score is replaced, others untouched", func(t *testing.T) {
		prefs := basePrefs()
		Apply(prefs, models.OverrideDoc{Entries: []models.Override{
			{GameKey: "chess", Name: "Chess (Blitz)", Scores: map[string]float64{"Bob": 0}},
		}})
		chess := prefs["chess"]
		if chess.Name != "Chess (Blitz)" {
			t.Errorf("Name = %q", chess.Name)
		}
		if chess.Scores["Bob"] != 0 || chess.Scores["Alice"] != 3 {
			t.Errorf("Scores = %v", chess.Scores)
		}
		if prefs["go"].Scores["Alice"] != 0 {
			t.Error("unrelated game changed")
		}
	})

	t.Run("empty key is skipped", func(t *testing.T) {
		prefs := basePrefs()
		Apply(prefs, models.OverrideDoc{Entries: []models.Override{{Name: "Nameless"}}})
		if len(prefs) != 2 {
			t.Errorf("len = %d, want 2", len(prefs))
		}
	})
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"malformed", "{entries: [", 0},
		{"entries not an array", `{"entries": {"gameKey": "chess"}}`, 0},
		{"skips bad entries", `{"entries": [null, 3, {"name": "x"}, {"gameKey": ""}, {"gameKey": "chess"}]}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Decode([]byte(tt.in))
			if len(doc.Entries) != tt.want {
				t.Errorf("len(Entries) = %d, want %d", len(doc.Entries), tt.want)
			}
		})
	}

	t.Run("score values", func(t *testing.T) {
		doc := Decode([]byte(`{"entries": [{"gameKey": "chess", "name": "Chess",
			"scores": {"Alice": 2, "Bob": "3", "Carol": "lots", "Dan": null, "Eve": true}}]}`))
		if len(doc.Entries) != 1 {
			t.Fatalf("Entries = %+v", doc.Entries)
		}
		want := map[string]float64{"Alice": 2, "Bob": 3}
		if !reflect.DeepEqual(doc.Entries[0].Scores, want) {
			t.Errorf("Scores = %v, want %v", doc.Entries[0].Scores, want)
		}
		if doc.Entries[0].Name != "Chess" {
			t.Errorf("Name = %q", doc.Entries[0].Name)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	base := basePrefs()
	roster := []string{"Alice", "Bob"}

	working := base.Clone()
	Apply(working, models.OverrideDoc{Entries: []models.Override{
		{GameKey: "chess", Scores: map[string]float64{"Bob": 2}},
		{GameKey: "risk", Name: "Risk", Scores: map[string]float64{"Alice": 1}},
	}})

	data, err := Encode(Snapshot(working, roster))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	reloaded := base.Clone()
	Apply(reloaded, Decode(data))

	if !reflect.DeepEqual(reloaded, working) {
		t.Errorf("reloaded = %+v\nworking  = %+v", reloaded, working)
	}
	if base["chess"].Scores["Bob"] != 1 {
		t.Error("base preferences were mutated")
	}
}
