package rules

import (
	"errors"
	"testing"

	"github.com/meur/whichgame/internal/models"
)

func TestParseTable(t *testing.T) {
	table := models.Table{
		Fields: []string{"Title", "Min Players", "MAX", "ideal_min", "Best_Max", "online cap", "Notes"},
		Rows: []map[string]any{
			{"Title": "Catan", "Min Players": "3", "MAX": "4", "ideal_min": "4", "Best_Max": "4", "Notes": " classic "},
			{"Title": "Valorant", "Min Players": "", "MAX": "ten", "online cap": float64(5)},
			{"Title": "Broken", "Min Players": "6", "MAX": "2"},
			{"Title": "  "},
		},
	}

	res, err := ParseTable(table)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if len(res.Rules) != 3 {
		t.Fatalf("len(Rules) = %d, want 3", len(res.Rules))
	}

	catan := res.Rules["catan"]
	if catan.MinPlayers != 3 || *catan.MaxPlayers != 4 || *catan.IdealMin != 4 || *catan.IdealMax != 4 {
		t.Errorf("catan = %+v", catan)
	}
	if catan.OnlineCap != nil {
		t.Errorf("OnlineCap = %d, want absent", *catan.OnlineCap)
	}
	if catan.Notes != "classic" {
		t.Errorf("Notes = %q", catan.Notes)
	}
	if len(catan.AllowedCounts) != 0 || len(catan.DisallowedCounts) != 0 || catan.RangeAllowed {
		t.Error("table rules must not derive discrete counts")
	}

	valorant := res.Rules["valorant"]
	if valorant.MinPlayers != 1 {
		t.Errorf("blank min should default to 1, got %d", valorant.MinPlayers)
	}
	if valorant.MaxPlayers != nil {
		t.Errorf("non-numeric max should default to unbounded, got %d", *valorant.MaxPlayers)
	}
	if valorant.OnlineCap == nil || *valorant.OnlineCap != 5 {
		t.Errorf("OnlineCap = %v, want 5", valorant.OnlineCap)
	}

	broken := res.Rules["broken"]
	if broken.MinPlayers != 6 || *broken.MaxPlayers != 2 {
		t.Errorf("inverted range should be stored as-is, got %+v", broken)
	}

	want := "Rule issue for Broken: min_players is greater than max_players."
	if len(res.Warnings) != 1 || res.Warnings[0] != want {
		t.Errorf("Warnings = %v, want [%q]", res.Warnings, want)
	}
}

func TestParseTableFractionalBounds(t *testing.T) {
	table := models.Table{
		Fields: []string{"game", "min", "max"},
		Rows:   []map[string]any{{"game": "Odd", "min": "2.5", "max": "4.5"}},
	}
	res, err := ParseTable(table)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	odd := res.Rules["odd"]
	if odd.MinPlayers != 3 || *odd.MaxPlayers != 4 {
		t.Errorf("bounds = %d-%d, want 3-4", odd.MinPlayers, *odd.MaxPlayers)
	}
}

func TestParseTableErrors(t *testing.T) {
	if _, err := ParseTable(models.Table{}); !errors.Is(err, ErrMissingHeader) {
		t.Errorf("error = %v, want ErrMissingHeader", err)
	}
	if _, err := ParseTable(models.Table{Fields: []string{"min", "max"}}); !errors.Is(err, ErrMissingGameColumn) {
		t.Errorf("error = %v, want ErrMissingGameColumn", err)
	}
}

func TestParseTableOutOfRangeCounts(t *testing.T) {
	table := models.Table{
		Fields: []string{"Game", "Min", "Max", "Online Cap"},
		Rows: []map[string]any{
			{"Game": "Huge", "Min": "1e300", "Max": float64(-1e300), "Online Cap": "2.5"},
		},
	}

	res, err := ParseTable(table)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	huge := res.Rules["huge"]
	if huge.MinPlayers != 1 || huge.MaxPlayers != nil {
		t.Errorf("out of range counts should be treated as blank, got %+v", huge)
	}
	if huge.OnlineCap == nil || *huge.OnlineCap != 2 {
		t.Errorf("OnlineCap = %v, want 2", huge.OnlineCap)
	}
}
