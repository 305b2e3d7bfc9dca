package normalize

import "testing"

func TestName(t *testing.T) {
	want := "dota 2"
	for _, in := range []string{"Dota 2", " dota  2 ", "DOTA 2", "dota\t2\n"} {
		if got := Name(in); got != want {
			t.Errorf("Name(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"padded string", "  Chess ", "Chess"},
		{"integral float", float64(2), "2"},
		{"fractional float", 2.5, "2.5"},
		{"int", 3, "3"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHeaderKeepsInnerSpacing(t *testing.T) {
	if got := Header("  Game  Name "); got != "game  name" {
		t.Errorf("Header() = %q, want %q", got, "game  name")
	}
}

func TestLoose(t *testing.T) {
	if got := Loose("Counter-Strike: GO!"); got != "counterstrikego" {
		t.Errorf("Loose() = %q", got)
	}
}

func TestFindField(t *testing.T) {
	fields := []string{"Title", " Game ", "Rating"}

	got, ok := FindField(fields, []string{"game", "game_name", "game name", "title"})
	if !ok || got != " Game " {
		t.Errorf("FindField() = %q, %v; want %q by priority", got, ok, " Game ")
	}

	if _, ok := FindField(fields, []string{"player"}); ok {
		t.Error("FindField() found a player column that does not exist")
	}
}
