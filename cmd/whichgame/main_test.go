package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitPlayers(t *testing.T) {
	got := splitPlayers(" Alice, Bob,,Carol ")
	want := []string{"Alice", "Bob", "Carol"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitPlayers() = %v, want %v", got, want)
	}
	if got := splitPlayers(""); got != nil {
		t.Errorf("splitPlayers(\"\") = %v, want nil", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	prefs := filepath.Join(dir, "prefs.csv")
	rulesFile := filepath.Join(dir, "rules.txt")
	if err := os.WriteFile(prefs, []byte("Game,Alice,Bob\nChess,3,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rulesFile, []byte("Chess - Chess can be played with 2."), 0o644); err != nil {
		t.Fatal(err)
	}

	p, r, warnings, err := load(prefs, rulesFile)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if p["chess"] == nil || r["chess"] == nil {
		t.Errorf("chess missing: prefs=%v rules=%v", p, r)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}

	if _, _, _, err := load(filepath.Join(dir, "nope.csv"), ""); err == nil {
		t.Error("load() with a missing file returned no error")
	}
}
