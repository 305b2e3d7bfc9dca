package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/meur/whichgame/internal/models"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "whichgame.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	slot := newStore(t).Slot("overrides")

	doc, err := slot.Load(ctx)
	if err != nil || doc != nil {
		t.Fatalf("Load() on empty store = %q, %v", doc, err)
	}

	if err := slot.Save(ctx, []byte(`{"entries":[]}`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := slot.Save(ctx, []byte(`{"entries":[{"gameKey":"chess"}]}`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	doc, err = slot.Load(ctx)
	if err != nil || string(doc) != `{"entries":[{"gameKey":"chess"}]}` {
		t.Errorf("Load() = %q, %v", doc, err)
	}

	if err := slot.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if doc, _ := slot.Load(ctx); doc != nil {
		t.Errorf("Load() after Clear = %q", doc)
	}
}

func TestSources(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	if src, err := store.GetSource(ctx, models.SourceRules); err != nil || src != nil {
		t.Fatalf("GetSource() on empty store = %+v, %v", src, err)
	}

	prefs := &models.Source{Kind: models.SourcePreferences, Format: models.FormatCSV, Body: "Game,Alice\nChess,3\n"}
	rules := &models.Source{Kind: models.SourceRules, Format: models.FormatText, Body: "Chess can be played with 2."}
	if err := store.SaveSources(ctx, prefs, rules); err != nil {
		t.Fatalf("SaveSources() error = %v", err)
	}
	if prefs.Revision == "" || prefs.Revision == rules.Revision {
		t.Errorf("revisions = %q, %q", prefs.Revision, rules.Revision)
	}

	got, err := store.GetSource(ctx, models.SourcePreferences)
	if err != nil {
		t.Fatalf("GetSource() error = %v", err)
	}
	if got.Body != prefs.Body || got.Format != models.FormatCSV || got.Revision != prefs.Revision {
		t.Errorf("GetSource() = %+v", got)
	}

	first := prefs.Revision
	prefs.Body = "Game,Bob\nRisk,2\n"
	if err := store.SaveSource(ctx, prefs); err != nil {
		t.Fatalf("SaveSource() error = %v", err)
	}
	got, _ = store.GetSource(ctx, models.SourcePreferences)
	if got.Body != prefs.Body || got.Revision == first {
		t.Errorf("SaveSource() did not replace: %+v", got)
	}

	if err := store.DeleteSource(ctx, models.SourceRules); err != nil {
		t.Fatalf("DeleteSource() error = %v", err)
	}
	if got, _ := store.GetSource(ctx, models.SourceRules); got != nil {
		t.Errorf("GetSource() after delete = %+v", got)
	}
}
