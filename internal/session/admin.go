package session

import (
	"context"
	"fmt"

	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/overrides"
)

// AdminRow is one game in the admin edit table. Every roster player has a
// score; unset ones show the missing-score default.
type AdminRow struct {
	GameKey string             `json:"game_key"`
	Name    string             `json:"name"`
	Scores  map[string]float64 `json:"scores"`
}

// AdminTable returns the editable view of the working preferences.
func (s *Session) AdminTable(tok AdminToken) ([]AdminRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkLocked(tok); err != nil {
		return nil, err
	}

	rows := make([]AdminRow, 0, len(s.working))
	for key, entry := range s.working {
		row := AdminRow{GameKey: key, Name: entry.Name, Scores: make(map[string]float64, len(s.players))}
		for _, player := range s.players {
			score, ok := entry.Score(player)
			if !ok {
				score = s.missingDefault
			}
			row.Scores[player] = score
		}
		rows = append(rows, row)
	}
	sortByName(rows, func(r AdminRow) string { return r.Name })
	return rows, nil
}

// SaveEdits applies score edits to a copy of the working preferences,
// persists the full override snapshot and only then swaps the copy in.
// Edits for players outside the roster are rejected since the snapshot
// only carries roster scores.
func (s *Session) SaveEdits(ctx context.Context, tok AdminToken, edits []models.ScoreEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(tok); err != nil {
		return err
	}

	roster := make(map[string]struct{}, len(s.players))
	for _, p := range s.players {
		roster[p] = struct{}{}
	}
	for _, e := range edits {
		if _, ok := roster[e.Player]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPlayer, e.Player)
		}
	}

	working := s.working.Clone()
	for _, e := range edits {
		entry := working[e.GameKey]
		if entry == nil {
			entry = &models.PreferenceEntry{Name: e.GameKey, Scores: map[string]float64{}}
			working[e.GameKey] = entry
		}
		if entry.Scores == nil {
			entry.Scores = map[string]float64{}
		}
		entry.Scores[e.Player] = e.Score
	}

	if s.store != nil {
		data, err := overrides.Encode(overrides.Snapshot(working, s.players))
		if err != nil {
			return fmt.Errorf("failed to encode overrides: %w", err)
		}
		if err := s.store.Save(ctx, data); err != nil {
			return fmt.Errorf("failed to save overrides: %w", err)
		}
	}

	s.working = working
	s.logger.Info().Int("edits", len(edits)).Msg("Admin edits saved")
	return nil
}

// Reset discards all edits and stored overrides, returning to the base preferences.
func (s *Session) Reset(ctx context.Context, tok AdminToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(tok); err != nil {
		return err
	}

	s.working = s.base.Clone()
	if s.store != nil {
		if err := s.store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear overrides: %w", err)
		}
	}
	s.logger.Info().Msg("Preferences reset to defaults")
	return nil
}
