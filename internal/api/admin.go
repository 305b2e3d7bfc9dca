package api

import (
	"context"
	"net/http"

	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/session"
)

type ctxKey int

const adminTokenKey ctxKey = iota

// requireAdmin resolves the admin token header into a session capability
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := s.session.Authorize(r.Header.Get(AdminTokenHeader))
		if err != nil {
			respondSessionError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminTokenKey, tok)))
	})
}

func adminToken(r *http.Request) session.AdminToken {
	tok, _ := r.Context().Value(adminTokenKey).(session.AdminToken)
	return tok
}

// UnlockRequest is the admin passcode check
type UnlockRequest struct {
	Passcode string `json:"passcode" validate:"required"`
}

// handleUnlock exchanges the passcode for an admin token
func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req UnlockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "passcode is required")
		return
	}

	tok, err := s.session.Unlock(req.Passcode)
	if err != nil {
		s.logger.Warn().Str("remote", r.RemoteAddr).Msg("Rejected admin passcode")
		respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": tok.String()})
}

// handleGetAdminTable returns every game with each player's effective score
func (s *Server) handleGetAdminTable(w http.ResponseWriter, r *http.Request) {
	rows, err := s.session.AdminTable(adminToken(r))
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"players": s.session.Players(),
		"games":   rows,
	})
}

// SaveEditsRequest is a batch of score changes
type SaveEditsRequest struct {
	Edits []models.ScoreEdit `json:"edits" validate:"required,dive"`
}

// handleSaveEdits applies score edits and persists them as overrides
func (s *Server) handleSaveEdits(w http.ResponseWriter, r *http.Request) {
	var req SaveEditsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "edits must name a game, a player and a score from 0 to 3")
		return
	}

	if err := s.session.SaveEdits(r.Context(), adminToken(r), req.Edits); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save admin edits")
		respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"saved": len(req.Edits)})
}

// handleReset restores the base preferences and clears overrides
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(r.Context(), adminToken(r)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to reset preferences")
		respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// SourceInput is one uploaded data file
type SourceInput struct {
	Format string `json:"format" validate:"required,oneof=csv json text"`
	Body   string `json:"body" validate:"required"`
}

// LoadDataRequest replaces the loaded preferences and, optionally, rules
type LoadDataRequest struct {
	Preferences SourceInput  `json:"preferences" validate:"required"`
	Rules       *SourceInput `json:"rules,omitempty"`
}

// handleLoadData parses new sources and swaps them in only if parsing succeeds
func (s *Server) handleLoadData(w http.ResponseWriter, r *http.Request) {
	var req LoadDataRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Preferences.Format == models.FormatText {
		respondError(w, http.StatusBadRequest, "preferences must be csv or json")
		return
	}

	srcs := []*models.Source{{
		Kind:   models.SourcePreferences,
		Format: req.Preferences.Format,
		Body:   req.Preferences.Body,
	}}
	var rulesSrc *models.Source
	if req.Rules != nil {
		rulesSrc = &models.Source{Kind: models.SourceRules, Format: req.Rules.Format, Body: req.Rules.Body}
		srcs = append(srcs, rulesSrc)
	}

	src, err := session.SourcesFrom(*srcs[0], rulesSrc)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.session.Load(r.Context(), src); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.store != nil {
		if err := s.store.SaveSources(r.Context(), srcs...); err != nil {
			s.logger.Error().Err(err).Msg("Failed to store data sources")
			respondError(w, http.StatusInternalServerError, "Data loaded but could not be stored")
			return
		}
		if rulesSrc == nil {
			if err := s.store.DeleteSource(r.Context(), models.SourceRules); err != nil {
				s.logger.Error().Err(err).Msg("Failed to drop old rules source")
			}
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"players":  s.session.Players(),
		"warnings": s.session.Warnings(),
	})
}
