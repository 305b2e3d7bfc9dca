package api

import (
	"net/http"

	"github.com/meur/whichgame/internal/models"
)

// handleGetPlayers returns the player roster
func (s *Server) handleGetPlayers(w http.ResponseWriter, r *http.Request) {
	if !s.session.Loaded() {
		respondError(w, http.StatusServiceUnavailable, "Data not loaded.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"players": s.session.Players(),
	})
}

// handleGetGames returns every known game with its scores and rule
func (s *Server) handleGetGames(w http.ResponseWriter, r *http.Request) {
	if !s.session.Loaded() {
		respondError(w, http.StatusServiceUnavailable, "Data not loaded.")
		return
	}
	games := s.session.Games()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games":       games,
		"total_count": len(games),
	})
}

// handleGetWarnings returns the warnings of the last data load
func (s *Server) handleGetWarnings(w http.ResponseWriter, r *http.Request) {
	warnings := s.session.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"warnings": warnings,
	})
}

// RecommendRequest selects the players to rank games for
type RecommendRequest struct {
	Players []string `json:"players" validate:"unique,dive,required"`
}

// RecommendResponse splits the ranking into the top pick and the rest
type RecommendResponse struct {
	Top             *models.Recommendation  `json:"top"`
	Others          []models.Recommendation `json:"others"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Excluded        []models.Exclusion      `json:"excluded"`
	Reason          string                  `json:"reason,omitempty"`
}

// handleRecommend ranks games for the selected players
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := s.session.Recommend(req.Players)
	resp := RecommendResponse{
		Others:          res.Others(),
		Recommendations: res.Recommendations,
		Excluded:        res.Excluded,
		Reason:          res.Reason,
	}
	if top, ok := res.Top(); ok {
		resp.Top = &top
	}
	if resp.Others == nil {
		resp.Others = []models.Recommendation{}
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []models.Recommendation{}
	}
	respondJSON(w, http.StatusOK, resp)
}
