// File path: internal/api/gamification_handler.go
package api

import (
	"net/http"
	"strconv"

	"github.com/logicforge/logicforge/internal/gamification"
)

func (s *Server) handleGamificationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.game.UserStats(r.Context(), userID(r.URL.Query().Get("user_id")))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAwardXP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"user_id"`
		ProgramID string `json:"program_id"`
		Action    string `json:"action"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.game.Award(r.Context(), userID(req.UserID), req.ProgramID, req.Action)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTouchStreak(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	_ = decodeBody(r, &req)
	result, err := s.game.TouchStreak(r.Context(), userID(req.UserID))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.game.Leaderboard(r.Context(), r.URL.Query().Get("organization_id"), limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if entries == nil {
		entries = []gamification.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}
