// File path: internal/api/assist_handler.go
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/logicforge/logicforge/internal/common"
	"github.com/logicforge/logicforge/internal/search"
)

// Assist responses carry the XP granted for using the feature so the client
// can surface the reward immediately.

func (s *Server) handleRefineProblem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID        string `json:"user_id"`
		ProgramID     string `json:"program_id"`
		ChallengeText string `json:"challenge_text"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.assist.RefineProblem(r.Context(), req.ChallengeText)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	xp := s.awardAssistXP(r, userID(req.UserID), req.ProgramID, "ai_refine_problem")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"xp":     xp,
	})
}

func (s *Server) handleSuggestStakeholders(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID           string `json:"user_id"`
		ProgramID        string `json:"program_id"`
		ProblemStatement string `json:"problem_statement"`
		Theme            string `json:"theme"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.assist.SuggestStakeholders(r.Context(), req.ProblemStatement, req.Theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	xp := s.awardAssistXP(r, userID(req.UserID), req.ProgramID, "ai_suggest_stakeholders")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"xp":     xp,
	})
}

func (s *Server) handleGenerateIndicators(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID             string `json:"user_id"`
		ProgramID          string `json:"program_id"`
		OutcomeDescription string `json:"outcome_description"`
		Theme              string `json:"theme"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.assist.GenerateIndicators(r.Context(), req.OutcomeDescription, req.Theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	xp := s.awardAssistXP(r, userID(req.UserID), req.ProgramID, "ai_generate_indicators")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"xp":     xp,
	})
}

func (s *Server) handleSearchModels(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
		Theme string `json:"theme"`
		Limit int    `json:"limit"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, errors.New("search query required"))
		return
	}
	matches, err := s.search.Search(r.Context(), req.Query, req.Theme, req.Limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if matches == nil {
		matches = []search.Match{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": matches,
		"count":   len(matches),
	})
}

// awardAssistXP grants the assist-usage reward. A failed award never blocks
// the assist response itself.
func (s *Server) awardAssistXP(r *http.Request, user, programID, action string) interface{} {
	result, err := s.game.Award(r.Context(), user, programID, action)
	if err != nil {
		common.Logger().Warn("api: assist xp award failed", "action", action, "error", err)
		return nil
	}
	return result
}
