// File path: internal/api/activities_handler.go
package api

import (
	"errors"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/logicforge/logicforge/internal/store"
)

type activityRequest struct {
	ProgramID          string  `json:"program_id"`
	OutcomeID          *string `json:"outcome_id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	Status             string  `json:"status"`
	ResponsiblePerson  string  `json:"responsible_person"`
	ResourcesNeeded    string  `json:"resources_needed"`
	ProgressPercentage int     `json:"progress_percentage"`
}

func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := s.store.GetProgram(r.Context(), req.ProgramID); err != nil {
		writeStoreError(w, err)
		return
	}
	activity, err := s.store.AddActivity(r.Context(), store.Activity{
		ProgramID:          req.ProgramID,
		OutcomeID:          req.OutcomeID,
		Title:              req.Title,
		Description:        req.Description,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Status:             req.Status,
		ResponsiblePerson:  req.ResponsiblePerson,
		ResourcesNeeded:    req.ResourcesNeeded,
		ProgressPercentage: req.ProgressPercentage,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := s.store.GetActivity(r.Context(), chi.URLParam(r, "activityID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := s.store.ListActivities(r.Context(),
		chi.URLParam(r, "programID"), r.URL.Query().Get("status"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if activities == nil {
		activities = []store.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	activity, err := s.store.UpdateActivity(r.Context(), store.Activity{
		ID:                 chi.URLParam(r, "activityID"),
		Title:              req.Title,
		Description:        req.Description,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Status:             req.Status,
		ResponsiblePerson:  req.ResponsiblePerson,
		ResourcesNeeded:    req.ResourcesNeeded,
		ProgressPercentage: req.ProgressPercentage,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
		} else {
			writeError(w, http.StatusBadRequest, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteActivity(r.Context(), chi.URLParam(r, "activityID")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type timelineEntry struct {
	store.Activity
	DurationDays int  `json:"duration_days"`
	Overdue      bool `json:"overdue"`
}

// handleActivityTimeline annotates a program's work plan with duration and
// overdue flags for Gantt-style rendering.
func (s *Server) handleActivityTimeline(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")
	if _, err := s.store.GetProgram(r.Context(), programID); err != nil {
		writeStoreError(w, err)
		return
	}
	activities, err := s.store.ListActivities(r.Context(), programID, "")
	if err != nil {
		writeStoreError(w, err)
		return
	}
	today := time.Now().UTC().Format("2006-01-02")
	timeline := make([]timelineEntry, 0, len(activities))
	for _, a := range activities {
		entry := timelineEntry{Activity: a}
		start, errStart := time.Parse("2006-01-02", a.StartDate)
		end, errEnd := time.Parse("2006-01-02", a.EndDate)
		if errStart == nil && errEnd == nil {
			entry.DurationDays = int(end.Sub(start).Hours()/24) + 1
		}
		entry.Overdue = a.Status != "completed" && a.EndDate < today
		timeline = append(timeline, entry)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"program_id": programID,
		"activities": timeline,
		"total":      len(timeline),
	})
}
