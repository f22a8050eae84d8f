// File path: internal/api/collab_handler.go
package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/logicforge/logicforge/internal/store"
)

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProgramID string `json:"program_id"`
		UserID    string `json:"user_id"`
		UserName  string `json:"user_name"`
		Content   string `json:"content"`
		Section   string `json:"section"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := s.store.GetProgram(r.Context(), req.ProgramID); err != nil {
		writeStoreError(w, err)
		return
	}
	comment, err := s.store.AddComment(r.Context(), store.Comment{
		ProgramID: req.ProgramID,
		UserID:    userID(req.UserID),
		UserName:  req.UserName,
		Content:   req.Content,
		Section:   req.Section,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.store.ListComments(r.Context(),
		chi.URLParam(r, "programID"), r.URL.Query().Get("section"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if comments == nil {
		comments = []store.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleResolveComment(w http.ResponseWriter, r *http.Request) {
	comment, err := s.store.ResolveComment(r.Context(), chi.URLParam(r, "commentID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteComment(r.Context(), chi.URLParam(r, "commentID")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSnapshotVersion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProgramID   string                 `json:"program_id"`
		UserID      string                 `json:"user_id"`
		UserName    string                 `json:"user_name"`
		Description string                 `json:"description"`
		Changes     map[string]interface{} `json:"changes"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := s.store.GetProgram(r.Context(), req.ProgramID); err != nil {
		writeStoreError(w, err)
		return
	}
	version, err := s.store.SnapshotVersion(r.Context(), store.ProgramVersion{
		ProgramID:   req.ProgramID,
		UserID:      userID(req.UserID),
		UserName:    req.UserName,
		Description: req.Description,
		Changes:     store.JSONMap(req.Changes),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, version)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.store.ListVersions(r.Context(), chi.URLParam(r, "programID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if versions == nil {
		versions = []store.ProgramVersion{}
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "versionNumber"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid version number"))
		return
	}
	version, err := s.store.GetVersion(r.Context(), chi.URLParam(r, "programID"), number)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}

type activityFeedItem struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	User      string    `json:"user"`
	Section   string    `json:"section,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// handleActivityFeed merges recent comments and version snapshots into one
// reverse-chronological feed.
func (s *Server) handleActivityFeed(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	comments, err := s.store.ListComments(r.Context(), programID, "")
	if err != nil {
		writeStoreError(w, err)
		return
	}
	versions, err := s.store.ListVersions(r.Context(), programID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	feed := make([]activityFeedItem, 0, len(comments)+len(versions))
	for _, c := range comments {
		feed = append(feed, activityFeedItem{
			Type:      "comment",
			Content:   c.Content,
			User:      c.UserName,
			Section:   c.Section,
			CreatedAt: c.CreatedAt,
		})
	}
	for _, v := range versions {
		feed = append(feed, activityFeedItem{
			Type:      "version",
			Content:   fmt.Sprintf("Version %d: %s", v.VersionNumber, v.Description),
			User:      v.UserName,
			CreatedAt: v.CreatedAt,
		})
	}
	sort.Slice(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	if len(feed) > limit {
		feed = feed[:limit]
	}
	writeJSON(w, http.StatusOK, feed)
}
