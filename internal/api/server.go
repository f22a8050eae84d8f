// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/logicforge/logicforge/internal/assist"
	"github.com/logicforge/logicforge/internal/common"
	"github.com/logicforge/logicforge/internal/export"
	"github.com/logicforge/logicforge/internal/gamification"
	"github.com/logicforge/logicforge/internal/llm"
	"github.com/logicforge/logicforge/internal/search"
	"github.com/logicforge/logicforge/internal/store"
	"github.com/logicforge/logicforge/internal/workflow"
)

type Server struct {
	router   chi.Router
	store    *store.Store
	provider llm.Provider
	assist   *assist.Service
	search   *search.Engine
	workflow *workflow.Manager
	game     *gamification.Service
	export   *export.Service
}

func NewServer(st *store.Store, provider llm.Provider) (*Server, error) {
	logger := common.Logger()
	if st == nil {
		return nil, errors.New("store required")
	}
	if provider == nil {
		provider = llm.NewProviderFromEnv()
	}
	game := gamification.NewService(st)
	srv := &Server{
		router:   chi.NewRouter(),
		store:    st,
		provider: provider,
		assist:   assist.NewService(provider),
		search:   search.NewEngine(st, provider),
		workflow: workflow.NewManager(st, game),
		game:     game,
		export:   export.NewService(st),
	}
	srv.routes()
	logger.Info("api: server ready", "provider", provider.Name())
	return srv, nil
}

// SearchEngine exposes the catalog search engine so callers can seed
// embeddings at startup.
func (s *Server) SearchEngine() *search.Engine {
	if s == nil {
		return nil
	}
	return s.search
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Get("/api/info", s.handleInfo)
	s.router.Get("/api/logs", s.handleLogs)

	s.router.Route("/api/programs", func(r chi.Router) {
		r.Post("/", s.handleCreateProgram)
		r.Get("/", s.handleListPrograms)
		r.Get("/badges", s.handleListBadges)
		r.Get("/models", s.handleListCatalogModels)
		r.Route("/{programID}", func(r chi.Router) {
			r.Get("/", s.handleGetProgram)
			r.Patch("/", s.handleUpdateProgram)
			r.Delete("/", s.handleDeleteProgram)
			r.Get("/full", s.handleFullRecord)
			r.Post("/problem", s.handleUpsertProblem)
			r.Get("/problem", s.handleGetProblem)
			r.Patch("/problem", s.handleUpsertProblem)
			r.Post("/problem/complete", s.stepCompleter(workflow.StepProblem))
			r.Post("/stakeholders", s.handleAddStakeholder)
			r.Get("/stakeholders", s.handleListStakeholders)
			r.Post("/stakeholders/complete", s.stepCompleter(workflow.StepStakeholders))
			r.Post("/models", s.handleSelectModel)
			r.Delete("/models/{modelID}", s.handleUnselectModel)
			r.Post("/models/complete", s.stepCompleter(workflow.StepModels))
			r.Post("/outcomes", s.handleAddOutcome)
			r.Get("/outcomes", s.handleListOutcomes)
			r.Post("/indicators/complete", s.stepCompleter(workflow.StepOutcomes))
		})
	})
	s.router.Patch("/api/stakeholders/{stakeholderID}", s.handleUpdateStakeholder)
	s.router.Delete("/api/stakeholders/{stakeholderID}", s.handleDeleteStakeholder)
	s.router.Post("/api/outcomes/{outcomeID}/indicators", s.handleAddIndicator)
	s.router.Get("/api/outcomes/{outcomeID}/indicators", s.handleListIndicators)

	s.router.Route("/api/ai", func(r chi.Router) {
		r.Post("/refine-problem", s.handleRefineProblem)
		r.Post("/suggest-stakeholders", s.handleSuggestStakeholders)
		r.Post("/generate-indicators", s.handleGenerateIndicators)
		r.Post("/search-models", s.handleSearchModels)
	})

	s.router.Route("/api/export", func(r chi.Router) {
		r.Get("/{programID}/pdf", s.handleExportPDF)
		r.Get("/{programID}/csv", s.handleExportCSV)
		r.Get("/{programID}/json", s.handleExportJSON)
		r.Get("/{programID}/donor", s.handleExportDonor)
	})

	s.router.Route("/api/gamification", func(r chi.Router) {
		r.Get("/stats", s.handleGamificationStats)
		r.Post("/xp", s.handleAwardXP)
		r.Post("/streak", s.handleTouchStreak)
		r.Get("/leaderboard", s.handleLeaderboard)
	})

	s.router.Route("/api/templates", func(r chi.Router) {
		r.Get("/", s.handleListTemplates)
		r.Get("/{templateID}", s.handleGetTemplate)
		r.Post("/{templateID}/create-program", s.handleInstantiateTemplate)
	})

	s.router.Route("/api/benchmarks", func(r chi.Router) {
		r.Get("/nipun", s.handleNIPUN)
		r.Get("/states", s.handleStates)
		r.Get("/states/{stateName}", s.handleStateDetail)
		r.Get("/national", s.handleNational)
		r.Get("/fln-indicators", s.handleFLNIndicators)
		r.Get("/compare", s.handleCompareStates)
	})

	s.router.Route("/api/collaboration", func(r chi.Router) {
		r.Post("/comments", s.handleAddComment)
		r.Get("/comments/{programID}", s.handleListComments)
		r.Patch("/comments/{commentID}/resolve", s.handleResolveComment)
		r.Delete("/comments/{commentID}", s.handleDeleteComment)
		r.Post("/versions", s.handleSnapshotVersion)
		r.Get("/versions/{programID}", s.handleListVersions)
		r.Get("/versions/{programID}/{versionNumber}", s.handleGetVersion)
		r.Get("/activity/{programID}", s.handleActivityFeed)
	})

	s.router.Route("/api/activities", func(r chi.Router) {
		r.Post("/", s.handleAddActivity)
		r.Get("/program/{programID}", s.handleListActivities)
		r.Get("/timeline/{programID}", s.handleActivityTimeline)
		r.Get("/{activityID}", s.handleGetActivity)
		r.Patch("/{activityID}", s.handleUpdateActivity)
		r.Delete("/{activityID}", s.handleDeleteActivity)
	})

	s.router.Route("/api/forms", func(r chi.Router) {
		r.Post("/generate", s.handleGenerateForm)
		r.Post("/export-xlsform", s.handleExportXLSForm)
		r.Get("/templates", s.handleFormTemplates)
	})

	s.router.Route("/api/analytics", func(r chi.Router) {
		r.Get("/{userID}/progress", s.handleProgressTimeline)
		r.Get("/{userID}/stakeholders", s.handleStakeholderStats)
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":     "LogicForge API",
		"provider": s.provider.Name(),
		"steps":    5,
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}

// userID resolves the acting user from the query string or body field,
// defaulting to the demo identity.
func userID(raw string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return store.DemoUserID
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeStoreError maps domain sentinel errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, workflow.ErrStepOutOfOrder), errors.Is(err, workflow.ErrStepRequiresExport):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, workflow.ErrStepIncomplete):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, llm.ErrUnavailable):
		writeError(w, http.StatusBadGateway, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
