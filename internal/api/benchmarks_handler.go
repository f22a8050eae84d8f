// File path: internal/api/benchmarks_handler.go
package api

import (
	"errors"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/logicforge/logicforge/internal/benchmarks"
)

func (s *Server) handleNIPUN(w http.ResponseWriter, r *http.Request) {
	nipun, err := benchmarks.NIPUN()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, nipun)
}

func (s *Server) handleNational(w http.ResponseWriter, r *http.Request) {
	national, err := benchmarks.National()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, national)
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	states, err := benchmarks.States(r.URL.Query().Get("region"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (s *Server) handleStateDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := benchmarks.State(chi.URLParam(r, "stateName"))
	if err != nil {
		if errors.Is(err, benchmarks.ErrStateNotFound) {
			writeError(w, http.StatusNotFound, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleFLNIndicators(w http.ResponseWriter, r *http.Request) {
	indicators, err := benchmarks.FLNIndicators()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, indicators)
}

func (s *Server) handleCompareStates(w http.ResponseWriter, r *http.Request) {
	cmp, err := benchmarks.Compare(r.URL.Query().Get("state1"), r.URL.Query().Get("state2"))
	if err != nil {
		if errors.Is(err, benchmarks.ErrStateNotFound) {
			writeError(w, http.StatusNotFound, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}
