// File path: internal/api/export_handler.go
package api

import (
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/logicforge/logicforge/internal/common"
	"github.com/logicforge/logicforge/internal/export"
)

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")
	record, err := s.export.Assemble(r.Context(), programID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	data, err := export.RenderPDF(record, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	fileName := export.FileName(record.Program.Title, "Program_Design", "pdf")
	s.recordExport(r, programID, export.FormatPDF, fileName)
	serveAttachment(w, fileName, "application/pdf", data)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")
	record, err := s.export.Assemble(r.Context(), programID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	data, err := export.RenderCSV(record)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	fileName := export.FileName(record.Program.Title, "ME_Framework", "csv")
	s.recordExport(r, programID, export.FormatCSV, fileName)
	serveAttachment(w, fileName, "text/csv", data)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")
	record, err := s.export.Assemble(r.Context(), programID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	data, err := export.RenderJSON(record)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	fileName := export.FileName(record.Program.Title, "Program_Design", "json")
	s.recordExport(r, programID, export.FormatJSON, fileName)
	serveAttachment(w, fileName, "application/json", data)
}

func (s *Server) handleExportDonor(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")
	format := r.URL.Query().Get("format")
	record, err := s.export.Assemble(r.Context(), programID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	data, err := export.RenderDonor(record, format, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fileName := export.FileName(record.Program.Title, format+"_framework", "txt")
	s.recordExport(r, programID, export.FormatDonor, fileName)
	serveAttachment(w, fileName, "text/plain", data)
}

// recordExport persists the export event and, when the program sits on the
// final step, completes the journey. Failures are logged, not surfaced; the
// document was already rendered for the caller.
func (s *Server) recordExport(r *http.Request, programID, documentType, fileName string) {
	user := userID(r.URL.Query().Get("user_id"))
	if _, _, err := s.workflow.RecordExport(r.Context(), programID, user, documentType, fileName); err != nil {
		common.Logger().Warn("api: export bookkeeping failed", "type", documentType, "error", err)
	}
}

func serveAttachment(w http.ResponseWriter, fileName, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
