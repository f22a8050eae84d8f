// File path: internal/api/forms_handler.go
package api

import (
	"net/http"
	"strings"

	"github.com/logicforge/logicforge/internal/export"
	"github.com/logicforge/logicforge/internal/store"
)

type formIndicator struct {
	IndicatorID       string `json:"indicator_id"`
	Description       string `json:"description"`
	Type              string `json:"type"`
	MeasurementMethod string `json:"measurement_method"`
	TargetValue       string `json:"target_value"`
	DataSource        string `json:"data_source"`
}

type formRequest struct {
	ProgramID  string          `json:"program_id"`
	FormTitle  string          `json:"form_title"`
	Indicators []formIndicator `json:"indicators"`
}

func (r formRequest) toIndicators() []store.Indicator {
	out := make([]store.Indicator, 0, len(r.Indicators))
	for _, ind := range r.Indicators {
		out = append(out, store.Indicator{
			ID:                ind.IndicatorID,
			Type:              ind.Type,
			Description:       ind.Description,
			MeasurementMethod: ind.MeasurementMethod,
			TargetValue:       ind.TargetValue,
			DataSource:        ind.DataSource,
		})
	}
	return out
}

func (s *Server) handleGenerateForm(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	form := export.BuildForm(req.ProgramID, req.FormTitle, req.toIndicators())
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleExportXLSForm(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	data := export.RenderXLSForm(req.FormTitle, req.toIndicators())
	fileName := strings.ReplaceAll(req.FormTitle, " ", "_") + "_xlsform.txt"
	serveAttachment(w, fileName, "text/plain", data)
}

type formTemplate struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Fields      []export.FormField `json:"fields"`
}

// Pre-built data-collection forms for the most common monitoring needs.
var formTemplates = []formTemplate{
	{
		ID:          "fln_assessment",
		Name:        "FLN Assessment Form",
		Description: "Assess reading and numeracy skills based on NIPUN Bharat standards",
		Fields: []export.FormField{
			{Name: "student_name", Label: "Student Name", Type: "text"},
			{Name: "grade", Label: "Grade", Type: "select", Choices: []string{"Grade 1", "Grade 2", "Grade 3"}},
			{Name: "oral_reading_fluency", Label: "Oral Reading Fluency (WPM)", Type: "number"},
			{Name: "reading_comprehension", Label: "Reading Comprehension Score", Type: "number"},
			{Name: "number_recognition", Label: "Number Recognition Score", Type: "number"},
			{Name: "addition_score", Label: "Addition Score", Type: "number"},
		},
	},
	{
		ID:          "attendance_tracking",
		Name:        "Attendance Tracking Form",
		Description: "Daily attendance tracking for program participants",
		Fields: []export.FormField{
			{Name: "date", Label: "Date", Type: "date"},
			{Name: "total_enrolled", Label: "Total Enrolled", Type: "number"},
			{Name: "present_today", Label: "Present Today", Type: "number"},
			{Name: "absent_reasons", Label: "Common Absence Reasons", Type: "text"},
		},
	},
	{
		ID:          "teacher_observation",
		Name:        "Teacher Observation Form",
		Description: "Classroom observation checklist for teacher training programs",
		Fields: []export.FormField{
			{Name: "teacher_name", Label: "Teacher Name", Type: "text"},
			{Name: "uses_tlm", Label: "Uses Teaching Learning Materials", Type: "select", Choices: []string{"Yes", "No", "Partially"}},
			{Name: "student_engagement", Label: "Student Engagement Level", Type: "select", Choices: []string{"High", "Medium", "Low"}},
			{Name: "differentiated_instruction", Label: "Uses Differentiated Instruction", Type: "select", Choices: []string{"Yes", "No"}},
		},
	},
}

func (s *Server) handleFormTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formTemplates)
}
