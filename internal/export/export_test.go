// File path: internal/export/export_test.go
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/logicforge/logicforge/internal/store"
)

func buildRecord(t *testing.T) (*Service, *store.ProgramRecord) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export_test.db")
	st, err := store.OpenWithConfig(store.Config{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	program, err := st.CreateProgram(ctx, store.DemoUserID, "Reading Recovery Pilot", "FLN pilot in two districts")
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	if _, err := st.UpsertProblemStatement(ctx, store.ProblemStatement{
		ProgramID:     program.ID,
		ChallengeText: "Grade 3 students read below grade 1 level",
		RefinedText:   "Students in grades 3-5 lack foundational decoding skills",
		RootCauses:    store.StringList{"teacher shortage", "no graded readers"},
		Theme:         "FLN",
		IsCompleted:   true,
	}); err != nil {
		t.Fatalf("problem: %v", err)
	}
	if _, err := st.AddStakeholder(ctx, store.Stakeholder{
		ProgramID: program.ID, Name: "Primary School Teachers", Role: "Implementers",
		EngagementStrategy: "Training workshops", Priority: "high",
	}); err != nil {
		t.Fatalf("stakeholder: %v", err)
	}
	models, err := st.ListProvenModels(ctx, "FLN")
	if err != nil || len(models) == 0 {
		t.Fatalf("list models: %v (%d)", err, len(models))
	}
	if _, err := st.SelectProvenModel(ctx, program.ID, models[0].ID, "adapted for rural blocks"); err != nil {
		t.Fatalf("select model: %v", err)
	}
	outcome, err := st.AddOutcome(ctx, store.Outcome{
		ProgramID: program.ID, Description: "80% of grade 3 students read grade-level text",
		Theme: "FLN", Timeframe: "12 months",
	})
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if _, err := st.AddIndicator(ctx, store.Indicator{
		OutcomeID: outcome.ID, Type: "outcome",
		Description:       "Percentage of students reading at grade level",
		MeasurementMethod: "ASER assessment", TargetValue: "80%",
		BaselineValue: "32%", Frequency: "Quarterly", DataSource: "Student assessments",
	}); err != nil {
		t.Fatalf("indicator: %v", err)
	}

	svc := NewService(st)
	record, err := svc.Assemble(ctx, program.ID)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return svc, record
}

func TestRenderJSONIsStable(t *testing.T) {
	_, record := buildRecord(t)

	first, err := RenderJSON(record)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	second, err := RenderJSON(record)
	if err != nil {
		t.Fatalf("render json again: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("json export must be deterministic for unchanged data")
	}
	if !strings.Contains(string(first), "Reading Recovery Pilot") {
		t.Fatal("json export missing program title")
	}
	if strings.Contains(string(first), `"documents"`) {
		t.Fatal("json export must exclude document history")
	}
}

func TestRenderCSVRows(t *testing.T) {
	_, record := buildRecord(t)

	data, err := RenderCSV(record)
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	if rows[0][0] != "program_title" || len(rows[0]) != 11 {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][4] != "outcome" || rows[1][8] != "80%" {
		t.Fatalf("unexpected data row: %v", rows[1])
	}
}

func TestRenderCSVKeepsIndicatorlessOutcomes(t *testing.T) {
	record := &store.ProgramRecord{
		Program: store.Program{Title: "Bare"},
		Outcomes: []store.OutcomeRecord{
			{Outcome: store.Outcome{Description: "An outcome with no indicators"}},
		},
	}
	data, err := RenderCSV(record)
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("outcome without indicators should still get a row, got %d rows", len(rows))
	}
}

func TestRenderPDFProducesDocument(t *testing.T) {
	_, record := buildRecord(t)

	data, err := RenderPDF(record, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF magic bytes, got %q", data[:8])
	}
	if len(data) < 1000 {
		t.Fatalf("suspiciously small pdf: %d bytes", len(data))
	}
}

func TestRenderDonorFormats(t *testing.T) {
	_, record := buildRecord(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	usaid, err := RenderDonor(record, DonorUSAID, now)
	if err != nil {
		t.Fatalf("usaid: %v", err)
	}
	if !strings.Contains(string(usaid), "RESULTS FRAMEWORK") || !strings.Contains(string(usaid), "IR 1:") {
		t.Fatalf("unexpected usaid output:\n%s", usaid)
	}

	gates, err := RenderDonor(record, DonorGates, now)
	if err != nil {
		t.Fatalf("gates: %v", err)
	}
	if !strings.Contains(string(gates), "THEORY OF CHANGE") || !strings.Contains(string(gates), "Primary School Teachers") {
		t.Fatalf("unexpected gates output:\n%s", gates)
	}

	fcdo, err := RenderDonor(record, DonorFCDO, now)
	if err != nil {
		t.Fatalf("fcdo: %v", err)
	}
	if !strings.Contains(string(fcdo), "LOGICAL FRAMEWORK") || !strings.Contains(string(fcdo), "OUTCOME 1") {
		t.Fatalf("unexpected fcdo output:\n%s", fcdo)
	}

	if _, err := RenderDonor(record, "worldbank", now); err == nil {
		t.Fatal("expected error for unsupported donor format")
	}
}

func TestBuildFormInfersTypes(t *testing.T) {
	indicators := []store.Indicator{
		{Description: "Percentage of students reading at grade level", MeasurementMethod: "ASER", TargetValue: "80%"},
		{Description: "Training completed for all teachers"},
		{Description: "Qualitative feedback from parents"},
	}
	form := BuildForm("prog-1", "FLN Quarterly Survey", indicators)
	if form.TotalFields != 6 {
		t.Fatalf("expected 3 standard + 3 indicator fields, got %d", form.TotalFields)
	}
	if form.Fields[3].Type != "number" {
		t.Fatalf("percentage indicator should be number, got %q", form.Fields[3].Type)
	}
	if form.Fields[4].Type != "select" {
		t.Fatalf("completed indicator should be select, got %q", form.Fields[4].Type)
	}
	if form.Fields[5].Type != "text" {
		t.Fatalf("qualitative indicator should be text, got %q", form.Fields[5].Type)
	}
}

func TestRenderXLSFormSheets(t *testing.T) {
	indicators := []store.Indicator{
		{Description: "Number of sessions held", MeasurementMethod: "Logs", TargetValue: "5/week"},
	}
	content := string(RenderXLSForm("FLN Quarterly Survey", indicators))
	for _, want := range []string{
		"=== SURVEY SHEET ===",
		"=== CHOICES SHEET ===",
		"=== SETTINGS SHEET ===",
		"integer\tindicator_1\tNumber of sessions held\tyes\tLogs",
		"note\tindicator_1_target\tTarget: 5/week",
		"fln_quarterly_survey",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("xlsform missing %q:\n%s", want, content)
		}
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("Reading Recovery Pilot", "Program_Design", "pdf"); got != "Reading_Recovery_Pilot_Program_Design.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := FileName("  ", "Export", "json"); got != "Program_Export.json" {
		t.Fatalf("unexpected fallback name %q", got)
	}
}
