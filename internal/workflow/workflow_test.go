// File path: internal/workflow/workflow_test.go
package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/logicforge/logicforge/internal/gamification"
	"github.com/logicforge/logicforge/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow_test.db")
	st, err := store.OpenWithConfig(store.Config{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewManager(st, gamification.NewService(st)), st
}

func seedProblem(t *testing.T, st *store.Store, programID string) {
	t.Helper()
	_, err := st.UpsertProblemStatement(context.Background(), store.ProblemStatement{
		ProgramID:     programID,
		ChallengeText: "Grade 3 students read below grade 1 level",
		Theme:         "FLN",
		IsCompleted:   true,
	})
	if err != nil {
		t.Fatalf("seed problem: %v", err)
	}
}

func TestCompleteStepAdvancesAndRewards(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	program, err := st.CreateProgram(ctx, store.DemoUserID, "Reading Recovery", "")
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	seedProblem(t, st, program.ID)

	result, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, StepProblem)
	if err != nil {
		t.Fatalf("complete step 1: %v", err)
	}
	if result.Program.CurrentStep != 2 || result.Program.Status != store.StatusInProgress {
		t.Fatalf("unexpected program state: %+v", result.Program)
	}
	if result.XP == nil || result.XP.Awarded != 100 {
		t.Fatalf("expected 100 XP for step 1: %+v", result.XP)
	}
	if result.Badge == nil || !result.BadgeEarned || result.Badge.StepNumber != 1 {
		t.Fatalf("expected step 1 badge: %+v", result)
	}
}

func TestCompleteStepOutOfOrder(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	program, err := st.CreateProgram(ctx, store.DemoUserID, "STEM Labs", "")
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	if _, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, StepStakeholders); !errors.Is(err, ErrStepOutOfOrder) {
		t.Fatalf("expected ErrStepOutOfOrder, got %v", err)
	}
	if _, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, 9); !errors.Is(err, ErrStepOutOfOrder) {
		t.Fatalf("expected ErrStepOutOfOrder for bogus step, got %v", err)
	}
}

func TestCompleteStepGates(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	program, err := st.CreateProgram(ctx, store.DemoUserID, "Career Cells", "")
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	// Step 1 without a completed problem statement.
	if _, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, StepProblem); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete for missing problem, got %v", err)
	}
	seedProblem(t, st, program.ID)
	if _, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, StepProblem); err != nil {
		t.Fatalf("complete step 1: %v", err)
	}

	// Step 2 without stakeholders.
	if _, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, StepStakeholders); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete for missing stakeholders, got %v", err)
	}
	if _, err := st.AddStakeholder(ctx, store.Stakeholder{ProgramID: program.ID, Name: "Teachers", Role: "implementers"}); err != nil {
		t.Fatalf("add stakeholder: %v", err)
	}
	if _, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, StepStakeholders); err != nil {
		t.Fatalf("complete step 2: %v", err)
	}

	// Step 3 has no gate.
	if _, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, StepModels); err != nil {
		t.Fatalf("complete step 3: %v", err)
	}

	// Step 4 without outcomes.
	if _, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, StepOutcomes); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete for missing outcomes, got %v", err)
	}
	if _, err := st.AddOutcome(ctx, store.Outcome{ProgramID: program.ID, Description: "Improved reading fluency"}); err != nil {
		t.Fatalf("add outcome: %v", err)
	}
	result, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, StepOutcomes)
	if err != nil {
		t.Fatalf("complete step 4: %v", err)
	}
	if result.Program.CurrentStep != StepReview {
		t.Fatalf("expected program on step 5, got %d", result.Program.CurrentStep)
	}

	// Step 5 only completes through export.
	if _, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, StepReview); !errors.Is(err, ErrStepRequiresExport) {
		t.Fatalf("expected ErrStepRequiresExport, got %v", err)
	}
}

func TestRecordExportCompletesProgram(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	program, err := st.CreateProgram(ctx, store.DemoUserID, "Life Skills Circles", "")
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	seedProblem(t, st, program.ID)
	if _, err := st.AddStakeholder(ctx, store.Stakeholder{ProgramID: program.ID, Name: "Parents", Role: "support"}); err != nil {
		t.Fatalf("add stakeholder: %v", err)
	}
	if _, err := st.AddOutcome(ctx, store.Outcome{ProgramID: program.ID, Description: "Stronger socio-emotional skills"}); err != nil {
		t.Fatalf("add outcome: %v", err)
	}
	for _, step := range []int{StepProblem, StepStakeholders, StepModels, StepOutcomes} {
		if _, err := m.CompleteStep(ctx, program.ID, store.DemoUserID, step); err != nil {
			t.Fatalf("complete step %d: %v", step, err)
		}
	}

	result, doc, err := m.RecordExport(ctx, program.ID, store.DemoUserID, "pdf", "design.pdf")
	if err != nil {
		t.Fatalf("record export: %v", err)
	}
	if doc == nil || doc.DocumentType != "pdf" {
		t.Fatalf("expected recorded document, got %+v", doc)
	}
	if result == nil || result.Program.Status != store.StatusCompleted {
		t.Fatalf("expected completed program, got %+v", result)
	}
	if result.XP == nil || result.XP.Awarded != 250 {
		t.Fatalf("expected 250 XP for step 5, got %+v", result.XP)
	}

	// Exporting again must not re-award.
	again, doc2, err := m.RecordExport(ctx, program.ID, store.DemoUserID, "csv", "design.csv")
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if again != nil {
		t.Fatalf("second export should not re-complete: %+v", again)
	}
	if doc2 == nil {
		t.Fatal("second export should still record the document")
	}
}

func TestRecordExportBeforeFinalStepJustLogs(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	program, err := st.CreateProgram(ctx, store.DemoUserID, "Early Draft", "")
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	result, doc, err := m.RecordExport(ctx, program.ID, store.DemoUserID, "json", "draft.json")
	if err != nil {
		t.Fatalf("record export: %v", err)
	}
	if result != nil {
		t.Fatalf("export before step 5 should not complete the program: %+v", result)
	}
	if doc == nil {
		t.Fatal("export should be recorded regardless of step")
	}
	fresh, err := st.GetProgram(ctx, program.ID)
	if err != nil {
		t.Fatalf("get program: %v", err)
	}
	if fresh.Status == store.StatusCompleted {
		t.Fatal("program must not be completed by an early export")
	}
}
