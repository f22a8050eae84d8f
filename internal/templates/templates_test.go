// File path: internal/templates/templates_test.go
package templates

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/logicforge/logicforge/internal/store"
)

func TestListAndThemeFilter(t *testing.T) {
	summaries, err := List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) < 4 {
		t.Fatalf("expected built-in templates, got %d", len(summaries))
	}
	for _, s := range summaries {
		if s.ID == "" || s.Name == "" || s.Theme == "" {
			t.Fatalf("incomplete summary: %+v", s)
		}
	}
	fln, err := List("fln")
	if err != nil {
		t.Fatalf("list fln: %v", err)
	}
	if len(fln) == 0 {
		t.Fatal("expected FLN templates")
	}
	for _, s := range fln {
		if s.Theme != "FLN" {
			t.Fatalf("theme filter leaked %+v", s)
		}
	}
}

func TestGetUnknownTemplate(t *testing.T) {
	if _, err := Get("does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInstantiateSeedsFullDesign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates_test.db")
	st, err := store.OpenWithConfig(store.Config{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	program, tpl, err := Instantiate(ctx, st, "fln-remedial-reading", store.DemoUserID, "")
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if program.Title != tpl.Name {
		t.Fatalf("default title should come from the template: %q", program.Title)
	}
	if program.CurrentStep != 1 || program.Status != store.StatusDraft {
		t.Fatalf("instantiated program should start fresh: %+v", program)
	}

	record, err := st.FullRecord(ctx, program.ID)
	if err != nil {
		t.Fatalf("full record: %v", err)
	}
	if record.ProblemStatement == nil || !record.ProblemStatement.IsCompleted {
		t.Fatal("template problem statement should be seeded as completed")
	}
	if len(record.Stakeholders) != len(tpl.Stakeholders) {
		t.Fatalf("expected %d stakeholders, got %d", len(tpl.Stakeholders), len(record.Stakeholders))
	}
	if len(record.Outcomes) != len(tpl.Outcomes) {
		t.Fatalf("expected %d outcomes, got %d", len(tpl.Outcomes), len(record.Outcomes))
	}
	if len(record.Outcomes[0].Indicators) == 0 {
		t.Fatal("expected seeded indicators")
	}

	custom, _, err := Instantiate(ctx, st, "fln-remedial-reading", store.DemoUserID, "My District Pilot")
	if err != nil {
		t.Fatalf("instantiate with title: %v", err)
	}
	if custom.Title != "My District Pilot" {
		t.Fatalf("custom title ignored: %q", custom.Title)
	}
}

func TestInstantiateUnknownTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates_test.db")
	st, err := store.OpenWithConfig(store.Config{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if _, _, err := Instantiate(context.Background(), st, "nope", store.DemoUserID, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
