// File path: internal/templates/templates.go
package templates

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/logicforge/logicforge/internal/store"
)

//go:embed data/program_templates.json
var templateData embed.FS

// ErrNotFound is returned when no template matches the requested id.
var ErrNotFound = errors.New("template not found")

// Summary is the listing view of a template.
type Summary struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	Theme               string `json:"theme"`
	Difficulty          string `json:"difficulty"`
	Duration            string `json:"duration"`
	TargetBeneficiaries string `json:"target_beneficiaries"`
}

// Template is a full quick-start program design.
type Template struct {
	Summary
	ProblemStatement templateProblem       `json:"problem_statement"`
	Stakeholders     []templateStakeholder `json:"stakeholders"`
	Outcomes         []templateOutcome     `json:"outcomes"`
}

type templateProblem struct {
	ChallengeText string   `json:"challenge_text"`
	RootCauses    []string `json:"root_causes"`
	Theme         string   `json:"theme"`
}

type templateStakeholder struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Priority string `json:"priority"`
}

type templateOutcome struct {
	Description string              `json:"description"`
	Indicators  []templateIndicator `json:"indicators"`
}

type templateIndicator struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	TargetValue string `json:"target_value"`
}

var (
	loadOnce sync.Once
	loaded   []Template
	loadErr  error
)

func all() ([]Template, error) {
	loadOnce.Do(func() {
		raw, err := templateData.ReadFile("data/program_templates.json")
		if err != nil {
			loadErr = fmt.Errorf("read template data: %w", err)
			return
		}
		var doc struct {
			Templates []Template `json:"templates"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			loadErr = fmt.Errorf("parse template data: %w", err)
			return
		}
		loaded = doc.Templates
	})
	return loaded, loadErr
}

// List returns template summaries, optionally filtered by theme.
func List(theme string) ([]Summary, error) {
	templates, err := all()
	if err != nil {
		return nil, err
	}
	theme = strings.TrimSpace(theme)
	out := make([]Summary, 0, len(templates))
	for _, t := range templates {
		if theme != "" && !strings.EqualFold(t.Theme, theme) {
			continue
		}
		out = append(out, t.Summary)
	}
	return out, nil
}

// Get returns the full template with the given id.
func Get(id string) (*Template, error) {
	templates, err := all()
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], nil
		}
	}
	return nil, ErrNotFound
}

// Instantiate creates a ready-to-edit program from a template. The problem
// statement arrives completed, so the journey starts with step one already
// satisfiable.
func Instantiate(ctx context.Context, st *store.Store, templateID, userID, customTitle string) (*store.Program, *Template, error) {
	tpl, err := Get(templateID)
	if err != nil {
		return nil, nil, err
	}
	title := strings.TrimSpace(customTitle)
	if title == "" {
		title = tpl.Name
	}
	seed := store.ProgramSeed{
		UserID:      userID,
		Title:       title,
		Description: tpl.Description,
		Problem: store.ProblemStatement{
			ChallengeText: tpl.ProblemStatement.ChallengeText,
			RootCauses:    store.StringList(tpl.ProblemStatement.RootCauses),
			Theme:         tpl.ProblemStatement.Theme,
			IsCompleted:   true,
		},
	}
	for _, sh := range tpl.Stakeholders {
		seed.Stakeholders = append(seed.Stakeholders, store.Stakeholder{
			Name:     sh.Name,
			Role:     sh.Role,
			Priority: sh.Priority,
		})
	}
	for _, o := range tpl.Outcomes {
		entry := store.SeededOutcome{
			Outcome: store.Outcome{Description: o.Description, Theme: tpl.Theme},
		}
		for _, ind := range o.Indicators {
			entry.Indicators = append(entry.Indicators, store.Indicator{
				Type:        ind.Type,
				Description: ind.Description,
				TargetValue: ind.TargetValue,
			})
		}
		seed.Outcomes = append(seed.Outcomes, entry)
	}
	program, err := st.InstantiateProgram(ctx, seed)
	if err != nil {
		return nil, nil, err
	}
	return program, tpl, nil
}
