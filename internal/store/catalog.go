// File path: internal/store/catalog.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ListProvenModels returns catalog models, optionally filtered to a theme.
func (s *Store) ListProvenModels(ctx context.Context, theme string) ([]ProvenModel, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var models []ProvenModel
	if err := s.db.SelectContext(ctx, &models, `SELECT * FROM proven_models ORDER BY name`); err != nil {
		return nil, fmt.Errorf("select proven models: %w", err)
	}
	if theme = strings.TrimSpace(theme); theme == "" {
		return models, nil
	}
	filtered := models[:0]
	for _, m := range models {
		if modelHasTheme(m, theme) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// GetProvenModel fetches a catalog model by id.
func (s *Store) GetProvenModel(ctx context.Context, id string) (*ProvenModel, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var model ProvenModel
	err := s.db.GetContext(ctx, &model, `SELECT * FROM proven_models WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select proven model: %w", err)
	}
	return &model, nil
}

// KeywordSearchModels matches query text against model names, descriptions and
// target outcomes. Used when no embedding provider is available.
func (s *Store) KeywordSearchModels(ctx context.Context, query, theme string, limit int) ([]ProvenModel, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var models []ProvenModel
	err := s.db.SelectContext(ctx, &models,
		`SELECT * FROM proven_models
                 WHERE lower(name) LIKE ? OR lower(description) LIKE ? OR lower(target_outcomes) LIKE ?
                 ORDER BY name`,
		pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("keyword search models: %w", err)
	}
	if theme = strings.TrimSpace(theme); theme != "" {
		filtered := models[:0]
		for _, m := range models {
			if modelHasTheme(m, theme) {
				filtered = append(filtered, m)
			}
		}
		models = filtered
	}
	if len(models) > limit {
		models = models[:limit]
	}
	return models, nil
}

// ModelsWithEmbeddings returns catalog models that carry a stored embedding.
func (s *Store) ModelsWithEmbeddings(ctx context.Context) ([]ProvenModel, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var models []ProvenModel
	err := s.db.SelectContext(ctx, &models,
		`SELECT * FROM proven_models WHERE embedding IS NOT NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select embedded models: %w", err)
	}
	return models, nil
}

// UpdateModelEmbedding stores the embedding vector for a catalog model.
func (s *Store) UpdateModelEmbedding(ctx context.Context, id string, embedding Vector) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE proven_models SET embedding = ? WHERE id = ?`, embedding, id)
	if err != nil {
		return fmt.Errorf("update model embedding: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func modelHasTheme(m ProvenModel, theme string) bool {
	for _, t := range m.Themes {
		if strings.EqualFold(t, theme) {
			return true
		}
	}
	return false
}

// seedModels is the built-in catalog of evidence-backed program models. IDs
// are fixed so re-running migrations never duplicates rows.
var seedModels = []ProvenModel{
	{
		ID:   "10000000-0000-0000-0000-000000000001",
		Name: "Teaching at the Right Level (TaRL)",
		Description: "Groups children by learning level rather than age or grade " +
			"and targets instruction at foundational reading and arithmetic skills.",
		ImplementationGuide: "Run a simple oral assessment to group children, dedicate a daily " +
			"hour to level-based activities, and reassess every few weeks to regroup.",
		EvidenceBase:   "Multiple randomized evaluations with Pratham across Indian states showed large gains in basic reading and arithmetic.",
		Themes:         StringList{"FLN"},
		TargetOutcomes: StringList{"foundational literacy", "foundational numeracy", "grade-level reading"},
		SourceURL:      "https://www.teachingattherightlevel.org/",
	},
	{
		ID:   "10000000-0000-0000-0000-000000000002",
		Name: "Structured Pedagogy with Teacher Guides",
		Description: "Combines scripted lesson plans, pupil materials and ongoing teacher " +
			"coaching to improve early-grade literacy instruction.",
		ImplementationGuide: "Distribute leveled readers and daily lesson guides, train teachers " +
			"in short cycles, and support them with monthly classroom coaching visits.",
		EvidenceBase:   "Tusome (Kenya) and EGRA-based programs report consistent improvements in early-grade reading fluency at scale.",
		Themes:         StringList{"FLN"},
		TargetOutcomes: StringList{"early grade reading", "teacher effectiveness", "oral reading fluency"},
		SourceURL:      "https://scienceofteaching.site/",
	},
	{
		ID:   "10000000-0000-0000-0000-000000000003",
		Name: "Career Guidance and Counselling Cells",
		Description: "School-based counselling that exposes secondary students to career options, " +
			"aptitude assessment and planning support before key transition points.",
		ImplementationGuide: "Set up a counselling corner in each school, run aptitude and interest " +
			"assessments in grades 9-10, and organize exposure visits and alumni talks.",
		EvidenceBase:   "Quasi-experimental studies link structured career guidance to higher secondary completion and better-informed stream choices.",
		Themes:         StringList{"Career Readiness"},
		TargetOutcomes: StringList{"career awareness", "school-to-work transition", "secondary completion"},
		SourceURL:      "",
	},
	{
		ID:   "10000000-0000-0000-0000-000000000004",
		Name: "Apprenticeship-Linked Vocational Training",
		Description: "Short vocational courses paired with employer apprenticeships so youth " +
			"practice job-relevant skills in real workplaces.",
		ImplementationGuide: "Map local employer demand, co-design the curriculum with employers, " +
			"and guarantee a placement or apprenticeship slot for every completer.",
		EvidenceBase:   "Randomized evaluations of dual apprenticeship models show higher employment and earnings versus classroom-only training.",
		Themes:         StringList{"Career Readiness", "Life Skills"},
		TargetOutcomes: StringList{"youth employment", "job-relevant skills", "earnings"},
		SourceURL:      "",
	},
	{
		ID:   "10000000-0000-0000-0000-000000000005",
		Name: "Inquiry-Based STEM Labs",
		Description: "Low-cost hands-on science and math labs where students learn through " +
			"guided experiments rather than rote demonstration.",
		ImplementationGuide: "Equip schools with reusable experiment kits mapped to the curriculum, " +
			"train teachers in inquiry facilitation, and schedule weekly lab periods.",
		EvidenceBase:   "Evaluations of activity-based science programs report gains in conceptual understanding and student interest in STEM subjects.",
		Themes:         StringList{"STEM"},
		TargetOutcomes: StringList{"science achievement", "math achievement", "STEM interest"},
		SourceURL:      "",
	},
	{
		ID:   "10000000-0000-0000-0000-000000000006",
		Name: "Adolescent Life Skills Circles",
		Description: "Facilitated peer groups where adolescents build communication, " +
			"decision-making and socio-emotional skills through structured sessions.",
		ImplementationGuide: "Recruit and train near-peer facilitators, run weekly sessions from a " +
			"structured module bank, and engage parents through periodic community meetings.",
		EvidenceBase:   "Cluster-randomized trials of adolescent empowerment clubs show improvements in socio-emotional skills and school retention, especially for girls.",
		Themes:         StringList{"Life Skills"},
		TargetOutcomes: StringList{"socio-emotional skills", "school retention", "agency"},
		SourceURL:      "",
	},
}

func (s *Store) seedCatalog(ctx context.Context) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, m := range seedModels {
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO proven_models(id, name, description, implementation_guide, evidence_base, themes, target_outcomes, source_url)
                                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				m.ID, m.Name, m.Description, m.ImplementationGuide, m.EvidenceBase,
				m.Themes, m.TargetOutcomes, m.SourceURL)
			if err != nil {
				return fmt.Errorf("seed proven model %s: %w", m.Name, err)
			}
		}
		for _, b := range seedBadges {
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO badges(id, name, description, icon, step_number) VALUES (?, ?, ?, ?, ?)`,
				b.ID, b.Name, b.Description, b.Icon, b.StepNumber)
			if err != nil {
				return fmt.Errorf("seed badge %s: %w", b.Name, err)
			}
		}
		return nil
	})
}
