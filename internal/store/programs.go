// File path: internal/store/programs.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ProgramRecord bundles a program with everything captured across the five
// design steps. It is the unit of export and review.
type ProgramRecord struct {
	Program          Program             `json:"program"`
	ProblemStatement *ProblemStatement   `json:"problem_statement,omitempty"`
	Stakeholders     []Stakeholder       `json:"stakeholders"`
	SelectedModels   []SelectedModel     `json:"selected_models"`
	Outcomes         []OutcomeRecord     `json:"outcomes"`
	Documents        []GeneratedDocument `json:"documents,omitempty"`
}

// SelectedModel pairs a catalog model with the program-specific adoption notes.
type SelectedModel struct {
	Model ProvenModel `json:"model"`
	Notes string      `json:"notes,omitempty"`
}

// OutcomeRecord pairs an outcome with its indicators.
type OutcomeRecord struct {
	Outcome    Outcome     `json:"outcome"`
	Indicators []Indicator `json:"indicators"`
}

// CreateProgram inserts a new program owned by the given user.
func (s *Store) CreateProgram(ctx context.Context, userID, title, description string) (*Program, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	title = strings.TrimSpace(title)
	if userID == "" {
		return nil, errors.New("user id required")
	}
	if title == "" {
		return nil, errors.New("program title required")
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO programs(id, user_id, title, description) VALUES (?, ?, ?, ?)`,
		id, userID, title, strings.TrimSpace(description))
	if err != nil {
		return nil, fmt.Errorf("insert program: %w", err)
	}
	return s.GetProgram(ctx, id)
}

// GetProgram fetches a single program by id.
func (s *Store) GetProgram(ctx context.Context, id string) (*Program, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var program Program
	err := s.db.GetContext(ctx, &program, `SELECT * FROM programs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select program: %w", err)
	}
	return &program, nil
}

// ListPrograms returns programs filtered by owner and status, newest first.
func (s *Store) ListPrograms(ctx context.Context, userID, status string) ([]Program, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	query := `SELECT * FROM programs`
	var clauses []string
	var args []interface{}
	if userID = strings.TrimSpace(userID); userID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, userID)
	}
	if status = strings.TrimSpace(status); status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, status)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY updated_at DESC"
	var programs []Program
	if err := s.db.SelectContext(ctx, &programs, query, args...); err != nil {
		return nil, fmt.Errorf("select programs: %w", err)
	}
	return programs, nil
}

// UpdateProgram patches the mutable program fields. Empty strings leave the
// corresponding column unchanged.
func (s *Store) UpdateProgram(ctx context.Context, id, title, description, status string) (*Program, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var sets []string
	var args []interface{}
	if title = strings.TrimSpace(title); title != "" {
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if description = strings.TrimSpace(description); description != "" {
		sets = append(sets, "description = ?")
		args = append(args, description)
	}
	if status = strings.TrimSpace(status); status != "" {
		if status != StatusDraft && status != StatusInProgress && status != StatusCompleted {
			return nil, fmt.Errorf("invalid program status %q", status)
		}
		sets = append(sets, "status = ?")
		args = append(args, status)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		args = append(args, id)
		query := "UPDATE programs SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("update program: %w", err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetProgram(ctx, id)
}

// AdvanceProgram moves a program to the given step and status inside one
// transaction. Workflow-level guards run before this is called.
func (s *Store) AdvanceProgram(ctx context.Context, id string, step int, status string) (*Program, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if step < 1 || step > 5 {
		return nil, fmt.Errorf("invalid step %d", step)
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE programs SET current_step = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		step, status, id)
	if err != nil {
		return nil, fmt.Errorf("advance program: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetProgram(ctx, id)
}

// DeleteProgram removes a program; child rows cascade via foreign keys.
func (s *Store) DeleteProgram(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) touchProgram(ctx context.Context, tx *sqlx.Tx, programID string) error {
	var (
		result sql.Result
		err    error
	)
	query := `UPDATE programs SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if tx != nil {
		result, err = tx.ExecContext(ctx, query, programID)
	} else {
		result, err = s.db.ExecContext(ctx, query, programID)
	}
	if err != nil {
		return fmt.Errorf("touch program: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertProblemStatement creates or replaces the single problem statement
// attached to a program.
func (s *Store) UpsertProblemStatement(ctx context.Context, ps ProblemStatement) (*ProblemStatement, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	ps.ChallengeText = strings.TrimSpace(ps.ChallengeText)
	if ps.ProgramID == "" {
		return nil, errors.New("program id required")
	}
	if ps.ChallengeText == "" {
		return nil, errors.New("challenge text required")
	}
	if ps.Theme != "" && !validTheme(ps.Theme) {
		return nil, fmt.Errorf("invalid theme %q", ps.Theme)
	}
	if ps.ID == "" {
		ps.ID = uuid.NewString()
	}
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO problem_statements(id, program_id, challenge_text, refined_text, root_causes, theme, is_completed)
                         VALUES (?, ?, ?, ?, ?, ?, ?)
                         ON CONFLICT(program_id) DO UPDATE SET
                                challenge_text = excluded.challenge_text,
                                refined_text = excluded.refined_text,
                                root_causes = excluded.root_causes,
                                theme = excluded.theme,
                                is_completed = excluded.is_completed,
                                updated_at = CURRENT_TIMESTAMP`,
			ps.ID, ps.ProgramID, ps.ChallengeText, ps.RefinedText, ps.RootCauses, ps.Theme, ps.IsCompleted)
		if err != nil {
			return fmt.Errorf("upsert problem statement: %w", err)
		}
		return s.touchProgram(ctx, tx, ps.ProgramID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetProblemStatement(ctx, ps.ProgramID)
}

// GetProblemStatement fetches the problem statement for a program.
func (s *Store) GetProblemStatement(ctx context.Context, programID string) (*ProblemStatement, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var ps ProblemStatement
	err := s.db.GetContext(ctx, &ps, `SELECT * FROM problem_statements WHERE program_id = ?`, programID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select problem statement: %w", err)
	}
	return &ps, nil
}

func validTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// AddStakeholder inserts a stakeholder for a program.
func (s *Store) AddStakeholder(ctx context.Context, sh Stakeholder) (*Stakeholder, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	sh.Name = strings.TrimSpace(sh.Name)
	sh.Role = strings.TrimSpace(sh.Role)
	if sh.ProgramID == "" {
		return nil, errors.New("program id required")
	}
	if sh.Name == "" || sh.Role == "" {
		return nil, errors.New("stakeholder name and role required")
	}
	if sh.Priority == "" {
		sh.Priority = "medium"
	}
	if sh.Priority != "high" && sh.Priority != "medium" && sh.Priority != "low" {
		return nil, fmt.Errorf("invalid priority %q", sh.Priority)
	}
	sh.ID = uuid.NewString()
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO stakeholders(id, program_id, name, role, engagement_strategy, priority, is_ai_suggested)
                         VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sh.ID, sh.ProgramID, sh.Name, sh.Role, sh.EngagementStrategy, sh.Priority, sh.IsAISuggested)
		if err != nil {
			return fmt.Errorf("insert stakeholder: %w", err)
		}
		return s.touchProgram(ctx, tx, sh.ProgramID)
	})
	if err != nil {
		return nil, err
	}
	return s.getStakeholder(ctx, sh.ID)
}

func (s *Store) getStakeholder(ctx context.Context, id string) (*Stakeholder, error) {
	var sh Stakeholder
	err := s.db.GetContext(ctx, &sh, `SELECT * FROM stakeholders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select stakeholder: %w", err)
	}
	return &sh, nil
}

// ListStakeholders returns a program's stakeholders in insertion order.
func (s *Store) ListStakeholders(ctx context.Context, programID string) ([]Stakeholder, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var out []Stakeholder
	err := s.db.SelectContext(ctx, &out,
		`SELECT * FROM stakeholders WHERE program_id = ? ORDER BY created_at, id`, programID)
	if err != nil {
		return nil, fmt.Errorf("select stakeholders: %w", err)
	}
	return out, nil
}

// UpdateStakeholder patches an existing stakeholder.
func (s *Store) UpdateStakeholder(ctx context.Context, sh Stakeholder) (*Stakeholder, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	current, err := s.getStakeholder(ctx, sh.ID)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(sh.Name); v != "" {
		current.Name = v
	}
	if v := strings.TrimSpace(sh.Role); v != "" {
		current.Role = v
	}
	if v := strings.TrimSpace(sh.EngagementStrategy); v != "" {
		current.EngagementStrategy = v
	}
	if v := strings.TrimSpace(sh.Priority); v != "" {
		if v != "high" && v != "medium" && v != "low" {
			return nil, fmt.Errorf("invalid priority %q", v)
		}
		current.Priority = v
	}
	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE stakeholders SET name = ?, role = ?, engagement_strategy = ?, priority = ?, updated_at = CURRENT_TIMESTAMP
                         WHERE id = ?`,
			current.Name, current.Role, current.EngagementStrategy, current.Priority, current.ID)
		if err != nil {
			return fmt.Errorf("update stakeholder: %w", err)
		}
		return s.touchProgram(ctx, tx, current.ProgramID)
	})
	if err != nil {
		return nil, err
	}
	return s.getStakeholder(ctx, current.ID)
}

// DeleteStakeholder removes a stakeholder by id.
func (s *Store) DeleteStakeholder(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM stakeholders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete stakeholder: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SelectProvenModel attaches a catalog model to a program. Re-selecting the
// same model updates the notes instead of duplicating the row.
func (s *Store) SelectProvenModel(ctx context.Context, programID, modelID, notes string) (*ProgramProvenModel, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if _, err := s.GetProvenModel(ctx, modelID); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO program_proven_models(id, program_id, proven_model_id, notes)
                         VALUES (?, ?, ?, ?)
                         ON CONFLICT(program_id, proven_model_id) DO UPDATE SET notes = excluded.notes`,
			id, programID, modelID, strings.TrimSpace(notes))
		if err != nil {
			return fmt.Errorf("select proven model: %w", err)
		}
		return s.touchProgram(ctx, tx, programID)
	})
	if err != nil {
		return nil, err
	}
	var link ProgramProvenModel
	err = s.db.GetContext(ctx, &link,
		`SELECT * FROM program_proven_models WHERE program_id = ? AND proven_model_id = ?`,
		programID, modelID)
	if err != nil {
		return nil, fmt.Errorf("select program model link: %w", err)
	}
	return &link, nil
}

// UnselectProvenModel detaches a catalog model from a program.
func (s *Store) UnselectProvenModel(ctx context.Context, programID, modelID string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM program_proven_models WHERE program_id = ? AND proven_model_id = ?`,
		programID, modelID)
	if err != nil {
		return fmt.Errorf("unselect proven model: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSelectedModels returns the catalog models a program has adopted.
func (s *Store) ListSelectedModels(ctx context.Context, programID string) ([]SelectedModel, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var links []ProgramProvenModel
	err := s.db.SelectContext(ctx, &links,
		`SELECT * FROM program_proven_models WHERE program_id = ? ORDER BY created_at, id`, programID)
	if err != nil {
		return nil, fmt.Errorf("select program models: %w", err)
	}
	if len(links) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.ProvenModelID)
	}
	query, args, err := sqlx.In(`SELECT * FROM proven_models WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("expand model query: %w", err)
	}
	var models []ProvenModel
	if err := s.db.SelectContext(ctx, &models, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select proven models: %w", err)
	}
	byID := make(map[string]ProvenModel, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}
	out := make([]SelectedModel, 0, len(links))
	for _, link := range links {
		model, ok := byID[link.ProvenModelID]
		if !ok {
			continue
		}
		out = append(out, SelectedModel{Model: model, Notes: link.Notes})
	}
	return out, nil
}

// AddOutcome inserts an outcome for a program.
func (s *Store) AddOutcome(ctx context.Context, o Outcome) (*Outcome, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	o.Description = strings.TrimSpace(o.Description)
	if o.ProgramID == "" {
		return nil, errors.New("program id required")
	}
	if o.Description == "" {
		return nil, errors.New("outcome description required")
	}
	o.ID = uuid.NewString()
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes(id, program_id, description, theme, timeframe) VALUES (?, ?, ?, ?, ?)`,
			o.ID, o.ProgramID, o.Description, o.Theme, o.Timeframe)
		if err != nil {
			return fmt.Errorf("insert outcome: %w", err)
		}
		return s.touchProgram(ctx, tx, o.ProgramID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOutcome(ctx, o.ID)
}

// GetOutcome fetches a single outcome by id.
func (s *Store) GetOutcome(ctx context.Context, id string) (*Outcome, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var o Outcome
	err := s.db.GetContext(ctx, &o, `SELECT * FROM outcomes WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select outcome: %w", err)
	}
	return &o, nil
}

// ListOutcomes returns a program's outcomes in insertion order.
func (s *Store) ListOutcomes(ctx context.Context, programID string) ([]Outcome, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var out []Outcome
	err := s.db.SelectContext(ctx, &out,
		`SELECT * FROM outcomes WHERE program_id = ? ORDER BY created_at, id`, programID)
	if err != nil {
		return nil, fmt.Errorf("select outcomes: %w", err)
	}
	return out, nil
}

// UpdateOutcome patches an existing outcome.
func (s *Store) UpdateOutcome(ctx context.Context, o Outcome) (*Outcome, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	current, err := s.GetOutcome(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(o.Description); v != "" {
		current.Description = v
	}
	if v := strings.TrimSpace(o.Theme); v != "" {
		current.Theme = v
	}
	if v := strings.TrimSpace(o.Timeframe); v != "" {
		current.Timeframe = v
	}
	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE outcomes SET description = ?, theme = ?, timeframe = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			current.Description, current.Theme, current.Timeframe, current.ID)
		if err != nil {
			return fmt.Errorf("update outcome: %w", err)
		}
		return s.touchProgram(ctx, tx, current.ProgramID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOutcome(ctx, current.ID)
}

// DeleteOutcome removes an outcome; its indicators cascade.
func (s *Store) DeleteOutcome(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM outcomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete outcome: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddIndicator inserts an indicator under an outcome.
func (s *Store) AddIndicator(ctx context.Context, ind Indicator) (*Indicator, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	ind.Description = strings.TrimSpace(ind.Description)
	if ind.OutcomeID == "" {
		return nil, errors.New("outcome id required")
	}
	if ind.Description == "" {
		return nil, errors.New("indicator description required")
	}
	if ind.Type == "" {
		ind.Type = "outcome"
	}
	if ind.Type != "outcome" && ind.Type != "output" {
		return nil, fmt.Errorf("invalid indicator type %q", ind.Type)
	}
	outcome, err := s.GetOutcome(ctx, ind.OutcomeID)
	if err != nil {
		return nil, err
	}
	ind.ID = uuid.NewString()
	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO indicators(id, outcome_id, type, description, measurement_method, target_value, baseline_value, frequency, data_source, is_ai_generated)
                         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ind.ID, ind.OutcomeID, ind.Type, ind.Description, ind.MeasurementMethod,
			ind.TargetValue, ind.BaselineValue, ind.Frequency, ind.DataSource, ind.IsAIGenerated)
		if err != nil {
			return fmt.Errorf("insert indicator: %w", err)
		}
		return s.touchProgram(ctx, tx, outcome.ProgramID)
	})
	if err != nil {
		return nil, err
	}
	return s.getIndicator(ctx, ind.ID)
}

func (s *Store) getIndicator(ctx context.Context, id string) (*Indicator, error) {
	var ind Indicator
	err := s.db.GetContext(ctx, &ind, `SELECT * FROM indicators WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select indicator: %w", err)
	}
	return &ind, nil
}

// ListIndicators returns an outcome's indicators in insertion order.
func (s *Store) ListIndicators(ctx context.Context, outcomeID string) ([]Indicator, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var out []Indicator
	err := s.db.SelectContext(ctx, &out,
		`SELECT * FROM indicators WHERE outcome_id = ? ORDER BY created_at, id`, outcomeID)
	if err != nil {
		return nil, fmt.Errorf("select indicators: %w", err)
	}
	return out, nil
}

// UpdateIndicator patches an existing indicator.
func (s *Store) UpdateIndicator(ctx context.Context, ind Indicator) (*Indicator, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	current, err := s.getIndicator(ctx, ind.ID)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(ind.Description); v != "" {
		current.Description = v
	}
	if v := strings.TrimSpace(ind.Type); v != "" {
		if v != "outcome" && v != "output" {
			return nil, fmt.Errorf("invalid indicator type %q", v)
		}
		current.Type = v
	}
	if v := strings.TrimSpace(ind.MeasurementMethod); v != "" {
		current.MeasurementMethod = v
	}
	if v := strings.TrimSpace(ind.TargetValue); v != "" {
		current.TargetValue = v
	}
	if v := strings.TrimSpace(ind.BaselineValue); v != "" {
		current.BaselineValue = v
	}
	if v := strings.TrimSpace(ind.Frequency); v != "" {
		current.Frequency = v
	}
	if v := strings.TrimSpace(ind.DataSource); v != "" {
		current.DataSource = v
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE indicators SET type = ?, description = ?, measurement_method = ?, target_value = ?, baseline_value = ?, frequency = ?, data_source = ?, updated_at = CURRENT_TIMESTAMP
                 WHERE id = ?`,
		current.Type, current.Description, current.MeasurementMethod, current.TargetValue,
		current.BaselineValue, current.Frequency, current.DataSource, current.ID)
	if err != nil {
		return nil, fmt.Errorf("update indicator: %w", err)
	}
	return s.getIndicator(ctx, current.ID)
}

// DeleteIndicator removes an indicator by id.
func (s *Store) DeleteIndicator(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM indicators WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete indicator: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// StepCounts carries the per-step completion evidence used by the workflow
// gates.
type StepCounts struct {
	ProblemCompleted bool
	Stakeholders     int
	SelectedModels   int
	Outcomes         int
	Indicators       int
	Documents        int
}

// CountStepArtifacts gathers the row counts the workflow gates check before a
// step is allowed to complete.
func (s *Store) CountStepArtifacts(ctx context.Context, programID string) (StepCounts, error) {
	var counts StepCounts
	if err := s.ensureReady(); err != nil {
		return counts, err
	}
	var completed sql.NullBool
	err := s.db.GetContext(ctx, &completed,
		`SELECT is_completed FROM problem_statements WHERE program_id = ?`, programID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return counts, fmt.Errorf("count problem statement: %w", err)
	}
	counts.ProblemCompleted = completed.Valid && completed.Bool

	queries := []struct {
		dst   *int
		query string
	}{
		{&counts.Stakeholders, `SELECT COUNT(*) FROM stakeholders WHERE program_id = ?`},
		{&counts.SelectedModels, `SELECT COUNT(*) FROM program_proven_models WHERE program_id = ?`},
		{&counts.Outcomes, `SELECT COUNT(*) FROM outcomes WHERE program_id = ?`},
		{&counts.Indicators, `SELECT COUNT(*) FROM indicators WHERE outcome_id IN (SELECT id FROM outcomes WHERE program_id = ?)`},
		{&counts.Documents, `SELECT COUNT(*) FROM generated_documents WHERE program_id = ?`},
	}
	for _, q := range queries {
		if err := s.db.GetContext(ctx, q.dst, q.query, programID); err != nil {
			return counts, fmt.Errorf("count step artifacts: %w", err)
		}
	}
	return counts, nil
}

// RecordDocument logs a generated export for a program.
func (s *Store) RecordDocument(ctx context.Context, programID, documentType, fileName string) (*GeneratedDocument, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generated_documents(id, program_id, document_type, file_name) VALUES (?, ?, ?, ?)`,
		id, programID, documentType, fileName)
	if err != nil {
		return nil, fmt.Errorf("insert generated document: %w", err)
	}
	var doc GeneratedDocument
	if err := s.db.GetContext(ctx, &doc, `SELECT * FROM generated_documents WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("select generated document: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns a program's export history, newest first.
func (s *Store) ListDocuments(ctx context.Context, programID string) ([]GeneratedDocument, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var out []GeneratedDocument
	err := s.db.SelectContext(ctx, &out,
		`SELECT * FROM generated_documents WHERE program_id = ? ORDER BY generated_at DESC, id`, programID)
	if err != nil {
		return nil, fmt.Errorf("select generated documents: %w", err)
	}
	return out, nil
}

// FullRecord assembles the complete design record for review and export.
func (s *Store) FullRecord(ctx context.Context, programID string) (*ProgramRecord, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	program, err := s.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	record := &ProgramRecord{Program: *program}

	if ps, err := s.GetProblemStatement(ctx, programID); err == nil {
		record.ProblemStatement = ps
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if record.Stakeholders, err = s.ListStakeholders(ctx, programID); err != nil {
		return nil, err
	}
	if record.SelectedModels, err = s.ListSelectedModels(ctx, programID); err != nil {
		return nil, err
	}
	outcomes, err := s.ListOutcomes(ctx, programID)
	if err != nil {
		return nil, err
	}
	for _, outcome := range outcomes {
		indicators, err := s.ListIndicators(ctx, outcome.ID)
		if err != nil {
			return nil, err
		}
		record.Outcomes = append(record.Outcomes, OutcomeRecord{Outcome: outcome, Indicators: indicators})
	}
	if record.Documents, err = s.ListDocuments(ctx, programID); err != nil {
		return nil, err
	}
	return record, nil
}
