// File path: internal/store/seed_program.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SeededOutcome pairs an outcome with the indicators created alongside it.
type SeededOutcome struct {
	Outcome    Outcome
	Indicators []Indicator
}

// ProgramSeed is the full pre-filled design used when instantiating a
// template: the program plus its problem statement, stakeholders, outcomes
// and indicators.
type ProgramSeed struct {
	UserID       string
	Title        string
	Description  string
	Problem      ProblemStatement
	Stakeholders []Stakeholder
	Outcomes     []SeededOutcome
}

// InstantiateProgram creates a program with all its seeded artifacts in one
// transaction, so a failed template leaves nothing behind.
func (s *Store) InstantiateProgram(ctx context.Context, seed ProgramSeed) (*Program, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	seed.UserID = strings.TrimSpace(seed.UserID)
	seed.Title = strings.TrimSpace(seed.Title)
	if seed.UserID == "" {
		return nil, errors.New("user id required")
	}
	if seed.Title == "" {
		return nil, errors.New("program title required")
	}
	programID := uuid.NewString()
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO programs(id, user_id, title, description) VALUES (?, ?, ?, ?)`,
			programID, seed.UserID, seed.Title, strings.TrimSpace(seed.Description)); err != nil {
			return fmt.Errorf("insert program: %w", err)
		}
		if strings.TrimSpace(seed.Problem.ChallengeText) != "" {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO problem_statements(id, program_id, challenge_text, refined_text, root_causes, theme, is_completed)
                                 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), programID, seed.Problem.ChallengeText, seed.Problem.RefinedText,
				seed.Problem.RootCauses, seed.Problem.Theme, seed.Problem.IsCompleted); err != nil {
				return fmt.Errorf("insert problem statement: %w", err)
			}
		}
		for _, sh := range seed.Stakeholders {
			priority := sh.Priority
			if priority == "" {
				priority = "medium"
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO stakeholders(id, program_id, name, role, engagement_strategy, priority, is_ai_suggested)
                                 VALUES (?, ?, ?, ?, ?, ?, 0)`,
				uuid.NewString(), programID, sh.Name, sh.Role, sh.EngagementStrategy, priority); err != nil {
				return fmt.Errorf("insert stakeholder: %w", err)
			}
		}
		for _, entry := range seed.Outcomes {
			outcomeID := uuid.NewString()
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO outcomes(id, program_id, description, theme, timeframe) VALUES (?, ?, ?, ?, ?)`,
				outcomeID, programID, entry.Outcome.Description, entry.Outcome.Theme, entry.Outcome.Timeframe); err != nil {
				return fmt.Errorf("insert outcome: %w", err)
			}
			for _, ind := range entry.Indicators {
				indType := ind.Type
				if indType == "" {
					indType = "outcome"
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO indicators(id, outcome_id, type, description, measurement_method, target_value, baseline_value, frequency, data_source, is_ai_generated)
                                         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
					uuid.NewString(), outcomeID, indType, ind.Description, ind.MeasurementMethod,
					ind.TargetValue, ind.BaselineValue, ind.Frequency, ind.DataSource); err != nil {
					return fmt.Errorf("insert indicator: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProgram(ctx, programID)
}
