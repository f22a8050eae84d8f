// File path: internal/workflow/workflow.go
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/logicforge/logicforge/internal/common"
	"github.com/logicforge/logicforge/internal/gamification"
	"github.com/logicforge/logicforge/internal/store"
)

// The five steps of the guided design journey.
const (
	StepProblem      = 1
	StepStakeholders = 2
	StepModels       = 3
	StepOutcomes     = 4
	StepReview       = 5
)

var stepNames = map[int]string{
	StepProblem:      "Define the Problem",
	StepStakeholders: "Map Stakeholders",
	StepModels:       "Explore Proven Models",
	StepOutcomes:     "Set Outcomes and Indicators",
	StepReview:       "Review and Export",
}

// StepName returns the display name for a step number.
func StepName(step int) string {
	if name, ok := stepNames[step]; ok {
		return name
	}
	return fmt.Sprintf("Step %d", step)
}

var (
	// ErrStepOutOfOrder is returned when a completion request targets a step
	// other than the program's current one.
	ErrStepOutOfOrder = errors.New("step out of order")
	// ErrStepIncomplete is returned when the step's required artifacts are
	// missing.
	ErrStepIncomplete = errors.New("step requirements not met")
	// ErrStepRequiresExport is returned for step five, which only completes
	// through document generation.
	ErrStepRequiresExport = errors.New("final step completes via document export")
)

// Manager drives programs through the step sequence and hands out the
// matching gamification rewards.
type Manager struct {
	store *store.Store
	game  *gamification.Service
}

// NewManager constructs a workflow manager.
func NewManager(st *store.Store, game *gamification.Service) *Manager {
	return &Manager{store: st, game: game}
}

// StepResult reports the outcome of a step completion.
type StepResult struct {
	Program     *store.Program            `json:"program"`
	Step        int                       `json:"step"`
	StepName    string                    `json:"step_name"`
	XP          *gamification.AwardResult `json:"xp,omitempty"`
	Badge       *store.Badge              `json:"badge,omitempty"`
	BadgeEarned bool                      `json:"badge_earned"`
}

// CompleteStep validates the step gate, advances the program and awards XP,
// the step badge and streak credit. Step five is rejected here; it completes
// through RecordExport.
func (m *Manager) CompleteStep(ctx context.Context, programID, userID string, step int) (*StepResult, error) {
	if step < StepProblem || step > StepReview {
		return nil, fmt.Errorf("%w: step %d does not exist", ErrStepOutOfOrder, step)
	}
	if step == StepReview {
		return nil, ErrStepRequiresExport
	}
	program, err := m.store.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program.CurrentStep != step {
		return nil, fmt.Errorf("%w: program is on step %d, not %d", ErrStepOutOfOrder, program.CurrentStep, step)
	}
	if err := m.checkGate(ctx, programID, step); err != nil {
		return nil, err
	}

	program, err = m.store.AdvanceProgram(ctx, programID, step+1, store.StatusInProgress)
	if err != nil {
		return nil, err
	}
	result := &StepResult{Program: program, Step: step, StepName: StepName(step)}
	m.reward(ctx, result, userID, programID, step)
	common.Logger().Info("workflow: step completed", "program", programID, "step", step, "next", program.CurrentStep)
	return result, nil
}

// RecordExport logs a generated document and, when the program has reached
// the final step, marks the whole journey complete with its rewards.
func (m *Manager) RecordExport(ctx context.Context, programID, userID, documentType, fileName string) (*StepResult, *store.GeneratedDocument, error) {
	program, err := m.store.GetProgram(ctx, programID)
	if err != nil {
		return nil, nil, err
	}
	doc, err := m.store.RecordDocument(ctx, programID, documentType, fileName)
	if err != nil {
		return nil, nil, err
	}
	if program.CurrentStep != StepReview || program.Status == store.StatusCompleted {
		return nil, doc, nil
	}
	program, err = m.store.AdvanceProgram(ctx, programID, StepReview, store.StatusCompleted)
	if err != nil {
		return nil, doc, err
	}
	result := &StepResult{Program: program, Step: StepReview, StepName: StepName(StepReview)}
	m.reward(ctx, result, userID, programID, StepReview)
	common.Logger().Info("workflow: program completed", "program", programID, "document", documentType)
	return result, doc, nil
}

func (m *Manager) checkGate(ctx context.Context, programID string, step int) error {
	counts, err := m.store.CountStepArtifacts(ctx, programID)
	if err != nil {
		return err
	}
	switch step {
	case StepProblem:
		if !counts.ProblemCompleted {
			return fmt.Errorf("%w: completed problem statement required", ErrStepIncomplete)
		}
	case StepStakeholders:
		if counts.Stakeholders == 0 {
			return fmt.Errorf("%w: at least one stakeholder required", ErrStepIncomplete)
		}
	case StepModels:
		// Browsing the catalog is enough; selecting a model is optional.
	case StepOutcomes:
		if counts.Outcomes == 0 {
			return fmt.Errorf("%w: at least one outcome required", ErrStepIncomplete)
		}
	}
	return nil
}

func (m *Manager) reward(ctx context.Context, result *StepResult, userID, programID string, step int) {
	logger := common.Logger()
	action := fmt.Sprintf("complete_step_%d", step)
	if xp, err := m.game.Award(ctx, userID, programID, action); err == nil {
		result.XP = xp
	} else {
		logger.Warn("workflow: xp award failed", "action", action, "error", err)
	}
	if badge, earned, err := m.game.AwardStepBadge(ctx, userID, programID, step); err == nil {
		result.Badge = badge
		result.BadgeEarned = earned
	} else {
		logger.Warn("workflow: badge award failed", "step", step, "error", err)
	}
	if _, err := m.game.TouchStreak(ctx, userID); err != nil {
		logger.Warn("workflow: streak update failed", "user", userID, "error", err)
	}
}
