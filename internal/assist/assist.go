// File path: internal/assist/assist.go
package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/logicforge/logicforge/internal/common"
	"github.com/logicforge/logicforge/internal/llm"
)

// Service wraps the language model with the three guided-design assists:
// problem refinement, stakeholder suggestion and indicator generation. Every
// call degrades to curated demo content when the model is unreachable, so the
// design flow never blocks on an external API.
type Service struct {
	provider llm.Provider
}

// NewService constructs an assist service on top of the given provider.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// RefinedProblem is the structured result of problem refinement.
type RefinedProblem struct {
	RefinedText    string   `json:"refined_text"`
	RootCauses     []string `json:"root_causes"`
	SuggestedTheme string   `json:"suggested_theme"`
	DemoMode       bool     `json:"demo_mode,omitempty"`
}

// SuggestedStakeholder is one model-proposed stakeholder.
type SuggestedStakeholder struct {
	Name               string `json:"name"`
	Role               string `json:"role"`
	EngagementStrategy string `json:"engagement_strategy"`
	Priority           string `json:"priority"`
}

// StakeholderSuggestions is the structured result of stakeholder suggestion.
type StakeholderSuggestions struct {
	Stakeholders []SuggestedStakeholder `json:"stakeholders"`
	DemoMode     bool                   `json:"demo_mode,omitempty"`
}

// GeneratedIndicator is one model-proposed SMART indicator.
type GeneratedIndicator struct {
	Type              string `json:"type"`
	Description       string `json:"description"`
	MeasurementMethod string `json:"measurement_method"`
	TargetValue       string `json:"target_value"`
	Frequency         string `json:"frequency"`
	DataSource        string `json:"data_source"`
}

// IndicatorSuggestions is the structured result of indicator generation.
type IndicatorSuggestions struct {
	Indicators []GeneratedIndicator `json:"indicators"`
	DemoMode   bool                 `json:"demo_mode,omitempty"`
}

// RefineProblem restructures a vague challenge statement into a root cause
// analysis with a suggested theme.
func (s *Service) RefineProblem(ctx context.Context, challengeText string) (*RefinedProblem, error) {
	challengeText = strings.TrimSpace(challengeText)
	if challengeText == "" {
		return nil, fmt.Errorf("challenge text required")
	}
	raw, err := s.chat(ctx, refineProblemPrompt, "Challenge Statement: "+challengeText)
	if err != nil {
		common.Logger().Warn("assist: refine falling back to demo content", "error", err)
		return demoRefinedProblem(challengeText), nil
	}
	var result RefinedProblem
	if err := decodeModelJSON(raw, &result); err != nil {
		common.Logger().Warn("assist: refine response unparseable, using demo content", "error", err)
		return demoRefinedProblem(challengeText), nil
	}
	if result.RefinedText == "" {
		return demoRefinedProblem(challengeText), nil
	}
	return &result, nil
}

// SuggestStakeholders proposes stakeholder groups for a problem statement.
func (s *Service) SuggestStakeholders(ctx context.Context, problemStatement, theme string) (*StakeholderSuggestions, error) {
	problemStatement = strings.TrimSpace(problemStatement)
	if problemStatement == "" {
		return nil, fmt.Errorf("problem statement required")
	}
	userPrompt := "Problem Statement: " + problemStatement
	if theme = strings.TrimSpace(theme); theme != "" {
		userPrompt += "\nTheme: " + theme
	}
	raw, err := s.chat(ctx, suggestStakeholdersPrompt, userPrompt)
	if err != nil {
		common.Logger().Warn("assist: stakeholder suggestion falling back to demo content", "error", err)
		return demoStakeholders(), nil
	}
	var result StakeholderSuggestions
	if err := decodeModelJSON(raw, &result); err != nil {
		common.Logger().Warn("assist: stakeholder response unparseable, using demo content", "error", err)
		return demoStakeholders(), nil
	}
	if len(result.Stakeholders) == 0 {
		return demoStakeholders(), nil
	}
	for i := range result.Stakeholders {
		if !validPriority(result.Stakeholders[i].Priority) {
			result.Stakeholders[i].Priority = "medium"
		}
	}
	return &result, nil
}

// GenerateIndicators proposes SMART outcome and output indicators.
func (s *Service) GenerateIndicators(ctx context.Context, outcomeDescription, theme string) (*IndicatorSuggestions, error) {
	outcomeDescription = strings.TrimSpace(outcomeDescription)
	if outcomeDescription == "" {
		return nil, fmt.Errorf("outcome description required")
	}
	userPrompt := "Outcome: " + outcomeDescription + "\nTheme: " + strings.TrimSpace(theme)
	raw, err := s.chat(ctx, generateIndicatorsPrompt, userPrompt)
	if err != nil {
		common.Logger().Warn("assist: indicator generation falling back to demo content", "error", err)
		return demoIndicators(), nil
	}
	var result IndicatorSuggestions
	if err := decodeModelJSON(raw, &result); err != nil {
		common.Logger().Warn("assist: indicator response unparseable, using demo content", "error", err)
		return demoIndicators(), nil
	}
	if len(result.Indicators) == 0 {
		return demoIndicators(), nil
	}
	for i := range result.Indicators {
		if result.Indicators[i].Type != "outcome" && result.Indicators[i].Type != "output" {
			result.Indicators[i].Type = "outcome"
		}
	}
	return &result, nil
}

func (s *Service) chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	})
}

// decodeModelJSON strips markdown code fences before unmarshalling. Models
// often wrap JSON responses in ```json blocks despite instructions.
func decodeModelJSON(raw string, dst interface{}) error {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}

func validPriority(p string) bool {
	return p == "high" || p == "medium" || p == "low"
}

func demoRefinedProblem(challengeText string) *RefinedProblem {
	return &RefinedProblem{
		RefinedText: "[DEMO MODE] " + challengeText + "\n\nThis is a demonstration response. The AI API quota has been exceeded. " +
			"The refined problem statement would normally analyze and restructure the challenge for clarity.",
		RootCauses: []string{
			"Limited resources for educational interventions",
			"Lack of trained teachers in target areas",
			"Insufficient parental engagement in learning",
			"Absence of structured learning materials",
		},
		SuggestedTheme: "FLN",
		DemoMode:       true,
	}
}

func demoStakeholders() *StakeholderSuggestions {
	return &StakeholderSuggestions{
		Stakeholders: []SuggestedStakeholder{
			{Name: "Primary School Teachers", Role: "Program implementers", EngagementStrategy: "Training workshops and ongoing support", Priority: "high"},
			{Name: "Parents/Caregivers", Role: "Home support partners", EngagementStrategy: "Parent meetings and take-home materials", Priority: "high"},
			{Name: "School Principals", Role: "Administrative oversight", EngagementStrategy: "Monthly review meetings", Priority: "medium"},
			{Name: "District Education Officer", Role: "Government liaison", EngagementStrategy: "Quarterly progress reports", Priority: "low"},
		},
		DemoMode: true,
	}
}

func demoIndicators() *IndicatorSuggestions {
	return &IndicatorSuggestions{
		Indicators: []GeneratedIndicator{
			{Type: "outcome", Description: "Percentage of students achieving grade-level reading proficiency", MeasurementMethod: "Standardized reading assessment (ASER/NIPUN tools)", TargetValue: "75% of students achieve benchmark", Frequency: "Quarterly", DataSource: "Student assessments"},
			{Type: "outcome", Description: "Improvement in comprehension scores from baseline", MeasurementMethod: "Pre-post comprehension tests", TargetValue: "30% improvement from baseline", Frequency: "Bi-annually", DataSource: "Test scores"},
			{Type: "output", Description: "Number of remedial sessions conducted per week", MeasurementMethod: "Session attendance logs", TargetValue: "5 sessions per week per group", Frequency: "Weekly", DataSource: "Teacher logs"},
			{Type: "output", Description: "Number of teachers trained in intervention methodology", MeasurementMethod: "Training completion records", TargetValue: "100% of target teachers", Frequency: "Once at start", DataSource: "Training records"},
		},
		DemoMode: true,
	}
}
