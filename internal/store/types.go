// File path: internal/store/types.go
package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Program lifecycle states.
const (
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Problem statement themes accepted by the schema CHECK constraint.
var Themes = []string{"FLN", "Career Readiness", "STEM", "Life Skills", "Other"}

// StringList is a []string persisted as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return string(data), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(l))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(l))
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}
}

// Vector is an embedding persisted as a JSON array of float32.
type Vector []float32

func (v Vector) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]float32(v))
	if err != nil {
		return nil, fmt.Errorf("marshal vector: %w", err)
	}
	return string(data), nil
}

func (v *Vector) Scan(src interface{}) error {
	switch val := src.(type) {
	case nil:
		*v = nil
		return nil
	case []byte:
		return json.Unmarshal(val, (*[]float32)(v))
	case string:
		return json.Unmarshal([]byte(val), (*[]float32)(v))
	default:
		return fmt.Errorf("scan vector: unsupported type %T", src)
	}
}

// JSONMap is a free-form object column (version snapshots).
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]interface{}(m))
	if err != nil {
		return nil, fmt.Errorf("marshal json map: %w", err)
	}
	return string(data), nil
}

func (m *JSONMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*map[string]interface{})(m))
	case string:
		return json.Unmarshal([]byte(v), (*map[string]interface{})(m))
	default:
		return fmt.Errorf("scan json map: unsupported type %T", src)
	}
}

type Organization struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Region    string    `db:"region" json:"region,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type User struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	FullName       string    `db:"full_name" json:"full_name,omitempty"`
	Role           string    `db:"role" json:"role"`
	OrganizationID *string   `db:"organization_id" json:"organization_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type Program struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description,omitempty"`
	Status      string    `db:"status" json:"status"`
	CurrentStep int       `db:"current_step" json:"current_step"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type ProblemStatement struct {
	ID            string     `db:"id" json:"id"`
	ProgramID     string     `db:"program_id" json:"program_id"`
	ChallengeText string     `db:"challenge_text" json:"challenge_text"`
	RefinedText   string     `db:"refined_text" json:"refined_text,omitempty"`
	RootCauses    StringList `db:"root_causes" json:"root_causes"`
	Theme         string     `db:"theme" json:"theme,omitempty"`
	IsCompleted   bool       `db:"is_completed" json:"is_completed"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

type Stakeholder struct {
	ID                 string    `db:"id" json:"id"`
	ProgramID          string    `db:"program_id" json:"program_id"`
	Name               string    `db:"name" json:"name"`
	Role               string    `db:"role" json:"role"`
	EngagementStrategy string    `db:"engagement_strategy" json:"engagement_strategy,omitempty"`
	Priority           string    `db:"priority" json:"priority"`
	IsAISuggested      bool      `db:"is_ai_suggested" json:"is_ai_suggested"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type ProvenModel struct {
	ID                  string     `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	Description         string     `db:"description" json:"description"`
	ImplementationGuide string     `db:"implementation_guide" json:"implementation_guide,omitempty"`
	EvidenceBase        string     `db:"evidence_base" json:"evidence_base,omitempty"`
	Themes              StringList `db:"themes" json:"themes"`
	TargetOutcomes      StringList `db:"target_outcomes" json:"target_outcomes"`
	SourceURL           string     `db:"source_url" json:"source_url,omitempty"`
	Embedding           Vector     `db:"embedding" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

type ProgramProvenModel struct {
	ID            string    `db:"id" json:"id"`
	ProgramID     string    `db:"program_id" json:"program_id"`
	ProvenModelID string    `db:"proven_model_id" json:"proven_model_id"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Outcome struct {
	ID          string    `db:"id" json:"id"`
	ProgramID   string    `db:"program_id" json:"program_id"`
	Description string    `db:"description" json:"description"`
	Theme       string    `db:"theme" json:"theme,omitempty"`
	Timeframe   string    `db:"timeframe" json:"timeframe,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Indicator struct {
	ID                string    `db:"id" json:"id"`
	OutcomeID         string    `db:"outcome_id" json:"outcome_id"`
	Type              string    `db:"type" json:"type"`
	Description       string    `db:"description" json:"description"`
	MeasurementMethod string    `db:"measurement_method" json:"measurement_method,omitempty"`
	TargetValue       string    `db:"target_value" json:"target_value,omitempty"`
	BaselineValue     string    `db:"baseline_value" json:"baseline_value,omitempty"`
	Frequency         string    `db:"frequency" json:"frequency,omitempty"`
	DataSource        string    `db:"data_source" json:"data_source,omitempty"`
	IsAIGenerated     bool      `db:"is_ai_generated" json:"is_ai_generated"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

type GeneratedDocument struct {
	ID           string    `db:"id" json:"id"`
	ProgramID    string    `db:"program_id" json:"program_id"`
	DocumentType string    `db:"document_type" json:"document_type"`
	FileName     string    `db:"file_name" json:"file_name"`
	GeneratedAt  time.Time `db:"generated_at" json:"generated_at"`
}

type Badge struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Icon        string    `db:"icon" json:"icon,omitempty"`
	StepNumber  int       `db:"step_number" json:"step_number"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type UserBadge struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	BadgeID   string    `db:"badge_id" json:"badge_id"`
	ProgramID string    `db:"program_id" json:"program_id"`
	EarnedAt  time.Time `db:"earned_at" json:"earned_at"`
}

type XPEntry struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	ProgramID *string   `db:"program_id" json:"program_id,omitempty"`
	Action    string    `db:"action" json:"action"`
	Points    int       `db:"points" json:"points"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Streak struct {
	UserID        string    `db:"user_id" json:"user_id"`
	CurrentStreak int       `db:"current_streak" json:"current_streak"`
	LongestStreak int       `db:"longest_streak" json:"longest_streak"`
	LastActivity  string    `db:"last_activity" json:"last_activity"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Comment struct {
	ID         string    `db:"id" json:"id"`
	ProgramID  string    `db:"program_id" json:"program_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	UserName   string    `db:"user_name" json:"user_name"`
	Content    string    `db:"content" json:"content"`
	Section    string    `db:"section" json:"section,omitempty"`
	IsResolved bool      `db:"is_resolved" json:"is_resolved"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type ProgramVersion struct {
	ID            string    `db:"id" json:"id"`
	ProgramID     string    `db:"program_id" json:"program_id"`
	UserID        string    `db:"user_id" json:"user_id"`
	UserName      string    `db:"user_name" json:"user_name"`
	Description   string    `db:"description" json:"description"`
	Changes       JSONMap   `db:"changes" json:"changes,omitempty"`
	VersionNumber int       `db:"version_number" json:"version_number"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Activity struct {
	ID                 string    `db:"id" json:"id"`
	ProgramID          string    `db:"program_id" json:"program_id"`
	OutcomeID          *string   `db:"outcome_id" json:"outcome_id,omitempty"`
	Title              string    `db:"title" json:"title"`
	Description        string    `db:"description" json:"description,omitempty"`
	StartDate          string    `db:"start_date" json:"start_date"`
	EndDate            string    `db:"end_date" json:"end_date"`
	Status             string    `db:"status" json:"status"`
	ResponsiblePerson  string    `db:"responsible_person" json:"responsible_person,omitempty"`
	ResourcesNeeded    string    `db:"resources_needed" json:"resources_needed,omitempty"`
	ProgressPercentage int       `db:"progress_percentage" json:"progress_percentage"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
