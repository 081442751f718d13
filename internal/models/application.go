package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// QuestionTypeObjective marks a multiple-choice answer scored by option index.
	QuestionTypeObjective = "objective"
	// QuestionTypeSubjective marks a free-text answer.
	QuestionTypeSubjective = "subjective"
	// QuestionTypeCoding marks a source-code answer with a declared language.
	QuestionTypeCoding = "coding"
)

const (
	EventTabSwitch = "tab_switch"
	EventCopy      = "copy"
	EventPaste     = "paste"
	EventFocusLoss = "focus_loss"
)

// Application groups all answers and behavioral context for one
// candidate-assessment attempt.
type Application struct {
	ID          string            `gorm:"primaryKey;size:64" json:"id"`
	JobID       string            `gorm:"size:64;index;not null" json:"job_id"`
	CandidateID string            `gorm:"size:64;not null" json:"candidate_id"`
	Answers     []Answer          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"answers"`
	Events      []BehavioralEvent `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"events"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Answer is one candidate's answer to one question. The payload is a tagged
// variant keyed by QuestionType: SelectedOption/Correct for objective answers,
// Text for subjective, Code+Language for coding.
type Answer struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ApplicationID    string    `gorm:"size:64;index;not null" json:"application_id"`
	QuestionID       string    `gorm:"size:64;not null" json:"question_id"`
	QuestionType     string    `gorm:"size:16;not null" json:"question_type"`
	SelectedOption   *int      `json:"selected_option,omitempty"`
	Correct          bool      `json:"correct"`
	Text             string    `gorm:"type:text" json:"text,omitempty"`
	Code             string    `gorm:"type:text" json:"code,omitempty"`
	Language         string    `gorm:"size:32" json:"language,omitempty"`
	TimeSpentSeconds *float64  `json:"time_spent_seconds,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// TextContent returns the free-form content associated with the answer and
// whether the answer carries any. Objective answers never do.
func (a Answer) TextContent() (string, bool) {
	switch a.QuestionType {
	case QuestionTypeSubjective:
		return a.Text, a.Text != ""
	case QuestionTypeCoding:
		return a.Code, a.Code != ""
	default:
		return "", false
	}
}

// HasKnownDuration reports whether the answer carries a usable measured
// duration. Zero or missing durations are "unknown" and excluded from timing
// statistics, never imputed.
func (a Answer) HasKnownDuration() bool {
	return a.TimeSpentSeconds != nil && *a.TimeSpentSeconds > 0
}

// BehavioralEvent is one passively collected proctoring signal.
type BehavioralEvent struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	ApplicationID string            `gorm:"size:64;index;not null" json:"application_id"`
	Type          string            `gorm:"size:32;not null" json:"type"`
	OccurredAt    time.Time         `json:"occurred_at"`
	Severity      string            `gorm:"size:16" json:"severity"`
	Metadata      datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
}
