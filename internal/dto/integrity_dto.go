package dto

import (
	"time"

	"github.com/proctorly/integrity-api/internal/models"
)

// AnswerPayload is one inline answer in an analysis request.
type AnswerPayload struct {
	QuestionID       string   `json:"question_id" validate:"required"`
	QuestionType     string   `json:"question_type" validate:"required,oneof=objective subjective coding"`
	SelectedOption   *int     `json:"selected_option,omitempty" validate:"omitempty,gte=0"`
	Correct          bool     `json:"correct"`
	Text             string   `json:"text,omitempty"`
	Code             string   `json:"code,omitempty"`
	Language         string   `json:"language,omitempty"`
	TimeSpentSeconds *float64 `json:"time_spent_seconds,omitempty" validate:"omitempty,gte=0"`
}

// EventPayload is one inline behavioral event in an analysis request.
type EventPayload struct {
	Type       string    `json:"type" validate:"required,oneof=tab_switch copy paste focus_loss"`
	OccurredAt time.Time `json:"occurred_at"`
	Severity   string    `json:"severity,omitempty" validate:"omitempty,oneof=low medium high"`
}

// AnalyzeRequest carries a complete application record for inline analysis.
type AnalyzeRequest struct {
	ApplicationID string          `json:"application_id"`
	JobID         string          `json:"job_id"`
	CandidateID   string          `json:"candidate_id"`
	Answers       []AnswerPayload `json:"answers" validate:"required,min=1,dive"`
	Events        []EventPayload  `json:"events" validate:"omitempty,dive"`
}

// ToModel converts the request into the engine's application record.
func (r AnalyzeRequest) ToModel() models.Application {
	application := models.Application{
		ID:          r.ApplicationID,
		JobID:       r.JobID,
		CandidateID: r.CandidateID,
	}

	for _, answer := range r.Answers {
		application.Answers = append(application.Answers, models.Answer{
			QuestionID:       answer.QuestionID,
			QuestionType:     answer.QuestionType,
			SelectedOption:   answer.SelectedOption,
			Correct:          answer.Correct,
			Text:             answer.Text,
			Code:             answer.Code,
			Language:         answer.Language,
			TimeSpentSeconds: answer.TimeSpentSeconds,
		})
	}

	for _, event := range r.Events {
		application.Events = append(application.Events, models.BehavioralEvent{
			Type:       event.Type,
			OccurredAt: event.OccurredAt,
			Severity:   event.Severity,
		})
	}

	return application
}

// IntegrityFlagResponse mirrors one report flag.
type IntegrityFlagResponse struct {
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	Evidence     string `json:"evidence"`
	Contribution int    `json:"contribution"`
}

// IntegrityReportResponse is the API shape of one integrity report.
type IntegrityReportResponse struct {
	ApplicationID  string                  `json:"application_id"`
	RiskScore      int                     `json:"risk_score"`
	IsBot          bool                    `json:"is_bot"`
	Flags          []IntegrityFlagResponse `json:"flags"`
	Recommendation string                  `json:"recommendation"`
	GeneratedAt    time.Time               `json:"generated_at"`
}

// NewIntegrityReportResponse maps an engine report to its API shape.
func NewIntegrityReportResponse(report models.IntegrityReport) IntegrityReportResponse {
	flags := make([]IntegrityFlagResponse, 0, len(report.Flags))
	for _, f := range report.Flags {
		flags = append(flags, IntegrityFlagResponse{
			Type:         f.Type,
			Severity:     f.Severity,
			Evidence:     f.Evidence,
			Contribution: f.Contribution,
		})
	}

	return IntegrityReportResponse{
		ApplicationID:  report.ApplicationID,
		RiskScore:      report.RiskScore,
		IsBot:          report.IsBot,
		Flags:          flags,
		Recommendation: report.Recommendation,
		GeneratedAt:    report.GeneratedAt,
	}
}

// RiskTierSummary buckets a batch by risk tier.
type RiskTierSummary struct {
	High             int     `json:"high"`
	Medium           int     `json:"medium"`
	Low              int     `json:"low"`
	AverageRiskScore float64 `json:"average_risk_score"`
}

// BatchAnalysisResponse is the result of re-scoring every application for a
// job. Reports are ranked ascending by risk score.
type BatchAnalysisResponse struct {
	JobID       string                    `json:"job_id"`
	Reports     []IntegrityReportResponse `json:"reports"`
	Summary     RiskTierSummary           `json:"summary"`
	GeneratedAt time.Time                 `json:"generated_at"`
	CacheHit    bool                      `json:"cache_hit,omitempty"`
}
