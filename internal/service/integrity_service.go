package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/proctorly/integrity-api/internal/analysis"
	"github.com/proctorly/integrity-api/internal/dto"
	"github.com/proctorly/integrity-api/internal/models"
	"github.com/proctorly/integrity-api/internal/observability"
	"github.com/proctorly/integrity-api/internal/repository"
)

// ErrApplicationNotFound indicates an application could not be found.
var ErrApplicationNotFound = errors.New("application not found")

const reportGeneratedSubject = "integrity.report.generated"

// IntegrityService runs the analysis engine over stored or inline
// application records.
type IntegrityService interface {
	Analyze(ctx context.Context, applicationID string) (models.IntegrityReport, error)
	AnalyzeRecord(ctx context.Context, payload dto.AnalyzeRequest) (models.IntegrityReport, error)
}

type integrityService struct {
	applications repository.ApplicationRepository
	aggregator   *analysis.Aggregator
	validator    *validator.Validate
	nats         *nats.Conn
	sanitizer    *bluemonday.Policy
	logger       zerolog.Logger
	now          func() time.Time
}

type reportGeneratedEvent struct {
	ApplicationID  string    `json:"application_id"`
	JobID          string    `json:"job_id,omitempty"`
	RiskScore      int       `json:"risk_score"`
	Recommendation string    `json:"recommendation"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// NewIntegrityService constructs an IntegrityService instance. The NATS
// connection is optional; without it report events are simply not published.
func NewIntegrityService(applications repository.ApplicationRepository, aggregator *analysis.Aggregator, validate *validator.Validate, natsConn *nats.Conn, logger zerolog.Logger) IntegrityService {
	return &integrityService{
		applications: applications,
		aggregator:   aggregator,
		validator:    validate,
		nats:         natsConn,
		sanitizer:    bluemonday.StrictPolicy(),
		logger:       logger.With().Str("component", "integrity_service").Logger(),
		now:          time.Now,
	}
}

func (s *integrityService) Analyze(ctx context.Context, applicationID string) (models.IntegrityReport, error) {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.IntegrityReport{}, ErrApplicationNotFound
		}
		return models.IntegrityReport{}, err
	}

	return s.analyze(ctx, application, "single"), nil
}

func (s *integrityService) AnalyzeRecord(ctx context.Context, payload dto.AnalyzeRequest) (models.IntegrityReport, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.IntegrityReport{}, err
	}

	application := payload.ToModel()
	if application.ID == "" {
		application.ID = uuid.NewString()
	}

	return s.analyze(ctx, application, "inline"), nil
}

func (s *integrityService) analyze(ctx context.Context, application models.Application, mode string) models.IntegrityReport {
	start := s.now()
	report := s.aggregator.Analyze(ctx, application)

	// The corpus append must not race caller cancellation: once an answer has
	// been compared it has to become part of the comparison basis for future
	// submissions, or the comparison was computed for nothing.
	s.aggregator.Similarity().Record(context.WithoutCancel(ctx), application.ID, application.Answers)

	report = s.sanitizeReport(report)

	observability.Analyses().WithLabelValues(mode, report.Recommendation).Inc()
	observability.AnalysisLatency().WithLabelValues(mode).Observe(s.now().Sub(start).Seconds())
	observability.RiskScores().Observe(float64(report.RiskScore))
	for _, flag := range report.Flags {
		observability.Flags().WithLabelValues(flag.Type, flag.Severity).Inc()
	}

	s.publishReport(application.JobID, report)

	s.logger.Info().
		Str("application_id", report.ApplicationID).
		Int("risk_score", report.RiskScore).
		Str("recommendation", report.Recommendation).
		Int("flags", len(report.Flags)).
		Msg("integrity report generated")

	return report
}

// sanitizeReport strips any markup that survived into evidence strings.
// Evidence can embed fragments of candidate-authored content, and reports are
// rendered in review UIs.
func (s *integrityService) sanitizeReport(report models.IntegrityReport) models.IntegrityReport {
	for i := range report.Flags {
		report.Flags[i].Evidence = s.sanitizer.Sanitize(report.Flags[i].Evidence)
	}
	return report
}

func (s *integrityService) publishReport(jobID string, report models.IntegrityReport) {
	if s.nats == nil {
		return
	}

	payload, err := json.Marshal(reportGeneratedEvent{
		ApplicationID:  report.ApplicationID,
		JobID:          jobID,
		RiskScore:      report.RiskScore,
		Recommendation: report.Recommendation,
		GeneratedAt:    report.GeneratedAt,
	})
	if err != nil {
		return
	}

	if err := s.nats.Publish(reportGeneratedSubject, payload); err != nil {
		s.logger.Warn().Err(err).Str("application_id", report.ApplicationID).Msg("failed to publish report event")
	}
}
