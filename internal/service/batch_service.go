package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/proctorly/integrity-api/internal/analysis"
	"github.com/proctorly/integrity-api/internal/dto"
	"github.com/proctorly/integrity-api/internal/models"
	"github.com/proctorly/integrity-api/internal/observability"
	"github.com/proctorly/integrity-api/internal/repository"
)

// ErrNoApplications indicates a job has no applications to analyze.
var ErrNoApplications = errors.New("no applications for job")

// BatchService re-scores every application submitted for a job, adding the
// pairwise cross-application similarity pass that single-submission analysis
// cannot perform.
type BatchService interface {
	AnalyzeJob(ctx context.Context, jobID string) (dto.BatchAnalysisResponse, error)
}

type batchService struct {
	applications repository.ApplicationRepository
	aggregator   *analysis.Aggregator
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewBatchService constructs a BatchService. The redis client is optional;
// without it every call recomputes the batch.
func NewBatchService(applications repository.ApplicationRepository, aggregator *analysis.Aggregator, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) BatchService {
	return &batchService{
		applications: applications,
		aggregator:   aggregator,
		cache:        cache,
		cacheTTL:     ttl,
		logger:       logger.With().Str("component", "batch_service").Logger(),
		now:          time.Now,
	}
}

func (s *batchService) AnalyzeJob(ctx context.Context, jobID string) (dto.BatchAnalysisResponse, error) {
	cacheKey := "integrity:batch:" + jobID
	tracer := otel.Tracer("github.com/proctorly/integrity-api/internal/service/batch")
	ctx, span := tracer.Start(ctx, "integrity.batch_analyze")
	span.SetAttributes(attribute.String("integrity.job_id", jobID))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.BatchAnalysisResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("integrity.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read batch cache")
		}
	}

	apps, err := s.applications.ListByJob(ctx, jobID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list applications failed")
		return dto.BatchAnalysisResponse{}, err
	}
	if len(apps) == 0 {
		return dto.BatchAnalysisResponse{}, ErrNoApplications
	}
	span.SetAttributes(attribute.Int("integrity.application_count", len(apps)))

	start := s.now()
	reports := make([]models.IntegrityReport, 0, len(apps))
	crossMatches := s.aggregator.Similarity().CompareAcrossApplications(apps)

	for _, app := range apps {
		report := s.aggregator.Analyze(ctx, app)
		report = appendBatchMatches(report, crossMatches[app.ID])
		reports = append(reports, report)
	}

	// Batch analysis reuses the same corpus discipline as the single path:
	// compare first against what already exists, then fold the batch in.
	recordCtx := context.WithoutCancel(ctx)
	for _, app := range apps {
		s.aggregator.Similarity().Record(recordCtx, app.ID, app.Answers)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].RiskScore != reports[j].RiskScore {
			return reports[i].RiskScore < reports[j].RiskScore
		}
		return reports[i].ApplicationID < reports[j].ApplicationID
	})

	response := dto.BatchAnalysisResponse{
		JobID:       jobID,
		Reports:     make([]dto.IntegrityReportResponse, 0, len(reports)),
		Summary:     summarize(reports),
		GeneratedAt: s.now().UTC(),
	}
	for _, report := range reports {
		response.Reports = append(response.Reports, dto.NewIntegrityReportResponse(report))
		observability.Analyses().WithLabelValues("batch", report.Recommendation).Inc()
		observability.RiskScores().Observe(float64(report.RiskScore))
	}
	observability.AnalysisLatency().WithLabelValues("batch").Observe(s.now().Sub(start).Seconds())

	if s.cache != nil {
		payload, marshalErr := json.Marshal(response)
		if marshalErr == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store batch cache")
			}
		}
	}

	s.logger.Info().
		Str("job_id", jobID).
		Int("applications", len(apps)).
		Int("high_risk", response.Summary.High).
		Msg("batch analysis complete")

	return response, nil
}

// appendBatchMatches attaches cross-application findings to a report as
// advisory flags. They do not feed the risk score; reviewers weigh them.
func appendBatchMatches(report models.IntegrityReport, matches []analysis.SimilarityMatch) models.IntegrityReport {
	for _, match := range matches {
		report.Flags = append(report.Flags, models.IntegrityFlag{
			Type:     models.FlagBatchSimilarity,
			Severity: match.Severity,
			Evidence: match.Evidence,
		})
	}
	return report
}

func summarize(reports []models.IntegrityReport) dto.RiskTierSummary {
	var summary dto.RiskTierSummary
	var total int
	for _, report := range reports {
		total += report.RiskScore
		switch {
		case report.RiskScore >= 70:
			summary.High++
		case report.RiskScore >= 40:
			summary.Medium++
		default:
			summary.Low++
		}
	}
	if len(reports) > 0 {
		summary.AverageRiskScore = float64(total) / float64(len(reports))
	}
	return summary
}
