package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/proctorly/integrity-api/internal/dto"
	"github.com/proctorly/integrity-api/internal/service"
	"github.com/proctorly/integrity-api/internal/utils"
)

// IntegrityHandler exposes the analysis endpoints.
type IntegrityHandler struct {
	integrity service.IntegrityService
	batch     service.BatchService
	logger    zerolog.Logger
}

// NewIntegrityHandler builds an integrity handler instance.
func NewIntegrityHandler(integrity service.IntegrityService, batch service.BatchService, logger zerolog.Logger) *IntegrityHandler {
	return &IntegrityHandler{
		integrity: integrity,
		batch:     batch,
		logger:    logger.With().Str("component", "integrity_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *IntegrityHandler) Register(router fiber.Router) {
	router.Post("/integrity/analyze", h.analyzeInline)
	router.Post("/applications/:id/analyze", h.analyzeApplication)
	router.Post("/jobs/:id/analyze", h.analyzeJob)
}

func (h *IntegrityHandler) analyzeInline(c *fiber.Ctx) error {
	var payload dto.AnalyzeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.integrity.AnalyzeRecord(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid analysis payload")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "analysis complete", dto.NewIntegrityReportResponse(report))
}

func (h *IntegrityHandler) analyzeApplication(c *fiber.Ctx) error {
	applicationID := strings.TrimSpace(c.Params("id"))
	if applicationID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "application id is required")
	}

	report, err := h.integrity.Analyze(c.Context(), applicationID)
	if err != nil {
		if errors.Is(err, service.ErrApplicationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "application not found")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "analysis complete", dto.NewIntegrityReportResponse(report))
}

func (h *IntegrityHandler) analyzeJob(c *fiber.Ctx) error {
	jobID := strings.TrimSpace(c.Params("id"))
	if jobID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "job id is required")
	}

	response, err := h.batch.AnalyzeJob(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, service.ErrNoApplications) {
			return utils.SendError(c, fiber.StatusNotFound, "no applications found for job")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "batch analysis complete", response)
}

func (h *IntegrityHandler) handleError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("integrity analysis failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "analysis failed")
}
