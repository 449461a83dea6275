package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tweet-score-service/internal/app/service"
	"tweet-score-service/internal/transport/httpserver/dto"
	"tweet-score-service/internal/transport/httpserver/middleware"
	"tweet-score-service/internal/validator"
)

// TweetHandler handles post analysis, optimization and generation.
type TweetHandler struct {
	analysis   *service.AnalysisService
	generation *service.GenerationService
	validator  *validator.Validator
	logger     *zap.Logger
}

// NewTweetHandler creates a new TweetHandler.
func NewTweetHandler(
	analysis *service.AnalysisService,
	generation *service.GenerationService,
	v *validator.Validator,
	logger *zap.Logger,
) *TweetHandler {
	return &TweetHandler{
		analysis:   analysis,
		generation: generation,
		validator:  v,
		logger:     logger,
	}
}

// Analyze handles POST /api/v1/tweets/analyze
func (h *TweetHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	userID := middleware.UserID(c)
	if req.Save {
		if ok, err := requireUser(c, userID); !ok {
			return err
		}
	}

	out, err := h.analysis.Analyze(c.Context(), req.ToInput(userID))
	if err != nil {
		return serviceError(c, h.logger, err, "analysis failed")
	}

	if out.ID != "" {
		return c.Status(fiber.StatusCreated).JSON(out)
	}

	return c.JSON(out)
}

// AnalyzeBatch handles POST /api/v1/tweets/analyze/batch
func (h *TweetHandler) AnalyzeBatch(c *fiber.Ctx) error {
	var req dto.BatchAnalyzeRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	results, err := h.analysis.AnalyzeBatch(c.Context(), req.Texts, req.DomainProfile())
	if err != nil {
		return serviceError(c, h.logger, err, "batch analysis failed")
	}

	return c.JSON(dto.BatchAnalyzeResponse{
		Results: results,
		Count:   len(results),
	})
}

// Optimize handles POST /api/v1/tweets/optimize
func (h *TweetHandler) Optimize(c *fiber.Ctx) error {
	var req dto.OptimizeRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	return c.JSON(h.analysis.Optimize(c.Context(), req.Text, req.DomainProfile()))
}

// Generate handles POST /api/v1/tweets/generate
func (h *TweetHandler) Generate(c *fiber.Ctx) error {
	if !h.generation.Enabled() {
		return serviceError(c, h.logger, service.ErrGeneratorDisabled, "generation failed")
	}

	var req dto.GenerateRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	out, err := h.generation.Generate(c.Context(), req.ToInput(middleware.UserID(c)))
	if err != nil {
		h.logger.Warn("generation failed", zap.String("topic", req.Topic), zap.Error(err))

		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: "text generation failed",
			Code:  "GENERATION_FAILED",
		})
	}

	return c.JSON(out)
}

// History handles GET /api/v1/tweets/history
func (h *TweetHandler) History(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if ok, err := requireUser(c, userID); !ok {
		return err
	}

	var req dto.HistoryRequest
	if ok, err := bindQuery(c, h.validator, &req); !ok {
		return err
	}

	page, err := h.analysis.History(c.Context(), req.ToParams(userID))
	if err != nil {
		return serviceError(c, h.logger, err, "failed to load history")
	}

	return c.JSON(dto.FromAnalysisPage(page))
}
