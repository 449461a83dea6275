package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tweet-score-service/internal/app/service"
	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/transport/httpserver/dto"
	"tweet-score-service/internal/transport/httpserver/middleware"
	"tweet-score-service/internal/validator"
)

// CampaignHandler handles A/B campaigns and stored-analysis analytics.
type CampaignHandler struct {
	campaigns *service.CampaignService
	analytics *service.AnalyticsService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(
	campaigns *service.CampaignService,
	analytics *service.AnalyticsService,
	v *validator.Validator,
	logger *zap.Logger,
) *CampaignHandler {
	return &CampaignHandler{
		campaigns: campaigns,
		analytics: analytics,
		validator: v,
		logger:    logger,
	}
}

// Create handles POST /api/v1/campaigns
func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if ok, err := requireUser(c, userID); !ok {
		return err
	}

	var req dto.CreateCampaignRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	campaign, err := h.campaigns.Create(c.Context(), req.ToInput(userID))
	if err != nil {
		return serviceError(c, h.logger, err, "creating campaign failed")
	}

	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// List handles GET /api/v1/campaigns
func (h *CampaignHandler) List(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if ok, err := requireUser(c, userID); !ok {
		return err
	}

	campaigns, err := h.campaigns.List(c.Context(), userID)
	if err != nil {
		return serviceError(c, h.logger, err, "listing campaigns failed")
	}

	return c.JSON(dto.CampaignListResponse{Campaigns: campaigns, Count: len(campaigns)})
}

// Results handles GET /api/v1/campaigns/:id/results
func (h *CampaignHandler) Results(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if ok, err := requireUser(c, userID); !ok {
		return err
	}

	results, err := h.campaigns.Results(c.Context(), userID, c.Params("id"))
	if err != nil {
		return serviceError(c, h.logger, err, "comparing variants failed")
	}

	return c.JSON(results)
}

// RecordMetrics handles PUT /api/v1/campaigns/:id/variants/:variant/metrics
func (h *CampaignHandler) RecordMetrics(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if ok, err := requireUser(c, userID); !ok {
		return err
	}

	var req dto.VariantMetricsRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	results, err := h.campaigns.RecordMetrics(c.Context(), userID, c.Params("id"), c.Params("variant"), req.ToDomain())
	if err != nil {
		return serviceError(c, h.logger, err, "recording metrics failed")
	}

	return c.JSON(results)
}

// SetWinner handles POST /api/v1/campaigns/:id/winner
func (h *CampaignHandler) SetWinner(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if ok, err := requireUser(c, userID); !ok {
		return err
	}

	var req dto.WinnerRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	results, err := h.campaigns.SetWinner(c.Context(), userID, c.Params("id"), req.VariantID)
	if err != nil {
		return serviceError(c, h.logger, err, "setting winner failed")
	}

	return c.JSON(results)
}

// Overview handles GET /api/v1/analytics/overview
func (h *CampaignHandler) Overview(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if ok, err := requireUser(c, userID); !ok {
		return err
	}

	overview, err := h.analytics.Overview(c.Context(), userID)
	if err != nil {
		return serviceError(c, h.logger, err, "analytics overview failed")
	}

	return c.JSON(overview)
}

// Performance handles GET /api/v1/analytics/performance
func (h *CampaignHandler) Performance(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if ok, err := requireUser(c, userID); !ok {
		return err
	}

	var req dto.PerformanceRequest
	if ok, err := bindQuery(c, h.validator, &req); !ok {
		return err
	}

	days := req.Days
	if days == 0 {
		days = domain.DefaultPerformanceDays
	}

	daily, err := h.analytics.Performance(c.Context(), userID, days)
	if err != nil {
		return serviceError(c, h.logger, err, "analytics performance failed")
	}

	return c.JSON(dto.PerformanceResponse{Days: days, Daily: daily})
}
