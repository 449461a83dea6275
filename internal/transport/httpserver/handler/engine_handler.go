package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tweet-score-service/internal/app/service"
	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/transport/httpserver/dto"
	"tweet-score-service/internal/validator"
)

// EngineHandler exposes the stateless engine projections.
type EngineHandler struct {
	engine    *domain.Engine
	defaults  service.ProfileDefaults
	validator *validator.Validator
	logger    *zap.Logger
}

// NewEngineHandler creates a new EngineHandler.
func NewEngineHandler(
	engine *domain.Engine,
	defaults service.ProfileDefaults,
	v *validator.Validator,
	logger *zap.Logger,
) *EngineHandler {
	if defaults.Market == "" {
		defaults.Market = domain.DefaultMarket
	}

	return &EngineHandler{
		engine:    engine,
		defaults:  defaults,
		validator: v,
		logger:    logger,
	}
}

// PredictReach handles POST /api/v1/reach/predict
func (h *EngineHandler) PredictReach(c *fiber.Ctx) error {
	var req dto.ReachRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	return c.JSON(h.engine.PredictReach(req.ToDomain()))
}

// TweetCred handles POST /api/v1/authority/tweetcred
func (h *EngineHandler) TweetCred(c *fiber.Ctx) error {
	var req dto.TweetCredRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	focus := h.defaults.NicheFocus
	if req.NicheFocus != nil {
		focus = *req.NicheFocus
	}

	return c.JSON(h.engine.CalculateTweetCredWithFocus(req.Profile.ToDomain(), req.Rate(), focus))
}

// EngagementDebt handles POST /api/v1/authority/engagement-debt
func (h *EngineHandler) EngagementDebt(c *fiber.Ctx) error {
	var req dto.EngagementDebtRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	return c.JSON(domain.AnalyzeEngagementDebt(req.Posts, req.Likes, req.Impressions))
}

// Monetization handles POST /api/v1/monetization/estimate
func (h *EngineHandler) Monetization(c *fiber.Ctx) error {
	var req dto.MonetizationRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	market := req.Market
	if market == "" {
		market = h.defaults.Market
	}

	return c.JSON(h.engine.EstimateMonetization(req.Profile.ToDomain(), req.Niche, market))
}

// TimingWindows handles GET /api/v1/timing/windows
func (h *EngineHandler) TimingWindows(c *fiber.Ctx) error {
	var req dto.TimingRequest
	if ok, err := bindQuery(c, h.validator, &req); !ok {
		return err
	}

	return c.JSON(h.engine.PostingWindows(req.Hour, req.Day))
}

// Style handles POST /api/v1/style/analyze
func (h *EngineHandler) Style(c *fiber.Ctx) error {
	var req dto.StyleRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	records := req.ToDomain()

	return c.JSON(dto.StyleResponse{
		Style:   domain.AnalyzeStyle(h.engine.Tables(), records),
		History: domain.SummarizeHistory(records),
	})
}
