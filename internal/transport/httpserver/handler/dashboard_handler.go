package handler

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tweet-score-service/internal/app/service"
	"tweet-score-service/internal/domain"
)

// hourRow is one row of the dashboard's hour multiplier table.
type hourRow struct {
	Hour       int
	Multiplier float64
	Peak       bool
}

// DashboardHandler renders the operations dashboard.
type DashboardHandler struct {
	analysis *service.AnalysisService
	profiles *service.ProfileService
	logger   *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(analysis *service.AnalysisService, profiles *service.ProfileService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		analysis: analysis,
		profiles: profiles,
		logger:   logger,
	}
}

// Render handles GET /dashboard
// Renders the engine tables and stored counts using Fiber's template engine.
func (h *DashboardHandler) Render(c *fiber.Ctx) error {
	analyses, err := h.analysis.CountAnalyses(c.Context())
	if err != nil {
		h.logger.Warn("counting analyses failed", zap.Error(err))
	}
	profiles, err := h.profiles.CountProfiles(c.Context())
	if err != nil {
		h.logger.Warn("counting profiles failed", zap.Error(err))
	}

	t := h.analysis.Engine().Tables()

	hours := make([]hourRow, len(t.HourMultipliers))
	for i, m := range t.HourMultipliers {
		hours[i] = hourRow{Hour: i, Multiplier: m, Peak: m >= 1.2}
	}

	actions := slices.Concat(domain.PositiveActions, domain.NegativeActions)
	weights := make([]fiber.Map, 0, len(actions))
	for _, a := range actions {
		weights = append(weights, fiber.Map{"Action": a, "Weight": t.ActionWeights[a]})
	}

	return c.Render("pages/dashboard", fiber.Map{
		"Title":         "Tweet Score Dashboard",
		"AnalysisCount": analyses,
		"ProfileCount":  profiles,
		"Hours":         hours,
		"Weights":       weights,
		"Content":       t.ContentMultipliers,
		"Markets":       t.MarketMultipliers,
	}, "layouts/base")
}
