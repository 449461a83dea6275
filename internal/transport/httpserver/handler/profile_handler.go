package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tweet-score-service/internal/app/service"
	"tweet-score-service/internal/transport/httpserver/dto"
	"tweet-score-service/internal/transport/httpserver/middleware"
	"tweet-score-service/internal/validator"
)

// ProfileHandler manages the caller's stored profiles.
type ProfileHandler struct {
	profiles  *service.ProfileService
	history   *service.HistoryService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(
	profiles *service.ProfileService,
	history *service.HistoryService,
	v *validator.Validator,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		history:   history,
		validator: v,
		logger:    logger,
	}
}

// identify resolves the caller and the :username path parameter. It writes
// the error response and reports false when either is missing.
func (h *ProfileHandler) identify(c *fiber.Ctx) (userID, username string, ok bool, err error) {
	userID = middleware.UserID(c)
	if ok, err = requireUser(c, userID); !ok {
		return "", "", false, err
	}

	username = strings.TrimPrefix(strings.TrimSpace(c.Params("username")), "@")
	if username == "" || len(username) > 50 {
		return "", "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "username is required",
			Code:  "MISSING_USERNAME",
		})
	}

	return userID, username, true, nil
}

// Upsert handles PUT /api/v1/profiles/:username
func (h *ProfileHandler) Upsert(c *fiber.Ctx) error {
	userID, username, ok, err := h.identify(c)
	if !ok {
		return err
	}

	var req dto.ProfileRequest
	if ok, err := bindBody(c, h.validator, &req); !ok {
		return err
	}

	p := req.ToDomain()
	p.Username = username

	rec, err := h.profiles.Upsert(c.Context(), userID, p)
	if err != nil {
		return serviceError(c, h.logger, err, "failed to save profile")
	}

	return c.JSON(rec)
}

// Get handles GET /api/v1/profiles/:username
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, username, ok, err := h.identify(c)
	if !ok {
		return err
	}

	rec, err := h.profiles.Get(c.Context(), userID, username)
	if err != nil {
		return serviceError(c, h.logger, err, "failed to get profile")
	}

	return c.JSON(rec)
}

// Report handles GET /api/v1/profiles/:username/report
func (h *ProfileHandler) Report(c *fiber.Ctx) error {
	userID, username, ok, err := h.identify(c)
	if !ok {
		return err
	}

	var req dto.ReportRequest
	if ok, err := bindQuery(c, h.validator, &req); !ok {
		return err
	}

	report, err := h.profiles.Report(c.Context(), req.ToInput(userID, username))
	if err != nil {
		return serviceError(c, h.logger, err, "failed to build report")
	}

	return c.JSON(report)
}

// Sync handles POST /api/v1/profiles/:username/sync
func (h *ProfileHandler) Sync(c *fiber.Ctx) error {
	userID, username, ok, err := h.identify(c)
	if !ok {
		return err
	}

	h.logger.Info("manual history sync triggered", zap.String("username", username))

	result, err := h.history.SyncProfile(c.Context(), userID, username)
	if err != nil {
		return serviceError(c, h.logger, err, "history sync failed")
	}

	return c.JSON(dto.FromSyncResult(result))
}
