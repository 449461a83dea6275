// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tweet-score-service/internal/app/service"
	"tweet-score-service/internal/transport/httpserver/dto"
	"tweet-score-service/internal/validator"
)

// bindBody parses and validates a JSON body. It writes the 400 response
// itself and reports false when the request is unusable.
func bindBody(c *fiber.Ctx, v *validator.Validator, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	return validate(c, v, req)
}

// bindQuery parses and validates query parameters.
func bindQuery(c *fiber.Ctx, v *validator.Validator, req any) (bool, error) {
	if err := c.QueryParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	return validate(c, v, req)
}

func validate(c *fiber.Ctx, v *validator.Validator, req any) (bool, error) {
	if err := v.Validate(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	return true, nil
}

// requireUser writes a 401 and reports false for anonymous callers.
func requireUser(c *fiber.Ctx, userID string) (bool, error) {
	if userID != "" {
		return true, nil
	}

	return false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: "authentication required",
		Code:  "UNAUTHORIZED",
	})
}

// serviceError maps service sentinel errors to HTTP responses. Anything
// else is logged and reported as a 500 with the given message.
func serviceError(c *fiber.Ctx, logger *zap.Logger, err error, msg string) error {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "PROFILE_NOT_FOUND",
		})
	case errors.Is(err, service.ErrGeneratorDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "GENERATOR_DISABLED",
		})
	case errors.Is(err, service.ErrHistoryUnavailable):
		logger.Warn(msg, zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: service.ErrHistoryUnavailable.Error(),
			Code:  "HISTORY_UNAVAILABLE",
		})
	case errors.Is(err, service.ErrCampaignNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "CAMPAIGN_NOT_FOUND",
		})
	case errors.Is(err, service.ErrVariantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "VARIANT_NOT_FOUND",
		})
	case errors.Is(err, service.ErrInvalidCampaign):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_CAMPAIGN",
		})
	case errors.Is(err, service.ErrBatchTooLarge):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "BATCH_TOO_LARGE",
		})
	}

	logger.Error(msg, zap.Error(err))

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: msg,
		Code:  "INTERNAL_ERROR",
	})
}
