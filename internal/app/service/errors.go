// Package service provides application use cases.
package service

import "errors"

var (
	// ErrGeneratorDisabled is returned when no text generator is configured.
	ErrGeneratorDisabled = errors.New("text generation is not configured")

	// ErrProfileNotFound is returned when a stored profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrHistoryUnavailable is returned when post history cannot be fetched.
	ErrHistoryUnavailable = errors.New("post history is unavailable")

	// ErrBatchTooLarge is returned when a batch exceeds MaxBatchSize.
	ErrBatchTooLarge = errors.New("batch exceeds the maximum size")

	// ErrInvalidCampaign is returned when a campaign has too few or too many variants.
	ErrInvalidCampaign = errors.New("invalid campaign")

	// ErrCampaignNotFound is returned when a campaign does not exist for the user.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrVariantNotFound is returned when a variant is not part of the campaign.
	ErrVariantNotFound = errors.New("variant not found")
)
