package handlers

import (
	"errors"

	"recipe-feed/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// statusFor maps a service error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrMediaInUse),
		errors.Is(err, domain.ErrCustomIDTaken):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidUsernamePassword),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrUploadTicket):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorizedRecipeAccess),
		errors.Is(err, domain.ErrMediaNotOwned),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrMediaNotFound),
		errors.Is(err, domain.ErrUploadNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidImageFormat),
		errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// serviceError hides unexpected errors from the client and logs them.
func serviceError(err error) (int, error) {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("unexpected error: %v", err)
		return status, errors.New(domain.MessageFailedProcessRequest)
	}
	return status, err
}
