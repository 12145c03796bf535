package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

var (
	errInternal = errors.New("internal server error")

	badRequestErrors = []error{
		domain.ErrInvalidImage,
		domain.ErrDuplicateIngredient,
		domain.ErrUnknownIngredient,
		domain.ErrRelationExists,
		domain.ErrRelationNotFound,
		domain.ErrSelfSubscription,
		domain.ErrEmailTaken,
		domain.ErrUsernameTaken,
		domain.ErrInvalidCredentials,
		domain.ErrWrongPassword,
	}

	notFoundErrors = []error{
		domain.ErrRecipeNotFound,
		domain.ErrUserNotFound,
		domain.ErrIngredientNotFound,
	}
)

// statusFromError maps service errors to HTTP status codes; unknown errors are 500.
func statusFromError(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return fiber.StatusBadRequest
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return fiber.StatusNotFound
		}
	}
	switch {
	case errors.Is(err, domain.ErrNotRecipeAuthor), errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrParseUUID),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized
	}

	log.Errorf("unhandled error: %v", err)
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, message string, err error) error {
	status := statusFromError(err)
	if status == fiber.StatusInternalServerError {
		return presenters.ErrorResponse(c, status, message, errInternal)
	}
	return presenters.ErrorResponse(c, status, message, err)
}
