package utils

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"Foodgram-Backend/domain"
)

var (
	Validate *validator.Validate

	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
)

func InitValidator() {
	if Validate != nil {
		return
	}
	Validate = validator.New()
	_ = Validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// ParsePagination reads page and limit query parameters; limit defaults to domain.DefaultPageSize
// and both are capped so the offset cannot overflow.
func ParsePagination(c *fiber.Ctx) domain.PaginationRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = domain.DefaultPageSize
	}

	page = min(page, domain.MaxPage)
	limit = min(limit, domain.MaxPageSize)

	return domain.PaginationRequest{Page: page, Limit: limit}
}
