package response

import (
	"github.com/gofiber/fiber/v2"
)

// Every endpoint answers with a flat JSON envelope: {ok:true, ...} on
// success, {ok:false, error: "..."} on failure. Helpers here keep the
// handlers from assembling it by hand.

// OK returns a 200 response merging the given fields into {ok:true}.
func OK(c *fiber.Ctx, fields fiber.Map) error {
	body := fiber.Map{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

// Fail returns an error response with the given status.
func Fail(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"ok":    false,
		"error": message,
	})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, message)
}

// Unauthorized returns a 401 Unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "unauthorized"
	}
	return Fail(c, fiber.StatusUnauthorized, message)
}

// Forbidden returns a 403 Forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "forbidden"
	}
	return Fail(c, fiber.StatusForbidden, message)
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "not_found"
	}
	return Fail(c, fiber.StatusNotFound, message)
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "too many requests"
	}
	return Fail(c, fiber.StatusTooManyRequests, message)
}

// InternalServerError returns a 500 response with a generic message.
// Store-level detail stays in the server log, never in the envelope.
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "server"
	}
	return Fail(c, fiber.StatusInternalServerError, message)
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// Paginated returns a successful response with pagination metadata.
func Paginated(c *fiber.Ctx, fields fiber.Map, pagination PaginationMeta) error {
	body := fiber.Map{"ok": true, "pagination": pagination}
	for k, v := range fields {
		body[k] = v
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

// CalculatePagination calculates pagination metadata
func CalculatePagination(page, limit int, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  totalPages,
	}
}
