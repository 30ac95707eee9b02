package respond

import (
	"github.com/gofiber/fiber/v2"
)

// Data writes {"data": v}.
func Data(c *fiber.Ctx, v any) error {
	return c.JSON(fiber.Map{"data": v})
}

func Created(c *fiber.Ctx, v any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": v})
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Page is a paginated collection.
type Page struct {
	Data        any   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func NewPage(data any, page, perPage int, total int64) Page {
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return Page{Data: data, CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}
