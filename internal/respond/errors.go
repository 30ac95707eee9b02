package respond

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ValidationError is rendered as 422 with a per-field message map.
type ValidationError struct {
	Errors map[string][]string
	order  []string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: map[string][]string{}}
}

// Add records a message for field, keeping first-seen field order.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if _, ok := e.Errors[field]; !ok {
		e.order = append(e.order, field)
	}
	e.Errors[field] = append(e.Errors[field], msg)
	return e
}

func (e *ValidationError) Empty() bool { return len(e.Errors) == 0 }

// Error is the first message, with a count of the rest.
func (e *ValidationError) Error() string {
	if e.Empty() {
		return "The given data was invalid."
	}
	total := 0
	for _, msgs := range e.Errors {
		total += len(msgs)
	}
	first := e.Errors[e.order[0]][0]
	switch rest := total - 1; rest {
	case 0:
		return first
	case 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

// Invalid is a one-field validation error.
func Invalid(field, msg string) error {
	return NewValidationError().Add(field, msg)
}

// ErrorHandler renders every error as {"message": ...}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": verr.Error(),
				"errors":  verr.Errors,
			})
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).JSON(fiber.Map{
				"message": ferr.Message,
			})
		}

		log.Error("unexpected error",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unexpected server error",
		})
	}
}
