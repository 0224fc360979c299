package shared

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type FailedValidationError struct {
	Fields map[string]string
}

func (e *FailedValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// NewFailedValidationError maps validator errors onto the json names of the
// offending fields of request.
func NewFailedValidationError(request any, errs validator.ValidationErrors) *FailedValidationError {
	t := reflect.TypeOf(request)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		name := fe.Field()
		if t != nil && t.Kind() == reflect.Struct {
			if sf, ok := t.FieldByName(fe.StructField()); ok {
				if tag := strings.Split(sf.Tag.Get("json"), ",")[0]; tag != "" && tag != "-" {
					name = tag
				}
			}
		}
		fields[name] = validationMessage(fe)
	}

	return &FailedValidationError{Fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	var validationErr *FailedValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"data":    nil,
			"errors":  validationErr.Fields,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
			"data":    nil,
			"errors":  nil,
		})
	}

	slog.Error("Unhandled error", "method", c.Method(), "path", c.Path(), "err", err)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal Server Error",
		"data":    nil,
		"errors":  nil,
	})
}
