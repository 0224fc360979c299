package shared

import (
	"bytes"
	"errors"
	"log/slog"
	"mime"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// BodyKey is the locals key under which the body parsers store the decoded
// request payload.
const BodyKey = "body"

func JSONBodyParser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !hasMediaType(c, fiber.MIMEApplicationJSON) {
			return c.Next()
		}

		body := bytes.TrimSpace(c.Body())
		if len(body) == 0 {
			c.Locals(BodyKey, map[string]any{})
			return c.Next()
		}

		// only objects and arrays are accepted at the top level
		if body[0] != '{' && body[0] != '[' {
			return fiber.NewError(fiber.StatusBadRequest, "Malformed JSON body")
		}

		var payload any
		if err := c.App().Config().JSONDecoder(body, &payload); err != nil {
			slog.Debug("Rejecting malformed JSON body", "err", err)
			return fiber.NewError(fiber.StatusBadRequest, "Malformed JSON body")
		}

		c.Locals(BodyKey, payload)
		return c.Next()
	}
}

func URLEncodedBodyParser(extended bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !hasMediaType(c, fiber.MIMEApplicationForm) {
			return c.Next()
		}

		payload, err := ParseForm(string(c.Body()), extended)
		if err != nil {
			if errors.Is(err, ErrTooManyParameters) {
				return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, "Malformed form body")
		}

		c.Locals(BodyKey, payload)
		return c.Next()
	}
}

// ParsedBody returns whatever the body parsers decoded, or nil.
func ParsedBody(c *fiber.Ctx) any {
	return c.Locals(BodyKey)
}

// BindBody copies the parsed payload into out, which is typically a pointer
// to a request struct with json tags.
func BindBody(c *fiber.Ctx, out any) error {
	payload := ParsedBody(c)
	if payload == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	raw, err := c.App().Config().JSONEncoder(payload)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := c.App().Config().JSONDecoder(raw, out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	return nil
}

func hasMediaType(c *fiber.Ctx, want string) bool {
	header := c.Get(fiber.HeaderContentType)
	if header == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(header, ";")[0])
	}

	return strings.EqualFold(mediaType, want)
}
