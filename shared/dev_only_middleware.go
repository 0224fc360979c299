package shared

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

func DevOnlyMiddleware(cfg *Config) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if cfg.IsProduction() {
			slog.Error("Trying request to dev endpoint in production", "path", ctx.Path())
			return fiber.NewError(fiber.StatusServiceUnavailable, "dev endpoint is unavailable")
		}

		return ctx.Next()
	}
}
