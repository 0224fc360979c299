package main

import (
	"github.com/akmmp241/topupstore-storefront/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
)

// Stage is one named step of the request pipeline. Stages run in slice order,
// each wrapping everything registered after it.
type Stage struct {
	Name    string
	Handler fiber.Handler
}

// RouteGroup is a set of routes that can be mounted under a prefix.
type RouteGroup interface {
	RegisterRoutes(router fiber.Router)
}

func DefaultStages(cfg *shared.Config) []Stage {
	return []Stage{
		{Name: "recover", Handler: fiberrecover.New()},
		{Name: "json", Handler: shared.JSONBodyParser()},
		{Name: "urlencoded", Handler: shared.URLEncodedBodyParser(cfg.URLEncodedExtended)},
		{Name: "cors", Handler: permissiveCORS()},
		{Name: "helmet", Handler: helmet.New()},
	}
}

// permissiveCORS allows every origin. Requests without an Origin header still
// get Access-Control-Allow-Origin: *, which cors.New leaves out.
func permissiveCORS() fiber.Handler {
	handler := cors.New()

	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderOrigin) == "" {
			c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		}
		return handler(c)
	}
}

func ApplyStages(router fiber.Router, stages []Stage) {
	for _, stage := range stages {
		router.Use(stage.Handler)
	}
}

// MountGroups registers every group under prefix in the given order. Earlier
// groups win when two of them declare the same method and path.
func MountGroups(router fiber.Router, prefix string, groups ...RouteGroup) {
	for _, group := range groups {
		group.RegisterRoutes(router.Group(prefix))
	}
}
