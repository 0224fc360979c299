package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/akmmp241/topupstore-storefront/shared"
	"github.com/gofiber/fiber/v2"
)

type AppServer struct {
	server *fiber.App
	cfg    *shared.Config
	stages []Stage
}

func NewAppServer(cfg *shared.Config, groups ...RouteGroup) *AppServer {
	server := fiber.New(fiber.Config{
		ErrorHandler:          shared.ErrorHandler,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})

	app := &AppServer{
		server: server,
		cfg:    cfg,
		stages: DefaultStages(cfg),
	}

	ApplyStages(server, app.stages)

	server.Get("/debug/stages", shared.DevOnlyMiddleware(cfg), app.handleListStages)

	MountGroups(server, "/", groups...)

	return app
}

func (a *AppServer) handleListStages(c *fiber.Ctx) error {
	names := make([]string, 0, len(a.stages))
	for _, stage := range a.stages {
		names = append(names, stage.Name)
	}

	return c.JSON(fiber.Map{
		"message": "Pipeline stages",
		"data":    names,
		"errors":  nil,
	})
}

// Run binds the configured port and serves until ctx is cancelled.
func (a *AppServer) Run(ctx context.Context) error {
	addr := a.cfg.ListenAddr()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	return a.Serve(ctx, listener)
}

func (a *AppServer) Serve(ctx context.Context, listener net.Listener) error {
	if addr, ok := listener.Addr().(*net.TCPAddr); ok {
		slog.Info("Server is listening on port", "port", addr.Port)
	} else {
		slog.Info("Server is listening", "addr", listener.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Listener(listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server", "timeout", a.cfg.ShutdownTimeout)
	if err := a.server.ShutdownWithTimeout(a.cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	// a listener that never reached Serve is not closed by Shutdown
	_ = listener.Close()

	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
