package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/akmmp241/topupstore-storefront/products"
	"github.com/akmmp241/topupstore-storefront/shared"
	"github.com/akmmp241/topupstore-storefront/users"
	"github.com/go-playground/validator/v10"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := shared.LoadConfig()
	checkPort(slog.Default(), cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := shared.NewDatabase(ctx, cfg.Database)
	if err != nil {
		slog.Error("Error opening database", "driver", cfg.Database.Driver, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	userService, closeUsers := newUserService(cfg, db)
	defer closeUsers()

	productService, err := newProductService(cfg, db)
	if err != nil {
		slog.Error("Error creating product service", "err", err)
		os.Exit(1)
	}

	app := NewAppServer(cfg, userService, productService)
	if err := app.Run(ctx); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// checkPort reports a missing or unparsable PORT. Neither stops startup.
func checkPort(logger *slog.Logger, cfg *shared.Config) {
	if cfg.RawPort == "" {
		logger.Warn("No port value specified...")
		return
	}

	if cfg.PortErr != nil {
		logger.Warn("Port value is not a number", "port", cfg.RawPort, "err", cfg.PortErr)
	}
}

func newUserService(cfg *shared.Config, db *sql.DB) (*users.UserService, func()) {
	var publisher users.EventPublisher = users.LogPublisher{}
	closer := func() {}

	if writer := shared.NewProducer(cfg, cfg.UserEventTopic); writer != nil {
		kafkaPublisher := users.NewKafkaPublisher(writer)
		publisher = kafkaPublisher
		closer = func() { closeQuietly("kafka producer", kafkaPublisher) }
	}

	return users.NewUserService(validator.New(), db, publisher), closer
}

func newProductService(cfg *shared.Config, db *sql.DB) (*products.ProductService, error) {
	var cache products.Cache
	if client := shared.NewRedis(cfg); client != nil {
		cache = products.NewRedisCache(client, cfg.CacheTTL)
	}

	var searcher products.Searcher
	client, err := shared.NewElasticsearch(cfg)
	if err != nil {
		return nil, err
	}
	if client != nil {
		searcher = products.NewSearchIndex(client)
	}

	return products.NewProductService(db, cache, searcher), nil
}

func closeQuietly(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Error("Error closing", "resource", name, "err", err)
	}
}
