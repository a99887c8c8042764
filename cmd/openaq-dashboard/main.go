package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/javonjax/OpenAQ-App/internal/airquality"
	httpapi "github.com/javonjax/OpenAQ-App/internal/api/http"
	"github.com/javonjax/OpenAQ-App/internal/config"
	"github.com/javonjax/OpenAQ-App/internal/logging"
	"github.com/javonjax/OpenAQ-App/internal/openaq"
	"github.com/javonjax/OpenAQ-App/internal/session"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogger := logging.New(cfg.LogLevel, cfg.AppEnv)

	// Shared HTTP client for outbound API calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	clientCfg := openaq.ClientConfig{
		HTTPClient:   httpClient,
		BaseURL:      cfg.OpenAQBaseURL,
		APIKey:       cfg.OpenAQAPIKey,
		DateFrom:     cfg.RecentDateFrom,
		RecentMinGap: cfg.RecentMinGap,
	}

	// Fetch every monitoring location once. Startup is the only fatal path:
	// without the location datasets there is nothing to serve.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 5*time.Minute)
	rawLocations, err := openaq.NewClient(clientCfg).FetchLocations(startupCtx)
	cancelStartup()
	if err != nil {
		slogger.Error("failed to fetch locations", "error", err)
		os.Exit(1)
	}

	// Build the read-only per-pollutant datasets shared by every session.
	datasets := make(map[airquality.PollutantKind]*airquality.Dataset)
	for _, kind := range airquality.Kinds() {
		ds := airquality.BuildDataset(rawLocations, kind)
		datasets[kind] = &ds
		slogger.Info("dataset ready", "pollutant", kind, "locations", len(ds.Locations))
	}

	// Session manager; each session owns its own throttled recent-data client.
	sessions := session.NewManager(datasets, func() session.RecentSource {
		return openaq.NewClient(clientCfg)
	}, cfg.SessionTTL, slogger)
	if err := sessions.StartSweeper(cfg.SessionSweepInterval); err != nil {
		slogger.Error("failed to start session sweeper", "error", err)
		os.Exit(1)
	}
	defer sessions.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "openaq-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "openaq-dashboard",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, sessions, cfg.GeocoderAPIKey)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slogger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slogger.Error("error during shutdown", "error", err)
	}
}
