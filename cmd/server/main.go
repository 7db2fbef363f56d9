package main

import (
	"context"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/melakago/backend/internal/delivery/http"
	"github.com/melakago/backend/internal/domain"
	"github.com/melakago/backend/internal/feature"
	"github.com/melakago/backend/internal/repository/memory"
	"github.com/melakago/backend/internal/repository/postgres"
	"github.com/melakago/backend/internal/service"
	"github.com/melakago/backend/pkg/metrics"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()
	loc := service.AdvisoryTimeLocation()

	collector := metrics.NewCollector("melakago")

	// Historical table: Postgres when configured, otherwise the CSV-backed
	// in-memory table
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var history domain.HistoryRepository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Could not connect to database: %v", err)
		}
		defer pool.Close()
		history = postgres.NewPostgresRepository(pool)
		log.Println("Historical table: PostgreSQL")
	} else {
		repo, err := memory.NewFromCSV(cfg.HistoryCSVPath, loc)
		if err != nil {
			log.Fatalf("Could not load historical table: %v", err)
		}
		history = repo
		log.Printf("Historical table: %s (%d rows)", cfg.HistoryCSVPath, repo.Len())
	}

	// Dependency Injection: Services
	weatherSvc := service.NewWeatherService(loc)
	forecastSrc := service.NewCachedForecastSource(weatherSvc, cfg.ForecastCacheTTL, collector)
	builder := feature.NewBuilder(forecastSrc, history)
	mlBridge := service.NewMLBridge(cfg.ModelServiceURL, collector)
	advisorySvc := service.NewAdvisoryService(builder, mlBridge, collector)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "MelakaGo API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	handler := http.NewHandler(advisorySvc, forecastSrc, mlBridge, history, loc)
	http.SetupRoutes(app, handler)

	// Prometheus sidecar listener
	go func() {
		mux := nethttp.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := ":" + cfg.MetricsPort
		log.Printf("Metrics listening on %s", addr)
		if err := nethttp.ListenAndServe(addr, mux); err != nil {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

type Config struct {
	DatabaseURL      string
	ModelServiceURL  string
	HistoryCSVPath   string
	ForecastCacheTTL time.Duration
	Port             string
	MetricsPort      string
	Env              string
}

func loadConfig() *Config {
	ttl := time.Hour
	if v := os.Getenv("FORECAST_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		} else {
			log.Printf("Invalid FORECAST_CACHE_TTL %q, using %s", v, ttl)
		}
	}

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		ModelServiceURL:  getEnv("MODEL_SERVICE_URL", "http://localhost:8000"),
		HistoryCSVPath:   getEnv("HISTORY_CSV_PATH", "dashboard_data.csv"),
		ForecastCacheTTL: ttl,
		Port:             getEnv("PORT", "8080"),
		MetricsPort:      getEnv("METRICS_PORT", "9090"),
		Env:              getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
