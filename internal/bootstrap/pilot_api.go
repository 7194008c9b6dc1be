package bootstrap

import (
	"context"
	"strings"

	"mailpilot/adapter/in/http"
	"mailpilot/config"
	"mailpilot/infra/database"
	"mailpilot/infra/middleware"
	"mailpilot/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const bodyLimit = 1 * 1024 * 1024

func NewAPI(ctx context.Context, cfg *config.Config) (*fiber.App, func(), error) {
	deps, cleanup, err := NewDependencies(ctx, cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app, limiter := newApp(cfg, deps)
	return app, func() {
		limiter.Close()
		cleanup()
	}, nil
}

func newApp(cfg *config.Config, deps *Dependencies) (*fiber.App, *middleware.RateLimiter) {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             bodyLimit,
		ServerHeader:          "",
		DisableDefaultDate:    true,
	})

	// Order matters: the logger renders errors returned below it.
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Recover())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(cors.New(corsConfig(cfg)))

	checks := map[string]http.Pinger{"postgres": nil, "redis": nil}
	if deps.DB != nil {
		checks["postgres"] = deps.DB
	}
	if deps.Redis != nil {
		checks["redis"] = http.PingFunc(func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() })
	}
	health := http.NewHealthHandler(checks, deps.LLM.State)
	if deps.Latency != nil {
		health.WithStats("generation_latency", func() any { return deps.Latency.Snapshot() })
	}
	if deps.DB != nil {
		health.WithStats("postgres_pool", func() any { return database.GetPoolStats(deps.DB) })
	}
	health.Register(app)

	// Generation routes are public, matching the compose page.
	http.NewComposeHandler(deps.ComposeService).Register(app.Group("/api/email"))

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	if !deps.HasStore() {
		return app, limiter
	}

	requireAuth := middleware.JWTAuth(cfg.JWTSecret, deps.Blacklist)
	v1 := app.Group("/api/v1")

	http.NewAuthHandler(deps.AuthService).Register(v1, limiter.Handler(), requireAuth)

	protected := v1.Group("", requireAuth)
	http.NewProfileHandler(deps.AuthService).Register(protected)
	http.NewEmailHandler(deps.EmailService).Register(protected)
	http.NewAnalyticsHandler(deps.AnalyticsService).Register(protected)

	return app, limiter
}

func corsConfig(cfg *config.Config) cors.Config {
	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	allowCredentials := true
	if allowOrigins == "" || allowOrigins == "*" {
		allowCredentials = false
		if cfg.IsProduction() {
			allowOrigins = ""
		} else {
			allowOrigins = "http://localhost:3000"
		}
	}
	return cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID,X-RateLimit-Limit,X-RateLimit-Remaining,X-RateLimit-Reset",
		AllowCredentials: allowCredentials,
		MaxAge:           86400,
	}
}
