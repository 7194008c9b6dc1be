package bootstrap

import (
	"context"

	authadapter "mailpilot/adapter/out/auth"
	cacheadapter "mailpilot/adapter/out/cache"
	"mailpilot/adapter/out/persistence"
	"mailpilot/config"
	"mailpilot/core/agent/llm"
	"mailpilot/core/port/out"
	"mailpilot/core/service/analytics"
	"mailpilot/core/service/auth"
	"mailpilot/core/service/compose"
	"mailpilot/core/service/email"
	"mailpilot/infra/database"
	"mailpilot/pkg/logger"
	"mailpilot/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Dependencies struct {
	Config *config.Config
	DB     *pgxpool.Pool
	SQLDB  *sqlx.DB
	Redis  *redis.Client

	LLM     *llm.Client
	Latency *metrics.LatencyRegistry

	// Repositories
	EmailRepo     out.EmailRepository
	ProfileRepo   out.ProfileRepository
	AnalyticsRepo out.AnalyticsRepository
	Blacklist     out.TokenBlacklist
	SummaryCache  out.SummaryCache
	AuthProvider  out.AuthProvider

	// Services
	ComposeService   *compose.Service
	EmailService     *email.Service
	AnalyticsService *analytics.Service
	AuthService      *auth.Service
}

// HasStore reports whether the database-backed features are available.
func (d *Dependencies) HasStore() bool {
	return d.SQLDB != nil
}

// NewDependencies connects the stores and builds the services. Postgres and
// Redis are optional; without Postgres only the generation routes are served.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	deps.LLM = llm.NewClient(llm.ClientConfig{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		Model:           cfg.LLMModel,
		Timeout:         cfg.LLMTimeout,
		BreakerFailures: cfg.LLMBreakerFailures,
	})
	deps.Latency = metrics.NewLatencyRegistry(0)
	deps.ComposeService = compose.NewService(deps.LLM).WithLatency(deps.Latency)

	if cfg.RedisURL != "" {
		client, err := database.NewRedis(ctx, cfg.RedisURL, nil)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.Redis = client
		cleanups = append(cleanups, func() { _ = client.Close() })

		deps.Blacklist = cacheadapter.NewTokenBlacklist(client)
		deps.SummaryCache = cacheadapter.NewSummaryCache(client)
		logger.Info("Redis connected")
	} else {
		logger.Warn("REDIS_URL not set, token revocation and summary cache disabled")
	}

	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, application routes disabled")
		return deps, cleanup, nil
	}

	pool, err := database.NewPostgres(ctx, cfg.DatabaseURL, nil)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.DB = pool
	deps.SQLDB = database.NewSQLX(pool)
	cleanups = append(cleanups, func() {
		_ = deps.SQLDB.Close()
		pool.Close()
	})
	logger.Info("PostgreSQL connected")

	deps.EmailRepo = persistence.NewEmailAdapter(deps.SQLDB)
	deps.ProfileRepo = persistence.NewProfileAdapter(deps.SQLDB)
	deps.AnalyticsRepo = persistence.NewAnalyticsAdapter(deps.SQLDB)
	deps.AuthProvider = authadapter.NewSupabaseAdapter(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)

	deps.EmailService = email.NewService(deps.EmailRepo, deps.AnalyticsRepo, deps.SummaryCache)
	deps.AnalyticsService = analytics.NewService(deps.EmailRepo, deps.AnalyticsRepo, deps.SummaryCache, cfg.AnalyticsCacheTTL)
	deps.AuthService = auth.NewService(deps.AuthProvider, deps.ProfileRepo, deps.Blacklist)

	return deps, cleanup, nil
}
