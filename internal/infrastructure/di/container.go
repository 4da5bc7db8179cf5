package di

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/folio-service/folio_service/internal/adapters/pricing"
	"github.com/folio-service/folio_service/internal/api/handlers"
	"github.com/folio-service/folio_service/internal/api/routes"
	"github.com/folio-service/folio_service/internal/domain/services/advisory"
	"github.com/folio-service/folio_service/internal/domain/services/assets"
	"github.com/folio-service/folio_service/internal/domain/services/portfolio"
	pricingsvc "github.com/folio-service/folio_service/internal/domain/services/pricing"
	"github.com/folio-service/folio_service/internal/domain/services/valuation"
	"github.com/folio-service/folio_service/internal/infrastructure/ai"
	"github.com/folio-service/folio_service/internal/infrastructure/config"
	"github.com/folio-service/folio_service/internal/infrastructure/database"
	"github.com/folio-service/folio_service/internal/infrastructure/repositories"
	"github.com/folio-service/folio_service/internal/workers/revaluation"
	"github.com/folio-service/folio_service/pkg/health"
	"github.com/folio-service/folio_service/pkg/jobqueue"
	"github.com/folio-service/folio_service/pkg/logger"
	"github.com/folio-service/folio_service/pkg/ratelimit"
)

// Container wires the application graph: config and infrastructure at the
// bottom, domain services in the middle, the HTTP router on top.
type Container struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *sqlx.DB
	Redis     *redis.Client
	Router    *gin.Engine
	Scheduler *jobqueue.JobScheduler

	RevaluationJob *revaluation.Job
}

// New builds the full dependency graph
func New(cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.Connect(cfg.Database.URL, log.Zap())
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Repositories
	userRepo := repositories.NewUserRepository(db, log.Zap())
	accountRepo := repositories.NewAccountRepository(db, log.Zap())
	assetRepo := repositories.NewAssetRepository(db, log.Zap())
	notificationRepo := repositories.NewNotificationRepository(db, log.Zap())
	historyRepo := repositories.NewPriceHistoryRepository(db, log.Zap())

	// Price adapters and aggregator
	timeout := time.Duration(cfg.Pricing.TimeoutSeconds) * time.Second
	coingecko := pricing.NewCoinGeckoAdapter(cfg.Pricing.CoinGeckoBaseURL, timeout, log.Zap())
	finnhub := pricing.NewFinnhubAdapter(cfg.Pricing.FinnhubBaseURL, cfg.Pricing.FinnhubAPIKey, timeout, log.Zap())
	goldapi := pricing.NewGoldAPIAdapter(cfg.Pricing.GoldAPIBaseURL, cfg.Pricing.GoldAPIKey, timeout, log.Zap())
	aggregator := pricingsvc.NewAggregator(coingecko, finnhub, goldapi, log.Zap())

	// Domain services
	valuationSvc := valuation.NewService(aggregator, log.Zap())

	var provider ai.Provider
	if cfg.Advisory.GeminiAPIKey != "" {
		provider = ai.NewGeminiProvider(&ai.ProviderConfig{
			APIKey:       cfg.Advisory.GeminiAPIKey,
			Model:        cfg.Advisory.Model,
			MaxTokens:    cfg.Advisory.MaxTokens,
			Temperature:  cfg.Advisory.Temperature,
			Timeout:      time.Duration(cfg.Advisory.TimeoutSeconds) * time.Second,
			RateLimitRPM: cfg.Advisory.RateLimitRPM,
		}, log.Zap())
	}
	advisorySvc := advisory.NewService(provider, log.Zap())

	assetSvc := assets.NewService(accountRepo, assetRepo, notificationRepo, historyRepo, log.Zap())
	portfolioSvc := portfolio.NewService(assetRepo, valuationSvc, advisorySvc, log.Zap())

	// Background revaluation
	revaluationJob := revaluation.NewJob(assetRepo, historyRepo, notificationRepo, aggregator, log.Zap())
	scheduler := jobqueue.NewJobScheduler(log.Zap())

	// Rate limiting and health
	limiter := ratelimit.NewSlidingWindowLimiter(redisClient, ratelimit.Config{
		Limit:     int64(cfg.Server.RateLimitPerMin),
		Window:    time.Minute,
		KeyPrefix: "folio:ratelimit",
	}, log.Zap())

	checker := health.NewHealthChecker(10 * time.Second)
	checker.Register(health.NewDatabaseChecker(db))
	checker.Register(health.NewRedisChecker(redisClient))

	router := routes.Setup(&routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		Users:       userRepo,
		Limiter:     limiter,
		Accounts:    handlers.NewAccountHandler(accountRepo, log),
		Assets:      handlers.NewAssetHandler(assetSvc, log),
		Portfolio:   handlers.NewPortfolioHandler(portfolioSvc, log),
		Health:      handlers.NewHealthHandler(checker),
		Revaluation: handlers.NewRevaluationHandler(revaluationJob, log),
	})

	return &Container{
		Config:         cfg,
		Logger:         log,
		DB:             db,
		Redis:          redisClient,
		Router:         router,
		Scheduler:      scheduler,
		RevaluationJob: revaluationJob,
	}, nil
}

// Close releases held resources
func (c *Container) Close() {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Redis != nil {
		c.Redis.Close()
	}
}
