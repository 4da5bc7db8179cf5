package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/folio-service/folio_service/internal/api/handlers"
	"github.com/folio-service/folio_service/internal/api/middleware"
	"github.com/folio-service/folio_service/internal/infrastructure/config"
	"github.com/folio-service/folio_service/pkg/logger"
	"github.com/folio-service/folio_service/pkg/ratelimit"
)

// Dependencies carries everything the router wires together
type Dependencies struct {
	Config       *config.Config
	Logger       *logger.Logger
	Users        middleware.UserResolver
	Limiter      ratelimit.Limiter
	Accounts     *handlers.AccountHandler
	Assets       *handlers.AssetHandler
	Portfolio    *handlers.PortfolioHandler
	Health       *handlers.HealthHandler
	Revaluation  *handlers.RevaluationHandler
}

// Setup builds the gin engine with all routes and middleware
func Setup(deps *Dependencies) *gin.Engine {
	if deps.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.Metrics(),
		middleware.SecurityHeaders(),
		middleware.CORS(deps.Config.Server.AllowedOrigins),
	)

	// Unauthenticated surface
	router.GET("/health", deps.Health.Health)
	router.GET("/health/live", deps.Health.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Internal surface, shared-secret guarded
	internal := router.Group("/internal")
	internal.Use(middleware.CronSecret(deps.Config.Revaluation.CronSecret))
	internal.POST("/revaluate", deps.Revaluation.Run)

	// Device-authenticated API
	api := router.Group("/api/v1")
	api.Use(
		ratelimit.Middleware(deps.Limiter, ratelimit.DeviceKeyFunc, deps.Logger.Zap()),
		middleware.DeviceAuth(deps.Users, deps.Logger),
	)

	accounts := api.Group("/accounts")
	{
		accounts.POST("", deps.Accounts.Create)
		accounts.GET("", deps.Accounts.List)
		accounts.DELETE("/:id", deps.Accounts.Delete)
		accounts.GET("/:id/assets", deps.Assets.ListByAccount)
	}

	assets := api.Group("/assets")
	{
		assets.POST("", deps.Assets.Create)
		assets.GET("", deps.Portfolio.Assets)
		assets.GET("/:id", deps.Assets.Get)
		assets.PUT("/:id", deps.Assets.Update)
		assets.DELETE("/:id", deps.Assets.Delete)
		assets.GET("/:id/history", deps.Assets.PriceHistory)
		assets.POST("/:id/rules", deps.Assets.CreateRule)
		assets.GET("/:id/rules", deps.Assets.ListRules)
		assets.DELETE("/rules/:ruleId", deps.Assets.DeleteRule)
	}

	portfolio := api.Group("/portfolio")
	{
		portfolio.GET("/summary", deps.Portfolio.Summary)
		portfolio.POST("/analysis", deps.Portfolio.Analyze)
	}

	return router
}
