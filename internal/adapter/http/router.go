package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"todoapp/internal/adapter/http/handler"
	"todoapp/internal/adapter/http/middleware"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/telemetry"
	"todoapp/pkg/config"
)

type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	AdminHandler   *handler.AdminHandler
	Validator      middleware.TokenValidator
	Denylist       middleware.DenyChecker
	Metrics        *telemetry.AppMetrics
	Logger         *config.LokiLogger
	Config         *config.AppConfig
}

func SetupRouter(rc RouterConfig) *gin.Engine {
	router := gin.New()

	cfg := rc.Config
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}

	logger := rc.Logger
	if logger == nil {
		logger = config.NewNopLogger()
	}

	router.Use(gin.Recovery())
	router.Use(config.NewHTTPSEnforcer(cfg, logger.Logger.Logger).HTTPSMiddleware())
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(corsMiddleware())

	if rc.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(rc.Metrics))
	}

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.RateLimitEnabled {
		limit = config.NewRateLimiter(logger.Logger.Logger, rc.Metrics, cfg.RateLimitConfigs).RateLimitMiddleware()
	}

	router.GET("/healthz", handler.Health)

	public := router.Group("/")
	public.Use(limit)
	{
		public.POST("/signup", rc.AuthHandler.RegisterByEmailAndPassword)
		public.POST("/auth", rc.AuthHandler.AuthByEmailAndPassword)
		public.POST("/auth/google", rc.AuthHandler.AuthWithGoogle)
		public.POST("/auth/refresh", rc.AuthHandler.Refresh)
	}

	protected := router.Group("/")
	protected.Use(middleware.JWTMiddleware(rc.Validator, rc.Denylist))
	protected.Use(limit)
	{
		protected.POST("/auth/logout", rc.AuthHandler.Logout)
		protected.POST("/auth/logout-all", rc.AuthHandler.LogoutEverywhere)
		protected.GET("/me", rc.AccountHandler.Me)
		protected.PUT("/me/password", rc.AccountHandler.ChangePassword)
	}

	if rc.AdminHandler != nil {
		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole(domain.Admin))
		{
			admin.POST("/accounts/:id/roles", rc.AdminHandler.AssignRole)
			admin.POST("/accounts/:id/claims", rc.AdminHandler.AddClaim)
			admin.DELETE("/users/:id", rc.AdminHandler.DeleteUser)
		}
	}

	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
