package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/vitalog/vitalog-backend/internal/handlers"
	"github.com/vitalog/vitalog-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins          []string
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	UserHandler           *handlers.UserHandler
	SupplementTypeHandler *handlers.SupplementTypeHandler
	SupplementHandler     *handlers.SupplementHandler
	IntakeLogHandler      *handlers.IntakeLogHandler
	UserSupplementHandler *handlers.UserSupplementHandler
	HealthcheckHandler    *handlers.HealthcheckHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("vitalog"))

	// Cors
	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		// Type tags are readable by anyone, including anonymous callers.
		api.GET("/supplement-types", cfg.SupplementTypeHandler.List)
		api.GET("/supplement-types/:id", cfg.SupplementTypeHandler.Get)
	}

	// ===============
	// || Optional  ||
	// ===============
	// The supplement catalog is visible without a token (globals only); a
	// valid token widens reads to the caller's own entries and allows writes.
	optional := api.Group("/")
	optional.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		optional.GET("/supplements", cfg.SupplementHandler.List)
		optional.GET("/supplements/:id", cfg.SupplementHandler.Get)
		optional.POST("/supplements", cfg.SupplementHandler.Create)
		optional.PUT("/supplements/:id", cfg.SupplementHandler.Update)
		optional.DELETE("/supplements/:id", cfg.SupplementHandler.Delete)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Auth
		protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		// User
		protected.GET("/user", cfg.UserHandler.GetMe)
		protected.PUT("/user", cfg.UserHandler.UpdateProfile)
		// Supplement types (mutations only; reads are public above)
		protected.POST("/supplement-types", cfg.SupplementTypeHandler.Create)
		protected.PUT("/supplement-types/:id", cfg.SupplementTypeHandler.Rename)
		protected.DELETE("/supplement-types/:id", cfg.SupplementTypeHandler.Delete)
		// Intake ledger
		protected.GET("/intake-logs", cfg.IntakeLogHandler.List)
		protected.GET("/intake-logs/:id", cfg.IntakeLogHandler.Get)
		protected.POST("/intake-logs", cfg.IntakeLogHandler.Create)
		protected.POST("/intake-logs/batch", cfg.IntakeLogHandler.CreateBatch)
		protected.PUT("/intake-logs/:id", cfg.IntakeLogHandler.Update)
		protected.DELETE("/intake-logs/:id", cfg.IntakeLogHandler.Delete)
		// Pinned supplements
		protected.GET("/user-supplements", cfg.UserSupplementHandler.List)
		protected.GET("/user-supplements/:id", cfg.UserSupplementHandler.Get)
		protected.POST("/user-supplements", cfg.UserSupplementHandler.Add)
		protected.PUT("/user-supplements/:id", cfg.UserSupplementHandler.Update)
		protected.DELETE("/user-supplements/:id", cfg.UserSupplementHandler.Delete)
	}

	return router
}
