package app

import (
	"github.com/gin-gonic/gin"

	"github.com/vitalog/vitalog-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowOrigins:          cfg.AllowOrigins,
		AuthHandler:           handlerset.Auth,
		AuthMiddleware:        middlewareset.Auth,
		UserHandler:           handlerset.User,
		SupplementTypeHandler: handlerset.SupplementType,
		SupplementHandler:     handlerset.Supplement,
		IntakeLogHandler:      handlerset.IntakeLog,
		UserSupplementHandler: handlerset.UserSupplement,
		HealthcheckHandler:    handlerset.Healthcheck,
	})
}
