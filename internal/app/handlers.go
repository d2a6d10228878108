package app

import (
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/handlers"
	"github.com/vitalog/vitalog-backend/internal/logger"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	User           *handlers.UserHandler
	SupplementType *handlers.SupplementTypeHandler
	Supplement     *handlers.SupplementHandler
	IntakeLog      *handlers.IntakeLogHandler
	UserSupplement *handlers.UserSupplementHandler
	Healthcheck    *handlers.HealthcheckHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:           handlers.NewAuthHandler(serviceset.Auth),
		User:           handlers.NewUserHandler(serviceset.User),
		SupplementType: handlers.NewSupplementTypeHandler(serviceset.TypeCatalog),
		Supplement:     handlers.NewSupplementHandler(serviceset.Supplement),
		IntakeLog:      handlers.NewIntakeLogHandler(serviceset.Intake),
		UserSupplement: handlers.NewUserSupplementHandler(serviceset.UserSupplement),
		Healthcheck:    handlers.NewHealthcheckHandler(db),
	}
}
