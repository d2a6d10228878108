package app

import (
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	User           services.UserService
	TypeCatalog    services.TypeCatalogService
	Supplement     services.SupplementService
	Intake         services.IntakeService
	UserSupplement services.UserSupplementService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")
	supplementService := services.NewSupplementService(
		db,
		log,
		reposet.Supplement,
		reposet.SupplementType,
		reposet.SupplementTypeRelation,
	)
	return Services{
		Auth: services.NewAuthService(
			db,
			log,
			reposet.User,
			reposet.UserToken,
			cfg.JWTSecretKey,
			cfg.AccessTokenTTL,
			cfg.RefreshTokenTTL,
		),
		User:        services.NewUserService(db, log, reposet.User),
		TypeCatalog: services.NewTypeCatalogService(db, log, reposet.SupplementType, reposet.SupplementTypeRelation),
		Supplement:  supplementService,
		Intake: services.NewIntakeService(
			db,
			log,
			reposet.IntakeLog,
			reposet.Supplement,
			supplementService,
		),
		UserSupplement: services.NewUserSupplementService(
			db,
			log,
			reposet.UserSupplement,
			reposet.Supplement,
			supplementService,
		),
	}
}
