package app

import (
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/repos"
)

type Repos struct {
	User                   repos.UserRepo
	UserToken              repos.UserTokenRepo
	SupplementType         repos.SupplementTypeRepo
	Supplement             repos.SupplementRepo
	SupplementTypeRelation repos.SupplementTypeRelationRepo
	IntakeLog              repos.IntakeLogRepo
	UserSupplement         repos.UserSupplementRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:                   repos.NewUserRepo(db, log),
		UserToken:              repos.NewUserTokenRepo(db, log),
		SupplementType:         repos.NewSupplementTypeRepo(db, log),
		Supplement:             repos.NewSupplementRepo(db, log),
		SupplementTypeRelation: repos.NewSupplementTypeRelationRepo(db, log),
		IntakeLog:              repos.NewIntakeLogRepo(db, log),
		UserSupplement:         repos.NewUserSupplementRepo(db, log),
	}
}
