package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "vitalog", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Migrating postgres tables...")
	if err := Migrate(s.db); err != nil {
		s.log.Error("Migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for _, stmt := range []string{
		`ALTER TABLE "user_token"
		 ADD CONSTRAINT "fk_user_token_user_id"
		 FOREIGN KEY ("user_id") REFERENCES "user"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "supplement_type_relation"
		 ADD CONSTRAINT "fk_relation_supplement_id"
		 FOREIGN KEY ("supplement_id") REFERENCES "supplement"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "supplement_type_relation"
		 ADD CONSTRAINT "fk_relation_type_id"
		 FOREIGN KEY ("type_id") REFERENCES "supplement_type"("id")
		 ON DELETE CASCADE`,
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			// Re-running migrations against an existing schema trips
			// duplicate-constraint errors; those are fine.
			s.log.Debug("Skipping FK statement", "error", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
