package services

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vitalog/vitalog-backend/internal/db"
	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/repos"
)

// testEnv wires the real repos and services against a throwaway sqlite file so
// service tests exercise the actual constraints, including the unique indexes
// the conflict paths depend on.
type testEnv struct {
	db              *gorm.DB
	typeCatalog     TypeCatalogService
	supplements     SupplementService
	intake          IntakeService
	userSupplements UserSupplementService

	typeRepo       repos.SupplementTypeRepo
	supplementRepo repos.SupplementRepo
	relationRepo   repos.SupplementTypeRelationRepo
	intakeRepo     repos.IntakeLogRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(func() { log.Sync() })

	typeRepo := repos.NewSupplementTypeRepo(gormDB, log)
	supplementRepo := repos.NewSupplementRepo(gormDB, log)
	relationRepo := repos.NewSupplementTypeRelationRepo(gormDB, log)
	intakeRepo := repos.NewIntakeLogRepo(gormDB, log)
	userSupplementRepo := repos.NewUserSupplementRepo(gormDB, log)

	supplementService := NewSupplementService(gormDB, log, supplementRepo, typeRepo, relationRepo)
	return &testEnv{
		db:              gormDB,
		typeCatalog:     NewTypeCatalogService(gormDB, log, typeRepo, relationRepo),
		supplements:     supplementService,
		intake:          NewIntakeService(gormDB, log, intakeRepo, supplementRepo, supplementService),
		userSupplements: NewUserSupplementService(gormDB, log, userSupplementRepo, supplementRepo, supplementService),
		typeRepo:        typeRepo,
		supplementRepo:  supplementRepo,
		relationRepo:    relationRepo,
		intakeRepo:      intakeRepo,
	}
}
