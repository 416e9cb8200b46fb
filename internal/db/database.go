package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/envutil"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDatabaseService opens the store named by DB_DRIVER (sqlite by
// default, postgres in deployments that need it) and enforces foreign keys
// either way: sqlite via PRAGMA, postgres natively.
func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
	serviceLog := log.With("service", "DatabaseService")

	driver := strings.ToLower(envutil.GetEnv("DB_DRIVER", "sqlite", log))

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		host := envutil.GetEnv("POSTGRES_HOST", "localhost", log)
		port := envutil.GetEnv("POSTGRES_PORT", "5432", log)
		user := envutil.GetEnv("POSTGRES_USER", "postgres", log)
		password := envutil.GetEnv("POSTGRES_PASSWORD", "", log)
		name := envutil.GetEnv("POSTGRES_NAME", "edvance", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

		serviceLog.Info("Connecting to Postgres...")
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		path := envutil.GetEnv("SQLITE_PATH", "edvance.db", log)
		serviceLog.Info("Opening SQLite database...", "path", path)
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err == nil {
			err = db.Exec("PRAGMA foreign_keys = ON").Error
		}
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		serviceLog.Error("Failed to connect to database", "driver", driver, "error", err)
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	return &DatabaseService{db: db, log: serviceLog}, nil
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.CourseModule{},
		&domain.Lesson{},
		&domain.Enrollment{},
		&domain.LessonProgress{},
		&domain.CareerPath{},
		&domain.UserCareerProgress{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *DatabaseService) DB() *gorm.DB {
	return s.db
}
