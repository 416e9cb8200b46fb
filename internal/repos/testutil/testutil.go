// Package testutil provides a throwaway sqlite database plus fixture
// helpers for repo and service tests. Every test gets its own in-memory
// database, so tests can run in parallel without bleeding state.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

var dbSeq atomic.Int64

// Logger returns a quiet logger for tests.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("production")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

// DB opens a fresh in-memory sqlite database and migrates the full schema.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	// A named shared-cache DSN keeps the database alive across the pooled
	// connections gorm opens.
	dsn := fmt.Sprintf("file:test-%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// Deletion ordering is the engine's responsibility; tests must see
		// what the services do, not what DB-level cascades would hide.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
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
		tb.Fatalf("automigrate: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Tx begins a transaction that is rolled back when the test finishes.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() { tx.Rollback() })
	return tx
}
