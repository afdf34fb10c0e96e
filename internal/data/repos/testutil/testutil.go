package testutil

import (
	"os"
	"sync"
	"testing"

	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns the shared test database. It prefers TEST_POSTGRES_DSN and
// falls back to an in-memory sqlite database so repo tests run without
// infrastructure.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		cfg := &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		}

		if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
			db, dbErr = gorm.Open(postgres.Open(dsn), cfg)
		} else {
			db, dbErr = gorm.Open(sqlite.Open("file::memory:?cache=shared"), cfg)
		}
		if dbErr != nil {
			return
		}

		dbErr = autoMigrateAll(db)
	})

	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

func autoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Agreement{},
		&types.WalletAccount{},
		&types.LedgerEntry{},
	)
}

// Tx begins a transaction that is rolled back when the test finishes, so
// tests never leak rows into the shared database.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
