// database.go - Handles database connection and setup

package database

import (
	"fmt"
	"strings"

	"calorie-backend/models"

	"gorm.io/driver/sqlite" // SQLite driver for GORM
	"gorm.io/gorm"          // GORM ORM
	"gorm.io/gorm/logger"
)

// Connect opens the SQLite database at dbPath and migrates the schema.
// dbPath may be a plain file name or a "file:" URI (used for in-memory test DBs).
func Connect(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(withPragmas(dbPath)), &gorm.Config{
		TranslateError: true, // Surface unique violations as gorm.ErrDuplicatedKey
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}

	// Auto-migrate the models (create tables if needed)
	if err := db.AutoMigrate(&models.User{}, &models.FoodLog{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// withPragmas turns on FK enforcement (entries cannot point at missing users)
// and a busy timeout so concurrent writers wait instead of failing at once.
// Transactions take the write lock up front; a deferred one that reads first
// can deadlock against another writer and fail without waiting.
func withPragmas(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	for _, p := range []string{"_foreign_keys=on", "_busy_timeout=5000", "_txlock=immediate"} {
		key := p[:strings.Index(p, "=")]
		if strings.Contains(dsn, key) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p
	}
	return dsn
}
