package data

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a gorm DB for the configured driver with sane defaults.
func Open(driver, dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags),
		logger.Config{SlowThreshold: time.Second, LogLevel: logger.Warn, IgnoreRecordNotFoundError: true, Colorful: false},
	)
	cfg := &gorm.Config{Logger: gormLogger}

	switch strings.ToLower(driver) {
	case "", "sqlite":
		return gorm.Open(sqlite.Open(sqliteDSN(dsn)), cfg)
	case "mysql":
		dsn = ensureParam(dsn, "parseTime", "true")
		if !strings.Contains(dsn, "charset=") {
			dsn = ensureParam(dsn, "charset", "utf8mb4")
			dsn = ensureParam(dsn, "collation", "utf8mb4_unicode_ci")
		}
		return gorm.Open(mysql.Open(dsn), cfg)
	case "postgres", "postgresql":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func MustOpen(driver, dsn string) *gorm.DB {
	db, err := Open(driver, dsn)
	if err != nil {
		log.Fatalf("db (%s): %v", driver, err)
	}
	return db
}

// sqliteDSN turns on a busy timeout so overlapping writers wait instead of
// failing with SQLITE_BUSY.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "admin_data.db"
	}
	if strings.Contains(dsn, "_pragma=busy_timeout") {
		return dsn
	}
	return ensureParam(dsn, "_pragma", "busy_timeout(5000)")
}

func ensureParam(dsn, key, val string) string {
	if strings.Contains(dsn, key+"=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + key + "=" + val
}
