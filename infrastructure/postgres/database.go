package postgres

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gofiber-todo/domain/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver    string // postgres, sqlite
	Host      string
	Port      string
	User      string
	Password  string
	DBName    string
	SSLMode   string
	SQLiteDSN string // เช่น data/todo.db หรือ file::memory:?cache=shared
	LogLevel  string // silent, error, warn, info
}

func NewDatabase(config DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch config.Driver {
	case DriverSQLite:
		if err := ensureDirForSQLite(config.SQLiteDSN); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(withForeignKeys(config.SQLiteDSN))
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			config.Host, config.User, config.Password, config.DBName, config.Port, config.SSLMode)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(config.LogLevel)),
		// map unique violation -> gorm.ErrDuplicatedKey (ใช้ตอน retry slug)
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if config.Driver == DriverSQLite {
		// sqlite เขียนได้ทีละ connection และ :memory: แยก db ต่อ connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Task{}, "Categories", &models.TaskCategory{}); err != nil {
		return fmt.Errorf("setup task_categories join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Category{}, "Tasks", &models.TaskCategory{}); err != nil {
		return fmt.Errorf("setup task_categories join table: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Category{},
		&models.TaskCategory{},
	)
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// withForeignKeys เปิด PRAGMA foreign_keys ให้ cascade ทำงานบน sqlite
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	return dsn + "?_foreign_keys=1"
}

func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
