package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"qaservice/models"

	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
)

// InitDB opens the connection pool. At most DBPoolSize connections stay idle
// and DBPoolSize+DBMaxOverflow may be open; callers past that block until a
// connection is released.
func InitDB(cfg *Config) (*gorm.DB, error) {
	level, err := gormLogLevel(cfg.DBLogLevel)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", cfg.SQLitePath)
		dialector = gormlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DBPoolSize)
	sqlDB.SetMaxOpenConns(cfg.DBPoolSize + cfg.DBMaxOverflow)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}

// Migrate creates or updates the questions and answers tables, including the
// cascading foreign key from answers to questions.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Question{}, &models.Answer{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CloseDB releases every pooled connection.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitRedis returns nil when no Redis host is configured.
func InitRedis(cfg *Config) *redis.Client {
	if !cfg.RedisEnabled() {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func gormLogLevel(name string) (logger.LogLevel, error) {
	switch name {
	case "silent":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "warn", "":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	}
	return 0, fmt.Errorf("unsupported DB_LOG_LEVEL %q (supported: silent, error, warn, info)", name)
}
