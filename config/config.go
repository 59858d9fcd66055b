package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port            string
	BindAddress     string
	GinMode         string
	ShutdownTimeout time.Duration

	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	SQLitePath        string
	DBPoolSize        int
	DBMaxOverflow     int
	DBConnMaxLifetime time.Duration
	DBLogLevel        string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	EventsChannel string
}

// POSTGRES_USER, POSTGRES_PASSWORD and POSTGRES_DB hold the credentials for
// mysql as well; the names predate mysql support.
var defaults = map[string]interface{}{
	"PORT":                 "8080",
	"BIND_ADDRESS":         "",
	"GIN_MODE":             "release",
	"SHUTDOWN_TIMEOUT":     "10s",
	"DB_DRIVER":            DriverPostgres,
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"POSTGRES_USER":        "",
	"POSTGRES_PASSWORD":    "",
	"POSTGRES_DB":          "",
	"SQLITE_PATH":          "data/qa.db",
	"DB_POOL_SIZE":         5,
	"DB_MAX_OVERFLOW":      10,
	"DB_CONN_MAX_LIFETIME": "1h",
	"DB_LOG_LEVEL":         "warn",
	"REDIS_HOST":           "",
	"REDIS_PORT":           "6379",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"EVENTS_CHANNEL":       "qa:events",
}

// Load reads the configuration from defaults, then the dotenv file at
// envFile (skipped when empty or missing), then the process environment.
func Load(envFile string) (*Config, error) {
	vp := viper.New()
	for key, value := range defaults {
		vp.SetDefault(key, value)
	}

	if envFile != "" {
		vp.SetConfigFile(envFile)
		vp.SetConfigType("env")
		if err := vp.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}
	vp.AutomaticEnv()

	cfg := &Config{
		Port:              vp.GetString("PORT"),
		BindAddress:       vp.GetString("BIND_ADDRESS"),
		GinMode:           vp.GetString("GIN_MODE"),
		ShutdownTimeout:   vp.GetDuration("SHUTDOWN_TIMEOUT"),
		DBDriver:          strings.ToLower(vp.GetString("DB_DRIVER")),
		DBHost:            vp.GetString("DB_HOST"),
		DBPort:            vp.GetString("DB_PORT"),
		DBUser:            vp.GetString("POSTGRES_USER"),
		DBPassword:        vp.GetString("POSTGRES_PASSWORD"),
		DBName:            vp.GetString("POSTGRES_DB"),
		SQLitePath:        vp.GetString("SQLITE_PATH"),
		DBPoolSize:        vp.GetInt("DB_POOL_SIZE"),
		DBMaxOverflow:     vp.GetInt("DB_MAX_OVERFLOW"),
		DBConnMaxLifetime: vp.GetDuration("DB_CONN_MAX_LIFETIME"),
		DBLogLevel:        strings.ToLower(vp.GetString("DB_LOG_LEVEL")),
		RedisHost:         vp.GetString("REDIS_HOST"),
		RedisPort:         vp.GetString("REDIS_PORT"),
		RedisPassword:     vp.GetString("REDIS_PASSWORD"),
		RedisDB:           vp.GetInt("REDIS_DB"),
		EventsChannel:     vp.GetString("EVENTS_CHANNEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL:
		if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("%s requires a host, user and database name (DB_HOST, POSTGRES_USER, POSTGRES_DB)", c.DBDriver)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (supported: postgres, mysql, sqlite)", c.DBDriver)
	}

	if c.DBPoolSize < 1 {
		return fmt.Errorf("DB_POOL_SIZE must be at least 1, got %d", c.DBPoolSize)
	}
	if c.DBMaxOverflow < 0 {
		return fmt.Errorf("DB_MAX_OVERFLOW must not be negative, got %d", c.DBMaxOverflow)
	}
	if _, err := gormLogLevel(c.DBLogLevel); err != nil {
		return err
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported GIN_MODE %q (supported: debug, release, test)", c.GinMode)
	}
	return nil
}

func (c *Config) Addr() string {
	return c.BindAddress + ":" + c.Port
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
