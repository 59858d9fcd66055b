package repository

import (
	"path/filepath"
	"testing"
	"time"

	"qaservice/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a migrated SQLite database in the test's temp directory.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.InitDB(&config.Config{
		DBDriver:          config.DriverSQLite,
		SQLitePath:        filepath.Join(t.TempDir(), "qa.db"),
		DBPoolSize:        2,
		DBMaxOverflow:     2,
		DBConnMaxLifetime: time.Hour,
		DBLogLevel:        "silent",
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		config.CloseDB(db)
	})
	return db
}
