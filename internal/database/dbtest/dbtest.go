// Package dbtest opens throwaway SQLite databases with the full schema.
package dbtest

import (
	"path/filepath"
	"testing"

	"rentpos-backend/internal/database"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New returns a migrated database in the test's temp dir. A single open
// connection serialises transactions the way row locks would on Postgres.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "rentpos.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := database.OpenDialector(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}
