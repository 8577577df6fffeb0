package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kasuganosora/gearkeeper/config"
	dbadapter "github.com/kasuganosora/gearkeeper/db"
	"github.com/kasuganosora/gearkeeper/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupTestDB creates a private in-memory SQLite database and runs
// AutoMigrate. Each test gets its own named database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode:       dbadapter.ModeSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err, "SetupTestDB: Open")
	sqlDB, err := db.DB()
	require.NoError(t, err, "SetupTestDB: DB")
	// one connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}

// Logger returns a development logger for tests.
func Logger() *zap.Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
