package db

import (
	"errors"
	"fmt"

	"github.com/kasuganosora/gearkeeper/config"
	dbmysql "github.com/kasuganosora/gearkeeper/db/mysql"
	dbsqlite "github.com/kasuganosora/gearkeeper/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeDisabled = ""
	ModeSQLite   = "sqlite"
	ModeMySQL    = "mysql"
)

// ErrDisabled is returned by Open when no database mode is configured.
var ErrDisabled = errors.New("db: export database disabled")

// Open returns a *gorm.DB for the configured database mode.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeDisabled:
		return nil, ErrDisabled
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeMySQL:
		return dbmysql.Open(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle, cfg.MySQLMaxLife)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
