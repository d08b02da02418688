package database

import (
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitializeDatabase opens the sqlite database and brings the schema up
// to date. The returned handle is the one shared connection pool for the
// whole process.
func InitializeDatabase(dbPath, migrationsDir string) *sqlx.DB {
	config := db.DatabaseConfig{
		DRIVER: "sqlite3",
		DB:     dbPath,
	}

	dbConn := db.GetDBConnection(config)

	err := migrations.Migrate(dbConn, migrationsDir)
	if err != nil {
		logger.Error("Error while running migration", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database initialized successfully")
	return dbConn
}
