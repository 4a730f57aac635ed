package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/gardensim/engine/internal/config"
	"github.com/gardensim/engine/internal/database"
	"github.com/gardensim/engine/internal/storage"
)

// initStorage builds and initializes the run-recording backend chosen in
// config. Database-backed storage also returns the connection manager so
// shutdown can dump an in-memory SQLite fallback to disk.
func initStorage() (storage.Backend, *database.Manager, error) {
	storageCfg := config.GetStorageConfig()

	var db *gorm.DB
	var dbManager *database.Manager
	if storageNeedsDatabase(storageCfg.Type) {
		dbManager = database.NewManager(zerolog.New(os.Stderr).With().Timestamp().Logger())
		if storageCfg.Type == "sqlite" {
			// Explicit sqlite mode skips the Postgres attempt.
			sqliteDB, err := dbManager.GetSqliteDB("")
			if err != nil {
				return nil, nil, fmt.Errorf("opening sqlite: %w", err)
			}
			dbManager.DB = sqliteDB
			dbManager.ShouldSaveLocal = true
			dbManager.IsValid = true
		} else if err := dbManager.Connect(); err != nil {
			return nil, nil, fmt.Errorf("connecting database: %w", err)
		}
		if dbManager.ShouldSaveLocal {
			dbManager.SqliteFilePath = filepath.Join(
				viper.GetString("logsDir"),
				fmt.Sprintf("%s_%s.db", EngineName, SessionStartTime.Format("20060102_150405")),
			)
		}
		if err := dbManager.Setup(); err != nil {
			return nil, nil, fmt.Errorf("migrating database: %w", err)
		}
		db = dbManager.DB
		Logger.Info("Database connected", "local", dbManager.ShouldSaveLocal)
	}

	backend, err := storage.NewBackend(storageCfg, db)
	if err != nil {
		return nil, nil, err
	}
	if err := backend.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing %s backend: %w", storageCfg.Type, err)
	}
	Logger.Info("Storage backend initialized", "type", storageCfg.Type)
	return backend, dbManager, nil
}

func storageNeedsDatabase(backendType string) bool {
	switch backendType {
	case "gorm", "postgres", "sqlite":
		return true
	}
	return false
}
