// internal/storage/factory.go
package storage

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gardensim/engine/internal/config"
	gormstore "github.com/gardensim/engine/internal/storage/gorm"
	"github.com/gardensim/engine/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration. The
// database handle is only required for the gorm backend.
func NewBackend(cfg config.StorageConfig, db *gorm.DB) (Backend, error) {
	switch cfg.Type {
	case "gorm", "postgres", "sqlite":
		if db == nil {
			return nil, fmt.Errorf("storage type %q requires a database connection", cfg.Type)
		}
		return gormstore.New(db, cfg.Gorm), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
