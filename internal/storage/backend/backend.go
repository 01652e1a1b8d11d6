// Package backend opens the storage.Storage selected by the configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/campusdev/student-registry/internal/config"
	"github.com/campusdev/student-registry/internal/storage"
	"github.com/campusdev/student-registry/internal/storage/memory"
	"github.com/campusdev/student-registry/internal/storage/mongo"
	"github.com/campusdev/student-registry/internal/storage/postgres"
	"github.com/campusdev/student-registry/internal/storage/redis"
	"github.com/campusdev/student-registry/internal/storage/sqlite"
)

// Open connects to the backend named by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		s, err := sqlite.New(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMongo:
		s, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverRedis:
		s, err := redis.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
