// Package bootstrap assembles the service from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/newsdesk/newsroom/internal/config"
	"github.com/newsdesk/newsroom/internal/docstore"
	"github.com/newsdesk/newsroom/internal/docstore/bolt"
	"github.com/newsdesk/newsroom/internal/docstore/memory"
	"github.com/newsdesk/newsroom/internal/persistence"
	"github.com/newsdesk/newsroom/internal/repository"
	"github.com/newsdesk/newsroom/internal/service"
)

// Storage is an opened persistence backend.
type Storage struct {
	Driver string
	Repos  repository.Repositories
	ping   func(ctx context.Context) error
	close  func()
}

// Ping checks the backend is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend.
func (s *Storage) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStorage connects the configured driver and seeds the default roles.
// Postgres migrations run first when POSTGRES_RUN_MIGRATIONS is set.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	var storage *Storage

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		storage = &Storage{
			Driver: cfg.Storage.Driver,
			Repos: repository.Repositories{
				Users:    repository.NewUserRepository(pg.Pool),
				Roles:    repository.NewRoleRepository(pg.Pool),
				Articles: repository.NewArticleRepository(pg.Pool),
				Comments: repository.NewCommentRepository(pg.Pool),
			},
			ping:  pg.Ping,
			close: pg.Close,
		}
	case config.DriverBolt:
		store, err := bolt.Open(cfg.Storage.BoltPath)
		if err != nil {
			return nil, err
		}
		logger.Info("opened bolt store", zap.String("path", cfg.Storage.BoltPath))
		storage = documentStorage(cfg.Storage.Driver, store, logger)
	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		storage = documentStorage(cfg.Storage.Driver, memory.NewStore(), logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if err := service.NewRoleService(storage.Repos.Roles).Seed(ctx); err != nil {
		storage.Close()
		return nil, fmt.Errorf("seed roles: %w", err)
	}
	return storage, nil
}

func documentStorage(driver string, store docstore.Store, logger *zap.Logger) *Storage {
	return &Storage{
		Driver: driver,
		Repos:  repository.NewDocumentRepositories(store),
		ping: func(context.Context) error {
			return store.View(func(docstore.Tx) error { return nil })
		},
		close: func() {
			if err := store.Close(); err != nil {
				logger.Warn("close store", zap.Error(err))
			}
		},
	}
}
