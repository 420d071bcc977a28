package app

import (
	"context"
	"errors"

	"github.com/joefazee/visaguide/app/database"
	"github.com/joefazee/visaguide/app/storage"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/metrics"
)

// OpenStorage dials the configured primary backend behind the file
// fallback. The returned func closes whatever connection the primary opened
// and is safe to call when the primary was never reached.
func OpenStorage(ctx context.Context, cfg *StorageConfig, log logger.Logger, m *metrics.Metrics) (*storage.Failover, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				errs = append(errs, err)
			}
		}
		closers = nil
		return errors.Join(errs...)
	}

	var connect storage.Connector
	switch cfg.Storage.Backend {
	case storage.BackendMongo:
		connect = func(ctx context.Context) (storage.Store, error) {
			client, db, err := database.NewMongo(ctx, &cfg.Mongo, storage.NewRegistry())
			if err != nil {
				return nil, err
			}
			closers = append(closers, func() error {
				return client.Disconnect(context.Background())
			})
			return storage.NewMongoStore(ctx, db, cfg.Mongo.Collection, m)
		}
	case storage.BackendPostgres:
		connect = func(ctx context.Context) (storage.Store, error) {
			db, err := database.New(&cfg.DB)
			if err != nil {
				return nil, err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			closers = append(closers, sqlDB.Close)
			if err := database.Migrate(cfg.MigrationsDir, cfg.DB.URL()); err != nil {
				return nil, err
			}
			return storage.NewPostgresStore(db, m), nil
		}
	}

	failover, err := storage.Open(ctx, cfg.Storage, connect, log, m)
	if err != nil {
		return nil, nil, errors.Join(err, closeAll())
	}
	return failover, closeAll, nil
}
