package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/config"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
	pginfra "github.com/oksasatya/volunteer-hub/internal/infrastructure/postgres"
	"github.com/oksasatya/volunteer-hub/internal/infrastructure/sqlite"
	"github.com/oksasatya/volunteer-hub/pkg/helpers"
)

// OpenStore opens the Record Store selected by DB_DRIVER. For postgres the
// migrations in MigrationsDir are applied first.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		st, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		helpers.LogInfo(logger, "sqlite store opened", logrus.Fields{"path": cfg.SQLitePath})
		return st, nil
	case "postgres", "":
		if err := RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return pginfra.NewStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// RunMigrations applies db/migrations using database/sql with pgx stdlib.
func RunMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}

// Open builds Infra from cfg. Optional clients that fail to start are
// logged and left nil so their feature degrades instead of the process.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (Infra, error) {
	in := Infra{Config: cfg, Logger: logger}

	st, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return in, err
	}
	in.Store = st

	if cfg.RedisEnabled {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pctx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			_ = st.Close()
			return in, fmt.Errorf("connect redis: %w", err)
		}
		in.Redis = rdb
	}

	if cfg.NotifyAsync {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotificationQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable; notifications are delivered in-process", err, nil)
		} else {
			in.Rabbit = pub
		}
	}

	if cfg.SearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			helpers.LogError(logger, "elasticsearch unavailable; search falls back to the store", err, nil)
		} else {
			in.ES = es
		}
	}

	if cfg.MediaEnabled {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			helpers.LogError(logger, "gcs unavailable; image uploads are disabled", err, nil)
		} else {
			in.GCS = gcs
		}
	}
	return in, nil
}
