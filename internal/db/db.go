package db

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"facilityaudit/internal/logger"
	"facilityaudit/internal/model"
)

// Options controls how the database connection is established.
type Options struct {
	Driver  string
	DSN     string
	Retries int
	Log     logger.Logger
}

// Dialector returns the gorm dialector for driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open returns a connected GORM DB instance, retrying with exponential backoff
// while the database is still starting up.
func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	dialector, err := Dialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = logger.FromContext(ctx)
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.New(logger.GormWriter(log), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}

	var gormDB *gorm.DB
	backoff := retry.WithMaxRetries(uint64(retries), retry.NewExponential(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err := gorm.Open(dialector, gormCfg)
		if err != nil {
			log.Warn("database not ready", "driver", opts.Driver, "error", err)
			return retry.RetryableError(err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			log.Warn("database ping failed", "driver", opts.Driver, "error", err)
			return retry.RetryableError(err)
		}
		gormDB = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.Driver, err)
	}
	return gormDB, nil
}

// Migrate creates or updates every table.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table, children first.
func Reset(gormDB *gorm.DB, log logger.Logger) {
	models := model.AllModels()
	for i := len(models) - 1; i >= 0; i-- {
		if err := gormDB.Migrator().DropTable(models[i]); err != nil {
			log.Warn("drop table failed (may not exist)", "error", err)
		}
	}
}
