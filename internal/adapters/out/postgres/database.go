package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/GregTMJ/Orders-API/internal/adapters/out/postgres/orderrepo"
	"github.com/GregTMJ/Orders-API/internal/adapters/out/postgres/processedjobrepo"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to dsn. Session settings such as statement_timeout travel in
// the DSN so that every pooled connection gets them.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errs.NewInfrastructureError("postgres", err)
	}

	return db, nil
}

// Migrate creates or updates the orders and processed_jobs tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&orderrepo.OrderDTO{}, &processedjobrepo.ProcessedJobDTO{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping checks that the store answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errs.NewInfrastructureError("postgres", err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		return errs.NewInfrastructureError("postgres", err)
	}
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
