package database

import (
	"fmt"
	"time"

	"storefront/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewConnection opens a GORM pool on Postgres and verifies it is reachable.
func NewConnection(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("connected to PostgreSQL")
	return db, nil
}

// Models lists every table the service owns, parents before children.
func Models() []interface{} {
	return []interface{}{
		&model.PaymentTerm{},
		&model.Contact{},
		&model.Product{},
		&model.DiscountOffer{},
		&model.Coupon{},
		&model.Order{},
		&model.OrderLine{},
		&model.InventoryTransaction{},
		&model.Invoice{},
		&model.Payment{},
		&model.DocumentSequence{},
		&model.AuditLog{},
	}
}

// Migrate brings the schema up to date with the models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
