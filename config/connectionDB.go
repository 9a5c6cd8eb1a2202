package config

import (
	"context"
	"time"

	"github.com/samber/oops"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectionDb(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disable prepared statements completely
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, oops.In("database").Wrapf(err, "connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, oops.In("database").Wrapf(err, "get sql handle")
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// PingDB reports whether the database answers within the context deadline.
func PingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return oops.In("database").Wrapf(err, "get sql handle")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return oops.In("database").Wrapf(err, "ping database")
	}
	return nil
}
