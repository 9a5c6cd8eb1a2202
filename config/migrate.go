package config

import (
	"context"
	"embed"

	"github.com/pressly/goose/v3"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

func RunMigrations(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return oops.In("migrations").Wrapf(err, "get sql handle")
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return oops.In("migrations").Wrapf(err, "set dialect")
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return oops.In("migrations").Wrapf(err, "apply migrations")
	}
	return nil
}
