package repository

import (
	"context"

	"profilehub/internal/entity"

	"github.com/samber/oops"
	"gorm.io/gorm"
)

type SecurityLogRepository interface {
	Log(ctx context.Context, log *entity.SecurityLog) error
}

type securityLogRepository struct {
	db *gorm.DB
}

func NewSecurityLogRepository(db *gorm.DB) SecurityLogRepository {
	return &securityLogRepository{db: db}
}

func (r *securityLogRepository) Log(ctx context.Context, log *entity.SecurityLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return oops.In("security_log_repository").With("action", log.Action).Wrapf(err, "write security log")
	}
	return nil
}
