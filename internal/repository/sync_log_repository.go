package repository

import (
	"context"

	"print_shop_sync/internal/models"

	"gorm.io/gorm"
)

// SyncLogRepository appends and reads sync attempt records. Entries are never
// updated or deleted.
type SyncLogRepository interface {
	Create(ctx context.Context, entry *models.SyncLog) error
	Recent(ctx context.Context, limit int) ([]models.SyncLog, error)
}

type syncLogRepository struct {
	db *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &syncLogRepository{db: db}
}

func (r *syncLogRepository) Create(ctx context.Context, entry *models.SyncLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *syncLogRepository) Recent(ctx context.Context, limit int) ([]models.SyncLog, error) {
	var logs []models.SyncLog
	err := r.db.WithContext(ctx).
		Order("synced_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
