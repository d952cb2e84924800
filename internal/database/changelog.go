package database

import (
	"context"
	"domainkeeper/internal/types"
	"gorm.io/gorm"
)

type changeLogRepository struct {
	db *gorm.DB
}

func NewChangeLogRepository(db *gorm.DB) ChangeLogRepository {
	return &changeLogRepository{db: db}
}

func (c changeLogRepository) Append(ctx context.Context, entry *types.ChangeLog) error {
	return c.db.WithContext(ctx).Create(entry).Error
}

func (c changeLogRepository) FindByEntity(ctx context.Context, entityType string, entityID uint) ([]*types.ChangeLog, error) {
	result := make([]*types.ChangeLog, 0)
	err := c.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id ASC").
		Find(&result).Error
	return result, err
}
