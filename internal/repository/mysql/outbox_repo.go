package mysql

import (
	"context"

	"threadnest/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

func (r *OutboxRepository) Append(ctx context.Context, row *model.CommunityOutbox) error {
	return r.DB.WithContext(ctx).Create(row).Error
}

// ListPending 按大小查询待投递事件
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]model.CommunityOutbox, error) {
	var rows []model.CommunityOutbox
	err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.CommunityOutbox{}).
		Where("id = ?", id).
		Update("status", 1).Error
}

// MarkFailed bumps the retry counter; rows stay pending so the next drain
// picks them up again.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.CommunityOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{"retry": gorm.Expr("retry + 1")}).Error
}
